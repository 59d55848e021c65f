// Package services implements the /services subcommands that control the
// sibling processes of the deployment.
package services

import (
	"context"
	"strings"

	"anify-manager/internal/command"

	"github.com/bwmarrin/discordgo"
)

const (
	GroupName = "services"
	nameOpt   = "name"
	allOpt    = "all"
)

// Manager is the process control surface the subcommands need.
type Manager interface {
	Names() []string
	Start(name string) error
	StartAll(ctx context.Context) error
	Stop(ctx context.Context, name string) error
	Kill(ctx context.Context, name string) error
	IsRunning(name string) bool
}

// Group returns the /services parent command.
func Group(m Manager) command.Group {
	return command.Group{
		Name:        GroupName,
		Description: "Control the Anify services",
		Modules: []command.Module{
			&Start{m: m},
			&Stop{m: m},
			&Kill{m: m},
			&Status{m: m},
		},
	}
}

func nameOption(desc string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:         discordgo.ApplicationCommandOptionString,
		Name:         nameOpt,
		Description:  desc,
		Required:     true,
		Autocomplete: true,
	}
}

// suggest answers autocomplete with the configured names matching what the
// user typed so far. extra entries are offered first.
func suggest(s command.Session, in *command.AutocompleteInteraction, m Manager, extra ...string) error {
	typed := ""
	if f := command.FocusedOption(in.Options); f != nil {
		if v, ok := f.Value.(string); ok {
			typed = strings.ToLower(strings.TrimSpace(v))
		}
	}

	var choices []*discordgo.ApplicationCommandOptionChoice
	for _, name := range append(extra, m.Names()...) {
		if typed == "" || strings.Contains(strings.ToLower(name), typed) {
			choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: name, Value: name})
		}
	}
	if choices == nil {
		choices = []*discordgo.ApplicationCommandOptionChoice{}
	}
	return command.RespondChoices(s, in, choices)
}

// serviceName reads the name option of the invoked leaf.
func serviceName(in *command.CommandInteraction) string {
	v, _ := command.StringOption(in.Options, nameOpt)
	return strings.TrimSpace(v)
}
