package discord

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"slices"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// stableCommand holds the fields of a command schema that matter to Discord.
// IDs and versions assigned remotely are left out.
type stableCommand struct {
	Name        string                           `json:"name"`
	Description string                           `json:"description"`
	Type        discordgo.ApplicationCommandType `json:"type"`
	Options     []stableOption                   `json:"options,omitempty"`
}

type stableOption struct {
	Name         string                                 `json:"name"`
	Description  string                                 `json:"description"`
	Type         discordgo.ApplicationCommandOptionType `json:"type"`
	Required     bool                                   `json:"required"`
	Autocomplete bool                                   `json:"autocomplete"`
	Choices      []stableChoice                         `json:"choices,omitempty"`
	Options      []stableOption                         `json:"options,omitempty"`
}

type stableChoice struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// hashCommand returns a deterministic digest of a command's stable fields.
func hashCommand(c *discordgo.ApplicationCommand) string {
	typ := c.Type
	if typ == 0 {
		typ = discordgo.ChatApplicationCommand
	}
	data, _ := json.Marshal(stableCommand{
		Name:        c.Name,
		Description: c.Description,
		Type:        typ,
		Options:     stableOptions(c.Options),
	})
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// stableOptions sorts options by name; choices keep their order.
func stableOptions(opts []*discordgo.ApplicationCommandOption) []stableOption {
	if len(opts) == 0 {
		return nil
	}
	out := make([]stableOption, 0, len(opts))
	for _, o := range opts {
		so := stableOption{
			Name:         o.Name,
			Description:  o.Description,
			Type:         o.Type,
			Required:     o.Required,
			Autocomplete: o.Autocomplete,
			Options:      stableOptions(o.Options),
		}
		for _, ch := range o.Choices {
			so.Choices = append(so.Choices, stableChoice{Name: ch.Name, Value: ch.Value})
		}
		out = append(out, so)
	}
	slices.SortFunc(out, func(a, b stableOption) int { return strings.Compare(a.Name, b.Name) })
	return out
}
