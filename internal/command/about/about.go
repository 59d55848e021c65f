// Package about implements /about: build info, uptime and the routable keys.
package about

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"anify-manager/internal/command"
	"anify-manager/internal/version"

	"github.com/bwmarrin/discordgo"
)

type Command struct {
	keys func() []string
	now  func() time.Time

	mu      sync.Mutex
	started time.Time
}

// New returns the about command. keys lists the registered command keys and
// is read on every invocation.
func New(keys func() []string) *Command {
	return &Command{keys: keys, now: time.Now}
}

func (c *Command) Name() string        { return "about" }
func (c *Command) Description() string { return "Discover the origin of this bot" }

func (c *Command) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}

func (c *Command) Setup(context.Context, command.Session) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.started = c.now()
	return nil
}

func (c *Command) OnCommand(_ context.Context, s command.Session, in *command.CommandInteraction) error {
	return command.RespondEmbed(s, in, c.embed())
}

func (c *Command) embed() *discordgo.MessageEmbed {
	c.mu.Lock()
	uptime := c.now().Sub(c.started).Truncate(time.Second)
	c.mu.Unlock()

	buildDate := "unknown"
	if version.BuildDate != "" {
		if t, err := time.Parse(time.RFC3339, version.BuildDate); err == nil {
			buildDate = t.Format("2006-01-02")
		} else {
			buildDate = "invalid date"
		}
	}

	var keys []string
	if c.keys != nil {
		keys = c.keys()
	}
	commands := "none"
	if len(keys) > 0 {
		commands = "`" + strings.Join(keys, "`, `") + "`"
	}

	return &discordgo.MessageEmbed{
		Title:       "ℹ️ About " + version.AppName,
		Description: version.AppDescription,
		Color:       command.EmbedColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Uptime", Value: uptime.String(), Inline: true},
			{Name: "Release", Value: fmt.Sprintf("%s (Go %s)", buildDate, strings.TrimPrefix(version.GoVersion, "go")), Inline: true},
			{Name: "Commands", Value: commands},
		},
	}
}
