// Package feed implements the /feed subcommands for the entry notification
// relay.
package feed

import (
	"context"
	"fmt"
	"time"

	"anify-manager/internal/command"
	"anify-manager/internal/feed"
	"anify-manager/internal/storage"

	"github.com/bwmarrin/discordgo"
)

const GroupName = "feed"

// StatusSource reports the relay connection state.
type StatusSource interface {
	Status() feed.Status
}

// EntrySource returns the most recently posted entry.
type EntrySource interface {
	LastFeedEntry(ctx context.Context) (storage.FeedEntry, bool, error)
}

// Group returns the /feed parent command. status may be nil when the relay
// is disabled.
func Group(status StatusSource, entries EntrySource) command.Group {
	return command.Group{
		Name:        GroupName,
		Description: "Inspect the entry notification feed",
		Modules: []command.Module{
			&Status{source: status},
			&Last{entries: entries},
		},
	}
}

type Status struct {
	source StatusSource
}

func (c *Status) Name() string        { return "status" }
func (c *Status) Description() string { return "Show the backend websocket connection" }

func (c *Status) OnCommand(_ context.Context, s command.Session, in *command.CommandInteraction) error {
	if c.source == nil {
		return command.RespondEphemeral(s, in, "The feed is disabled.")
	}
	st := c.source.Status()

	state := "🔴 disconnected"
	if st.Connected {
		state = "🟢 connected"
	}
	embed := &discordgo.MessageEmbed{
		Title: "Feed",
		Color: command.EmbedColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "State", Value: state, Inline: true},
			{Name: "Since", Value: timestamp(st.Since), Inline: true},
			{Name: "Last post", Value: timestamp(st.LastPost), Inline: true},
			{Name: "Posted", Value: fmt.Sprint(st.Posted), Inline: true},
			{Name: "Dropped", Value: fmt.Sprint(st.Dropped), Inline: true},
			{Name: "Endpoint", Value: "`" + st.URL + "`"},
		},
	}
	return command.RespondEmbed(s, in, embed)
}

type Last struct {
	entries EntrySource
}

func (c *Last) Name() string        { return "last" }
func (c *Last) Description() string { return "Show the last entry card posted" }

func (c *Last) OnCommand(ctx context.Context, s command.Session, in *command.CommandInteraction) error {
	entry, ok, err := c.entries.LastFeedEntry(ctx)
	if err != nil {
		_ = command.RespondEphemeral(s, in, fmt.Sprintf("Failed to load the last entry: %v", err))
		return err
	}
	if !ok {
		return command.RespondEphemeral(s, in, "No entries have been posted yet.")
	}

	rec, err := feed.Decode(entry.Payload)
	if err != nil {
		_ = command.RespondEphemeral(s, in, fmt.Sprintf("Stored entry %q is unreadable.", entry.Title))
		return err
	}
	return command.RespondEmbed(s, in, feed.Render(rec))
}

// timestamp renders t as a Discord relative timestamp.
func timestamp(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return fmt.Sprintf("<t:%d:R>", t.Unix())
}
