// Package history implements /history, the guild's recent command log.
package history

import (
	"context"
	"fmt"
	"strings"

	"anify-manager/internal/command"
	"anify-manager/internal/storage"

	"github.com/bwmarrin/discordgo"
)

const (
	discordMaxMessageLength = 2000
	codeLeftBlockWrapper    = "```md"
	codeRightBlockWrapper   = "```"

	refreshID = "history:refresh"
	emptyText = "No command history found."
)

var maxContentLength = discordMaxMessageLength - len(codeLeftBlockWrapper) - len(codeRightBlockWrapper) - 2

// Source provides the stored history.
type Source interface {
	FetchCommandHistory(ctx context.Context, guildID string) ([]storage.CommandHistoryRecord, error)
}

type Command struct {
	source Source
}

func New(source Source) *Command {
	return &Command{source: source}
}

func (c *Command) Name() string        { return "history" }
func (c *Command) Description() string { return "Review recent commands" }

func (c *Command) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}

func (c *Command) Setup(context.Context, command.Session) error {
	if c.source == nil {
		return fmt.Errorf("history: no storage configured")
	}
	return nil
}

func (c *Command) OnCommand(ctx context.Context, s command.Session, in *command.CommandInteraction) error {
	content, err := c.render(ctx, in.Invoker().GuildID)
	if err != nil {
		_ = command.RespondEphemeral(s, in, fmt.Sprintf("Failed to fetch command history: %v", err))
		return err
	}
	return s.InteractionRespond(in.Raw(), &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content:    content,
			Flags:      discordgo.MessageFlagsEphemeral,
			Components: []discordgo.MessageComponent{refreshRow()},
		},
	})
}

// OnInteraction handles the Refresh button.
func (c *Command) OnInteraction(ctx context.Context, s command.Session, in *command.ComponentInteraction) error {
	if in.CustomID != refreshID {
		return nil
	}
	content, err := c.render(ctx, in.Invoker().GuildID)
	if err != nil {
		content = fmt.Sprintf("Failed to fetch command history: %v", err)
	}
	if uerr := command.UpdateMessage(s, in, content, nil, refreshRow()); uerr != nil {
		return uerr
	}
	return err
}

func (c *Command) render(ctx context.Context, guildID string) (string, error) {
	records, err := c.source.FetchCommandHistory(ctx, guildID)
	if err != nil {
		return "", err
	}
	return Format(records), nil
}

// Format renders records newest first as a fixed-width table that fits in a
// single message.
func Format(records []storage.CommandHistoryRecord) string {
	if len(records) == 0 {
		return emptyText
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("%-19s\t%-15s\t%-12s\t%s\n", "# Datetime", "# Username", "# Kind", "# Command"))

	for idx := len(records) - 1; idx >= 0; idx-- {
		r := records[idx]
		line := fmt.Sprintf(
			"%-19s\t%-15s\t%-12s\t/%s\n",
			r.Datetime.Format("2006-01-02 15:04:05"),
			r.Username,
			r.Kind,
			r.Command,
		)
		if builder.Len()+len(line) > maxContentLength {
			break
		}
		builder.WriteString(line)
	}

	return codeLeftBlockWrapper + "\n" + builder.String() + codeRightBlockWrapper
}

func refreshRow() discordgo.ActionsRow {
	return command.ButtonRow(discordgo.Button{
		Label:    "Refresh",
		Style:    discordgo.SecondaryButton,
		CustomID: refreshID,
	})
}
