package services

import (
	"context"

	"anify-manager/internal/command"

	"github.com/bwmarrin/discordgo"
)

type Status struct {
	m Manager
}

func (c *Status) Name() string        { return "status" }
func (c *Status) Description() string { return "Show which services this bot has started" }

func (c *Status) OnCommand(_ context.Context, s command.Session, in *command.CommandInteraction) error {
	names := c.m.Names()
	fields := make([]*discordgo.MessageEmbedField, 0, len(names))
	for _, name := range names {
		state := "⚪ stopped"
		if c.m.IsRunning(name) {
			state = "🟢 running"
		}
		fields = append(fields, &discordgo.MessageEmbedField{Name: name, Value: state, Inline: true})
	}

	embed := &discordgo.MessageEmbed{
		Title:  "Services",
		Color:  command.EmbedColor,
		Fields: fields,
		Footer: &discordgo.MessageEmbedFooter{Text: "Only processes started by this bot are tracked."},
	}
	if len(names) == 0 {
		embed.Description = "No services configured."
	}
	return command.RespondEmbed(s, in, embed)
}
