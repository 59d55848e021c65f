package services

import (
	"context"
	"fmt"

	"anify-manager/internal/command"

	"github.com/bwmarrin/discordgo"
)

const (
	killConfirmID = "services-kill:confirm"
	killCancelID  = "services-kill:cancel"
	serviceField  = "Service"
)

// Kill force-terminates a service after a button confirmation. The buttons
// come back through OnInteraction, resolved by the originating command name.
type Kill struct {
	m Manager
}

func (c *Kill) Name() string        { return "kill" }
func (c *Kill) Description() string { return "Force-kill a service" }

func (c *Kill) OptionDefinition() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Name:        c.Name(),
		Description: c.Description(),
		Options:     []*discordgo.ApplicationCommandOption{nameOption("Service to kill")},
	}
}

func (c *Kill) Autocomplete(_ context.Context, s command.Session, in *command.AutocompleteInteraction) error {
	return suggest(s, in, c.m)
}

func (c *Kill) OnCommand(_ context.Context, s command.Session, in *command.CommandInteraction) error {
	name := serviceName(in)
	embed := &discordgo.MessageEmbed{
		Title:       "Force-kill service?",
		Description: "Every process with this name receives SIGKILL.",
		Color:       0xed4245,
		Fields:      []*discordgo.MessageEmbedField{{Name: serviceField, Value: name}},
	}
	return command.RespondEmbed(s, in, embed, command.ButtonRow(
		discordgo.Button{Label: "Kill", Style: discordgo.DangerButton, CustomID: killConfirmID},
		discordgo.Button{Label: "Cancel", Style: discordgo.SecondaryButton, CustomID: killCancelID},
	))
}

func (c *Kill) OnInteraction(ctx context.Context, s command.Session, in *command.ComponentInteraction) error {
	switch in.CustomID {
	case killCancelID:
		return command.UpdateMessage(s, in, "Cancelled.", []*discordgo.MessageEmbed{})
	case killConfirmID:
	default:
		return nil
	}

	name := confirmedService(in.Raw().Message)
	if name == "" {
		return command.UpdateMessage(s, in, "This confirmation no longer names a service.", []*discordgo.MessageEmbed{})
	}

	if err := c.m.Kill(ctx, name); err != nil {
		_ = command.UpdateMessage(s, in, fmt.Sprintf("Failed to kill `%s`: %v", name, err), []*discordgo.MessageEmbed{})
		return err
	}
	return command.UpdateMessage(s, in, fmt.Sprintf("Killed `%s`.", name), []*discordgo.MessageEmbed{})
}

// confirmedService reads the service name back from the confirmation embed.
func confirmedService(msg *discordgo.Message) string {
	if msg == nil {
		return ""
	}
	for _, e := range msg.Embeds {
		for _, f := range e.Fields {
			if f.Name == serviceField {
				return f.Value
			}
		}
	}
	return ""
}
