package services

import (
	"context"
	"fmt"

	"anify-manager/internal/command"

	"github.com/bwmarrin/discordgo"
)

type Stop struct {
	m Manager
}

func (c *Stop) Name() string        { return "stop" }
func (c *Stop) Description() string { return "Ask a service to shut down" }

func (c *Stop) OptionDefinition() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Name:        c.Name(),
		Description: c.Description(),
		Options:     []*discordgo.ApplicationCommandOption{nameOption("Service to stop")},
	}
}

func (c *Stop) Autocomplete(_ context.Context, s command.Session, in *command.AutocompleteInteraction) error {
	return suggest(s, in, c.m)
}

func (c *Stop) OnCommand(ctx context.Context, s command.Session, in *command.CommandInteraction) error {
	name := serviceName(in)
	if err := c.m.Stop(ctx, name); err != nil {
		_ = command.RespondEphemeral(s, in, fmt.Sprintf("Failed to stop `%s`: %v", name, err))
		return err
	}
	return command.Respond(s, in, fmt.Sprintf("Stopped `%s`.", name))
}
