package services

import (
	"context"
	"fmt"

	"anify-manager/internal/command"

	"github.com/bwmarrin/discordgo"
)

type Start struct {
	m Manager
}

func (c *Start) Name() string        { return "start" }
func (c *Start) Description() string { return "Start a service, or all of them" }

func (c *Start) OptionDefinition() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Name:        c.Name(),
		Description: c.Description(),
		Options:     []*discordgo.ApplicationCommandOption{nameOption("Service to start, or \"all\"")},
	}
}

func (c *Start) Autocomplete(_ context.Context, s command.Session, in *command.AutocompleteInteraction) error {
	return suggest(s, in, c.m, allOpt)
}

func (c *Start) OnCommand(ctx context.Context, s command.Session, in *command.CommandInteraction) error {
	name := serviceName(in)

	var err error
	if name == allOpt {
		err = c.m.StartAll(ctx)
	} else {
		err = c.m.Start(name)
	}
	if err != nil {
		_ = command.RespondEphemeral(s, in, fmt.Sprintf("Failed to start `%s`: %v", name, err))
		return err
	}

	if name == allOpt {
		return command.Respond(s, in, "Started services!")
	}
	return command.Respond(s, in, fmt.Sprintf("Started `%s`.", name))
}
