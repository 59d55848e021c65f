package command

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
)

const defaultGroupDescription = "Subcommand"

// Group is a parent command whose modules become subcommands. A module in a
// group that implements Setupper is registered as a standalone command instead.
type Group struct {
	Name        string
	Description string
	Modules     []Module
}

// Loaded is the result of bootstrap: the sealed registry and the command
// schemas to publish to the platform.
type Loaded struct {
	Registry    *Registry
	Definitions []*discordgo.ApplicationCommand
}

// Load registers top-level modules under their names and group leaves under
// SubcommandKey(group, leaf), calling Setup exactly once on every top-level
// module. The first Setup error aborts loading.
func Load(ctx context.Context, s Session, log zerolog.Logger, top []Module, groups ...Group) (*Loaded, error) {
	b := NewBuilder()
	var defs []*discordgo.ApplicationCommand

	addTop := func(m Module) error {
		if setup, ok := m.(Setupper); ok {
			if err := setup.Setup(ctx, s); err != nil {
				return fmt.Errorf("setup %s: %w", m.Name(), err)
			}
		}
		if b.Register(m.Name(), m) {
			log.Warn().Str("key", m.Name()).Msg("Command registered twice, keeping the last one")
		}
		if def := slashDefinition(m); def != nil {
			defs = append(defs, def)
		}
		log.Debug().Str("key", m.Name()).Msg("Loaded command")
		return nil
	}

	for _, m := range top {
		if err := addTop(m); err != nil {
			return nil, err
		}
	}

	for _, g := range groups {
		var leaves []*discordgo.ApplicationCommandOption
		for _, m := range g.Modules {
			if _, ok := m.(Setupper); ok {
				if err := addTop(m); err != nil {
					return nil, err
				}
				continue
			}

			key := SubcommandKey(g.Name, m.Name())
			if b.Register(key, m) {
				log.Warn().Str("key", key).Msg("Subcommand registered twice, keeping the last one")
			}
			leaves = append(leaves, subcommandOption(m))
			log.Debug().Str("key", key).Msg("Loaded subcommand")
		}
		if len(leaves) > 0 {
			defs = append(defs, groupDefinition(g, leaves))
		}
	}

	return &Loaded{Registry: b.Build(), Definitions: defs}, nil
}

func slashDefinition(m Module) *discordgo.ApplicationCommand {
	p, ok := m.(SlashProvider)
	if !ok {
		return nil
	}
	def := p.SlashDefinition()
	if def == nil {
		return nil
	}
	if def.Type == 0 {
		def.Type = discordgo.ChatApplicationCommand
	}
	return def
}

// subcommandOption returns the leaf's schema with its type forced to sub-command.
func subcommandOption(m Module) *discordgo.ApplicationCommandOption {
	var opt *discordgo.ApplicationCommandOption
	if p, ok := m.(OptionProvider); ok {
		opt = p.OptionDefinition()
	}
	if opt == nil {
		opt = &discordgo.ApplicationCommandOption{Name: m.Name(), Description: m.Description()}
	}
	opt.Type = discordgo.ApplicationCommandOptionSubCommand
	return opt
}

func groupDefinition(g Group, leaves []*discordgo.ApplicationCommandOption) *discordgo.ApplicationCommand {
	desc := g.Description
	if desc == "" {
		desc = defaultGroupDescription
	}
	return &discordgo.ApplicationCommand{
		Type:        discordgo.ChatApplicationCommand,
		Name:        g.Name,
		Description: desc,
		Options:     leaves,
	}
}
