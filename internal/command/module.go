package command

import (
	"context"

	"github.com/bwmarrin/discordgo"
)

// Session is the part of *discordgo.Session the router and command modules use.
// Tests substitute a recording fake.
type Session interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	ChannelMessage(channelID, messageID string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Module is one command or subcommand. What it can do is expressed by the
// optional capability interfaces below.
type Module interface {
	Name() string
	Description() string
}

// Setupper is implemented by top-level commands only. A module inside a group
// that lacks it is treated as a subcommand leaf.
type Setupper interface {
	Setup(ctx context.Context, s Session) error
}

// CommandHandler runs a command or subcommand leaf.
type CommandHandler interface {
	OnCommand(ctx context.Context, s Session, in *CommandInteraction) error
}

// Autocompleter answers autocomplete requests for the command's options.
type Autocompleter interface {
	Autocomplete(ctx context.Context, s Session, in *AutocompleteInteraction) error
}

// ComponentHandler receives button and menu clicks on messages the command produced.
type ComponentHandler interface {
	OnInteraction(ctx context.Context, s Session, in *ComponentInteraction) error
}

// Providers: how a module is described to the platform.

// SlashProvider supplies the schema of a top-level command.
type SlashProvider interface {
	SlashDefinition() *discordgo.ApplicationCommand
}

// OptionProvider supplies the schema of a subcommand leaf.
type OptionProvider interface {
	OptionDefinition() *discordgo.ApplicationCommandOption
}
