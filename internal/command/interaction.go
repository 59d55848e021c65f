package command

import (
	"github.com/bwmarrin/discordgo"
)

// Kind tags an interaction variant.
type Kind int

const (
	KindCommand Kind = iota + 1
	KindAutocomplete
	KindComponent
)

func (k Kind) String() string {
	switch k {
	case KindCommand:
		return "command"
	case KindAutocomplete:
		return "autocomplete"
	case KindComponent:
		return "component"
	default:
		return "unknown"
	}
}

// Interaction is a closed union of CommandInteraction, AutocompleteInteraction
// and ComponentInteraction.
type Interaction interface {
	Kind() Kind
	Invoker() Invoker
	Raw() *discordgo.Interaction

	sealed()
}

// Invoker identifies who triggered an interaction. HasMember is false outside
// a guild, in which case Roles is empty.
type Invoker struct {
	GuildID   string
	ChannelID string
	UserID    string
	Username  string
	Roles     []string
	HasMember bool
}

type base struct {
	raw     *discordgo.Interaction
	invoker Invoker
}

func (b base) Invoker() Invoker             { return b.invoker }
func (b base) Raw() *discordgo.Interaction { return b.raw }
func (base) sealed()                        {}

// CommandInteraction is a slash command invocation.
type CommandInteraction struct {
	base
	Name    string
	Options []*discordgo.ApplicationCommandInteractionDataOption
}

func (*CommandInteraction) Kind() Kind { return KindCommand }

// AutocompleteInteraction asks for option suggestions while the user types.
type AutocompleteInteraction struct {
	base
	Name    string
	Options []*discordgo.ApplicationCommandInteractionDataOption
}

func (*AutocompleteInteraction) Kind() Kind { return KindAutocomplete }

// ComponentInteraction is a click on a button or menu of an earlier message.
type ComponentInteraction struct {
	base
	CustomID string
	Values   []string

	ChannelID string
	MessageID string
	// OriginName is the name of the top-level interaction that produced the
	// message, as reported by the platform. Empty when unknown.
	OriginName string
}

func (*ComponentInteraction) Kind() Kind { return KindComponent }

// FromEvent classifies a gateway interaction. ok is false for kinds the router
// does not handle (pings, modal submits).
func FromEvent(i *discordgo.Interaction) (in Interaction, ok bool) {
	if i == nil {
		return nil, false
	}
	b := base{raw: i, invoker: invokerOf(i)}

	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		data, ok := i.Data.(discordgo.ApplicationCommandInteractionData)
		if !ok {
			return nil, false
		}
		return &CommandInteraction{base: b, Name: data.Name, Options: data.Options}, true

	case discordgo.InteractionApplicationCommandAutocomplete:
		data, ok := i.Data.(discordgo.ApplicationCommandInteractionData)
		if !ok {
			return nil, false
		}
		return &AutocompleteInteraction{base: b, Name: data.Name, Options: data.Options}, true

	case discordgo.InteractionMessageComponent:
		data, ok := i.Data.(discordgo.MessageComponentInteractionData)
		if !ok {
			return nil, false
		}
		c := &ComponentInteraction{
			base:      b,
			CustomID:  data.CustomID,
			Values:    data.Values,
			ChannelID: i.ChannelID,
		}
		if m := i.Message; m != nil {
			c.MessageID = m.ID
			if m.ChannelID != "" {
				c.ChannelID = m.ChannelID
			}
			if m.Interaction != nil {
				c.OriginName = m.Interaction.Name
			}
		}
		return c, true
	}

	return nil, false
}

func invokerOf(i *discordgo.Interaction) Invoker {
	inv := Invoker{GuildID: i.GuildID, ChannelID: i.ChannelID}
	if i.Member != nil {
		inv.HasMember = true
		inv.Roles = i.Member.Roles
		if i.Member.User != nil {
			inv.UserID = i.Member.User.ID
			inv.Username = i.Member.User.Username
		}
	} else if i.User != nil {
		inv.UserID = i.User.ID
		inv.Username = i.User.Username
	}
	return inv
}

// FocusedOption returns the option the user is currently typing in, searching
// nested subcommand options. Nil when none is focused.
func FocusedOption(opts []*discordgo.ApplicationCommandInteractionDataOption) *discordgo.ApplicationCommandInteractionDataOption {
	for _, o := range opts {
		if o.Focused {
			return o
		}
		if f := FocusedOption(o.Options); f != nil {
			return f
		}
	}
	return nil
}

// LeafOptions returns the options of the invoked subcommand when one is
// present, otherwise opts itself.
func LeafOptions(opts []*discordgo.ApplicationCommandInteractionDataOption) []*discordgo.ApplicationCommandInteractionDataOption {
	if len(opts) > 0 && opts[0].Type == discordgo.ApplicationCommandOptionSubCommand {
		return opts[0].Options
	}
	return opts
}

// StringOption returns the string value of the named option.
func StringOption(opts []*discordgo.ApplicationCommandInteractionDataOption, name string) (string, bool) {
	for _, o := range LeafOptions(opts) {
		if o.Name == name {
			s, ok := o.Value.(string)
			return s, ok
		}
	}
	return "", false
}
