package command

import (
	"context"
	"errors"
	"sync"

	"github.com/bwmarrin/discordgo"
)

const adminRole = "role-admin"

type fakeSession struct {
	mu        sync.Mutex
	responses []*discordgo.InteractionResponse
	messages  map[string]*discordgo.Message
	fetches   int
	sent      []*discordgo.MessageSend
}

func newFakeSession() *fakeSession {
	return &fakeSession{messages: make(map[string]*discordgo.Message)}
}

func (f *fakeSession) InteractionRespond(_ *discordgo.Interaction, resp *discordgo.InteractionResponse, _ ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses = append(f.responses, resp)
	return nil
}

func (f *fakeSession) ChannelMessage(_, messageID string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	m, ok := f.messages[messageID]
	if !ok {
		return nil, errors.New("unknown message")
	}
	return m, nil
}

func (f *fakeSession) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, data)
	return &discordgo.Message{ChannelID: channelID}, nil
}

func (f *fakeSession) contents() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.responses))
	for _, r := range f.responses {
		if r.Data != nil {
			out = append(out, r.Data.Content)
		}
	}
	return out
}

// recorder is a module with every capability, counting invocations.
type recorder struct {
	name string
	err  error

	mu           sync.Mutex
	commands     int
	autocomplete int
	components   int
	setups       int
}

func (r *recorder) Name() string        { return r.name }
func (r *recorder) Description() string { return "test module " + r.name }

func (r *recorder) OnCommand(context.Context, Session, *CommandInteraction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands++
	return r.err
}

func (r *recorder) Autocomplete(context.Context, Session, *AutocompleteInteraction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.autocomplete++
	return r.err
}

func (r *recorder) OnInteraction(context.Context, Session, *ComponentInteraction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.components++
	return r.err
}

func (r *recorder) counts() (commands, autocomplete, components int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.commands, r.autocomplete, r.components
}

// topLevel adds Setup and a slash schema to a recorder.
type topLevel struct {
	*recorder
}

func (t topLevel) Setup(context.Context, Session) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.setups++
	return t.err
}

func (t topLevel) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{Name: t.name, Description: t.Description()}
}

// commandOnly implements nothing but OnCommand.
type commandOnly struct {
	name  string
	calls int
}

func (c *commandOnly) Name() string        { return c.name }
func (c *commandOnly) Description() string { return "" }
func (c *commandOnly) OnCommand(context.Context, Session, *CommandInteraction) error {
	c.calls++
	return nil
}

func member(roles ...string) *discordgo.Member {
	return &discordgo.Member{
		User:  &discordgo.User{ID: "u1", Username: "tester"},
		Roles: roles,
	}
}

func commandEvent(name string, m *discordgo.Member, opts ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.Interaction {
	return &discordgo.Interaction{
		Type:      discordgo.InteractionApplicationCommand,
		GuildID:   "g1",
		ChannelID: "c1",
		Member:    m,
		Data:      discordgo.ApplicationCommandInteractionData{Name: name, Options: opts},
	}
}

func autocompleteEvent(name string, m *discordgo.Member, opts ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.Interaction {
	i := commandEvent(name, m, opts...)
	i.Type = discordgo.InteractionApplicationCommandAutocomplete
	return i
}

func componentEvent(customID string, m *discordgo.Member, msg *discordgo.Message) *discordgo.Interaction {
	return &discordgo.Interaction{
		Type:      discordgo.InteractionMessageComponent,
		GuildID:   "g1",
		ChannelID: "c1",
		Member:    m,
		Message:   msg,
		Data:      discordgo.MessageComponentInteractionData{CustomID: customID, ComponentType: discordgo.ButtonComponent},
	}
}

func subcommand(name string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{Name: name, Type: discordgo.ApplicationCommandOptionSubCommand}
}

func mustClassify(i *discordgo.Interaction) Interaction {
	in, ok := FromEvent(i)
	if !ok {
		panic("interaction not classified")
	}
	return in
}
