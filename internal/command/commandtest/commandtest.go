// Package commandtest provides a recording Session and event builders for
// module tests.
package commandtest

import (
	"errors"
	"fmt"
	"sync"

	"anify-manager/internal/command"

	"github.com/bwmarrin/discordgo"
)

const (
	GuildID   = "guild-1"
	ChannelID = "channel-1"
	AdminRole = "role-admin"
)

// Session records every response and sent message.
type Session struct {
	mu        sync.Mutex
	Responses []*discordgo.InteractionResponse
	Sent      []*discordgo.MessageSend
	Messages  map[string]*discordgo.Message
	SendErr   error
}

func NewSession() *Session {
	return &Session{Messages: make(map[string]*discordgo.Message)}
}

var _ command.Session = (*Session)(nil)

func (s *Session) InteractionRespond(_ *discordgo.Interaction, resp *discordgo.InteractionResponse, _ ...discordgo.RequestOption) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Responses = append(s.Responses, resp)
	return nil
}

func (s *Session) ChannelMessage(_, messageID string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.Messages[messageID]; ok {
		return m, nil
	}
	return nil, errors.New("unknown message")
}

func (s *Session) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SendErr != nil {
		return nil, s.SendErr
	}
	s.Sent = append(s.Sent, data)
	return &discordgo.Message{ID: fmt.Sprintf("sent-%d", len(s.Sent)), ChannelID: channelID}, nil
}

// Last returns the most recent interaction response, or nil.
func (s *Session) Last() *discordgo.InteractionResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Responses) == 0 {
		return nil
	}
	return s.Responses[len(s.Responses)-1]
}

func Member(roles ...string) *discordgo.Member {
	return &discordgo.Member{
		User:  &discordgo.User{ID: "user-1", Username: "tester"},
		Roles: roles,
	}
}

// Command builds a classified slash command.
func Command(name string, m *discordgo.Member, opts ...*discordgo.ApplicationCommandInteractionDataOption) *command.CommandInteraction {
	in, _ := command.FromEvent(commandEvent(discordgo.InteractionApplicationCommand, name, m, opts))
	return in.(*command.CommandInteraction)
}

// Autocomplete builds a classified autocomplete request.
func Autocomplete(name string, m *discordgo.Member, opts ...*discordgo.ApplicationCommandInteractionDataOption) *command.AutocompleteInteraction {
	in, _ := command.FromEvent(commandEvent(discordgo.InteractionApplicationCommandAutocomplete, name, m, opts))
	return in.(*command.AutocompleteInteraction)
}

// Component builds a classified button click on msg.
func Component(customID string, m *discordgo.Member, msg *discordgo.Message) *command.ComponentInteraction {
	in, _ := command.FromEvent(&discordgo.Interaction{
		Type:      discordgo.InteractionMessageComponent,
		GuildID:   GuildID,
		ChannelID: ChannelID,
		Member:    m,
		Message:   msg,
		Data:      discordgo.MessageComponentInteractionData{CustomID: customID, ComponentType: discordgo.ButtonComponent},
	})
	return in.(*command.ComponentInteraction)
}

func commandEvent(t discordgo.InteractionType, name string, m *discordgo.Member, opts []*discordgo.ApplicationCommandInteractionDataOption) *discordgo.Interaction {
	return &discordgo.Interaction{
		Type:      t,
		GuildID:   GuildID,
		ChannelID: ChannelID,
		Member:    m,
		Data:      discordgo.ApplicationCommandInteractionData{Name: name, Options: opts},
	}
}

// Sub builds a subcommand option wrapping opts.
func Sub(name string, opts ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:    name,
		Type:    discordgo.ApplicationCommandOptionSubCommand,
		Options: opts,
	}
}

// String builds a string option, optionally focused.
func String(name, value string, focused bool) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:    name,
		Type:    discordgo.ApplicationCommandOptionString,
		Value:   value,
		Focused: focused,
	}
}
