package discord

import (
	"context"
	"errors"
	"testing"

	"anify-manager/internal/command"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type stubRouter struct {
	got     []command.Interaction
	outcome command.Outcome
	err     error
}

func (r *stubRouter) Dispatch(_ context.Context, in command.Interaction) (command.Outcome, error) {
	r.got = append(r.got, in)
	return r.outcome, r.err
}

func TestHandleInteractionClassifies(t *testing.T) {
	r := &stubRouter{outcome: command.Handled}
	i := &discordgo.Interaction{
		Type: discordgo.InteractionApplicationCommand,
		Data: discordgo.ApplicationCommandInteractionData{Name: "about"},
	}

	assert.Equal(t, command.Handled, handleInteraction(context.Background(), r, i, zerolog.Nop()))
	if assert.Len(t, r.got, 1) {
		cmd, ok := r.got[0].(*command.CommandInteraction)
		assert.True(t, ok)
		assert.Equal(t, "about", cmd.Name)
	}
}

func TestHandleInteractionIgnoresOtherKinds(t *testing.T) {
	r := &stubRouter{}
	ping := &discordgo.Interaction{Type: discordgo.InteractionPing}

	assert.Equal(t, command.Ignored, handleInteraction(context.Background(), r, ping, zerolog.Nop()))
	assert.Empty(t, r.got)
	assert.Equal(t, command.Ignored, handleInteraction(context.Background(), nil, ping, zerolog.Nop()))
}

func TestHandleInteractionSwallowsHandlerErrors(t *testing.T) {
	r := &stubRouter{outcome: command.Handled, err: errors.New("boom")}
	i := &discordgo.Interaction{
		Type: discordgo.InteractionMessageComponent,
		Data: discordgo.MessageComponentInteractionData{CustomID: "history"},
	}
	assert.Equal(t, command.Handled, handleInteraction(context.Background(), r, i, zerolog.Nop()))
}
