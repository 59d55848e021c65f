package history

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"anify-manager/internal/command"
	"anify-manager/internal/command/commandtest"
	"anify-manager/internal/storage"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	records []storage.CommandHistoryRecord
	err     error
	guilds  []string
}

func (f *fakeSource) FetchCommandHistory(_ context.Context, guildID string) ([]storage.CommandHistoryRecord, error) {
	f.guilds = append(f.guilds, guildID)
	return f.records, f.err
}

func record(cmd string, at time.Time) storage.CommandHistoryRecord {
	return storage.CommandHistoryRecord{Username: "tester", Command: cmd, Kind: "command", Datetime: at}
}

func TestFormatNewestFirst(t *testing.T) {
	at := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	out := Format([]storage.CommandHistoryRecord{record("about", at), record("services-start", at.Add(time.Minute))})

	require.True(t, strings.HasPrefix(out, "```md\n"))
	require.True(t, strings.HasSuffix(out, "```"))
	assert.Less(t, strings.Index(out, "/services-start"), strings.Index(out, "/about"))
	assert.Contains(t, out, "2026-05-01 10:01:00")
}

func TestFormatFitsOneMessage(t *testing.T) {
	var recs []storage.CommandHistoryRecord
	for i := 0; i < 200; i++ {
		recs = append(recs, record(fmt.Sprintf("command-with-a-long-name-%03d", i), time.Now()))
	}
	assert.LessOrEqual(t, len(Format(recs)), discordMaxMessageLength)
	assert.Equal(t, emptyText, Format(nil))
}

func TestOnCommandRespondsWithRefreshButton(t *testing.T) {
	src := &fakeSource{records: []storage.CommandHistoryRecord{record("about", time.Now())}}
	s := commandtest.NewSession()
	c := New(src)

	in := commandtest.Command("history", commandtest.Member(commandtest.AdminRole))
	require.NoError(t, c.OnCommand(context.Background(), s, in))

	resp := s.Last()
	require.NotNil(t, resp)
	assert.Contains(t, resp.Data.Content, "/about")
	require.Len(t, resp.Data.Components, 1)
	row := resp.Data.Components[0].(discordgo.ActionsRow)
	assert.Equal(t, refreshID, row.Components[0].(discordgo.Button).CustomID)
	assert.Equal(t, []string{commandtest.GuildID}, src.guilds)
}

func TestOnCommandReportsStorageFailure(t *testing.T) {
	boom := errors.New("db locked")
	s := commandtest.NewSession()
	c := New(&fakeSource{err: boom})

	err := c.OnCommand(context.Background(), s, commandtest.Command("history", commandtest.Member(commandtest.AdminRole)))
	require.ErrorIs(t, err, boom)
	assert.Equal(t, discordgo.MessageFlagsEphemeral, s.Last().Data.Flags)
}

// The refresh click on a reply to /history is routed back to the module
// through the originating interaction name.
func TestRefreshRoutedThroughRouter(t *testing.T) {
	src := &fakeSource{}
	c := New(src)
	s := commandtest.NewSession()

	loaded, err := command.Load(context.Background(), s, zerolog.Nop(), []command.Module{c})
	require.NoError(t, err)
	router := command.NewRouter(loaded.Registry, command.RoleGate{RoleID: commandtest.AdminRole}, s)

	msg := &discordgo.Message{
		ID:          "m1",
		ChannelID:   commandtest.ChannelID,
		Interaction: &discordgo.MessageInteraction{Name: "history"},
	}
	s.Messages["m1"] = msg

	in := commandtest.Component(refreshID, commandtest.Member(commandtest.AdminRole), msg)
	outcome, err := router.Dispatch(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, command.Handled, outcome)

	resp := s.Last()
	assert.Equal(t, discordgo.InteractionResponseUpdateMessage, resp.Type)
	assert.Equal(t, emptyText, resp.Data.Content)
}
