package feed

import (
	"context"
	"errors"
	"testing"
	"time"

	"anify-manager/internal/command"
	"anify-manager/internal/command/commandtest"
	"anify-manager/internal/feed"
	"anify-manager/internal/storage"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedStatus feed.Status

func (f fixedStatus) Status() feed.Status { return feed.Status(f) }

type fakeEntries struct {
	entry storage.FeedEntry
	ok    bool
	err   error
}

func (f *fakeEntries) LastFeedEntry(context.Context) (storage.FeedEntry, bool, error) {
	return f.entry, f.ok, f.err
}

func route(t *testing.T, g command.Group, sub string) (*commandtest.Session, error) {
	t.Helper()
	s := commandtest.NewSession()
	loaded, err := command.Load(context.Background(), s, zerolog.Nop(), nil, g)
	require.NoError(t, err)
	router := command.NewRouter(loaded.Registry, command.RoleGate{RoleID: commandtest.AdminRole}, s)

	outcome, err := router.Dispatch(context.Background(),
		commandtest.Command("feed", commandtest.Member(commandtest.AdminRole), commandtest.Sub(sub)))
	assert.Equal(t, command.Handled, outcome)
	return s, err
}

func TestStatusReportsConnection(t *testing.T) {
	st := fixedStatus{URL: "ws://localhost:3061/entry", Connected: true, Since: time.Unix(1700000000, 0), Posted: 3}
	s, err := route(t, Group(st, &fakeEntries{}), "status")
	require.NoError(t, err)

	fields := map[string]string{}
	for _, f := range s.Last().Data.Embeds[0].Fields {
		fields[f.Name] = f.Value
	}
	assert.Contains(t, fields["State"], "connected")
	assert.Equal(t, "<t:1700000000:R>", fields["Since"])
	assert.Equal(t, "never", fields["Last post"])
	assert.Equal(t, "3", fields["Posted"])
	assert.Equal(t, "`ws://localhost:3061/entry`", fields["Endpoint"])
}

func TestStatusWhenDisabled(t *testing.T) {
	s, err := route(t, Group(nil, &fakeEntries{}), "status")
	require.NoError(t, err)
	assert.Equal(t, "The feed is disabled.", s.Last().Data.Content)
}

func TestLastRendersStoredCard(t *testing.T) {
	entries := &fakeEntries{ok: true, entry: storage.FeedEntry{
		Title:   "Frieren",
		Payload: []byte(`{"title":{"english":"Frieren"},"type":"ANIME","totalEpisodes":28}`),
	}}
	s, err := route(t, Group(nil, entries), "last")
	require.NoError(t, err)

	resp := s.Last()
	assert.Equal(t, discordgo.InteractionResponseChannelMessageWithSource, resp.Type)
	require.Len(t, resp.Data.Embeds, 1)
	assert.Equal(t, "Frieren", resp.Data.Embeds[0].Title)
}

func TestLastWithoutEntries(t *testing.T) {
	s, err := route(t, Group(nil, &fakeEntries{}), "last")
	require.NoError(t, err)
	assert.Equal(t, "No entries have been posted yet.", s.Last().Data.Content)
}

func TestLastStorageError(t *testing.T) {
	boom := errors.New("db closed")
	_, err := route(t, Group(nil, &fakeEntries{err: boom}), "last")
	require.ErrorIs(t, err, boom)
}
