package discord

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"anify-manager/pkg/retrylimit"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	mu        sync.Mutex
	remote    []*discordgo.ApplicationCommand
	created   []string
	deleted   []string
	failNames map[string]bool
}

func (f *fakeAPI) ApplicationCommands(_, _ string, _ ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.remote, nil
}

func (f *fakeAPI) ApplicationCommandCreate(_, _ string, cmd *discordgo.ApplicationCommand, _ ...discordgo.RequestOption) (*discordgo.ApplicationCommand, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failNames[cmd.Name] {
		return nil, retrylimit.Fatal(errors.New("invalid form body"))
	}
	f.created = append(f.created, cmd.Name)
	return cmd, nil
}

func (f *fakeAPI) ApplicationCommandDelete(_, _, cmdID string, _ ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, cmdID)
	return nil
}

type memHashes struct {
	byGuild map[string]map[string]string
}

func (m *memHashes) LoadCommandHashes(_ context.Context, guildID string) (map[string]string, error) {
	out := make(map[string]string)
	for k, v := range m.byGuild[guildID] {
		out[k] = v
	}
	return out, nil
}

func (m *memHashes) SaveCommandHashes(_ context.Context, guildID string, hashes map[string]string) error {
	if m.byGuild == nil {
		m.byGuild = make(map[string]map[string]string)
	}
	m.byGuild[guildID] = hashes
	return nil
}

func newTestSyncer(api CommandAPI, store HashStore) *Syncer {
	s := NewSyncer(api, store, zerolog.Nop())
	s.retry = retrylimit.RetryConfig{MaxAttempts: 1, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond, Multiplier: 1}
	return s
}

func aboutDef() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{Name: "about", Description: "About this bot"}
}

func TestSyncCreatesDeletesAndCaches(t *testing.T) {
	api := &fakeAPI{remote: []*discordgo.ApplicationCommand{
		{ID: "old-1", Name: "music"},
		{ID: "about-1", Name: "about"},
	}}
	store := &memHashes{}
	s := newTestSyncer(api, store)

	res, err := s.Sync(context.Background(), "app", "g1", []*discordgo.ApplicationCommand{aboutDef(), servicesDef()})
	require.NoError(t, err)

	assert.Equal(t, []string{"music"}, res.Deleted)
	assert.Equal(t, []string{"about", "services"}, res.Created)
	assert.Empty(t, res.Failed)
	assert.Equal(t, []string{"old-1"}, api.deleted)

	hashes := store.byGuild["g1"]
	assert.Equal(t, hashCommand(aboutDef()), hashes["about"])
	assert.Equal(t, hashCommand(servicesDef()), hashes["services"])
	assert.NotContains(t, hashes, "music")
}

func TestSyncSkipsUnchanged(t *testing.T) {
	api := &fakeAPI{remote: []*discordgo.ApplicationCommand{
		{ID: "about-1", Name: "about"},
		{ID: "services-1", Name: "services"},
	}}
	store := &memHashes{byGuild: map[string]map[string]string{
		"g1": {"about": hashCommand(aboutDef()), "services": "stale"},
	}}
	s := newTestSyncer(api, store)

	res, err := s.Sync(context.Background(), "app", "g1", []*discordgo.ApplicationCommand{aboutDef(), servicesDef()})
	require.NoError(t, err)
	assert.Equal(t, []string{"services"}, res.Created)
	assert.Empty(t, res.Deleted)
}

func TestSyncRecreatesCommandsMissingRemotely(t *testing.T) {
	api := &fakeAPI{}
	store := &memHashes{byGuild: map[string]map[string]string{
		"g1": {"about": hashCommand(aboutDef())},
	}}
	s := newTestSyncer(api, store)

	res, err := s.Sync(context.Background(), "app", "g1", []*discordgo.ApplicationCommand{aboutDef()})
	require.NoError(t, err)
	assert.Equal(t, []string{"about"}, res.Created)
}

func TestSyncFailureIsNotCached(t *testing.T) {
	api := &fakeAPI{failNames: map[string]bool{"services": true}}
	store := &memHashes{}
	s := newTestSyncer(api, store)

	res, err := s.Sync(context.Background(), "app", "g1", []*discordgo.ApplicationCommand{aboutDef(), servicesDef()})
	require.NoError(t, err)
	assert.Equal(t, []string{"services"}, res.Failed)
	assert.NotContains(t, store.byGuild["g1"], "services")
	assert.Contains(t, store.byGuild["g1"], "about")
}
