package discord

import (
	"context"
	"fmt"

	"anify-manager/pkg/retrylimit"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
)

// CommandAPI is the slice of the REST API used to publish command schemas.
type CommandAPI interface {
	ApplicationCommands(appID, guildID string, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error)
	ApplicationCommandCreate(appID, guildID string, cmd *discordgo.ApplicationCommand, options ...discordgo.RequestOption) (*discordgo.ApplicationCommand, error)
	ApplicationCommandDelete(appID, guildID, cmdID string, options ...discordgo.RequestOption) error
}

// HashStore persists the schema hashes last published per guild.
type HashStore interface {
	LoadCommandHashes(ctx context.Context, guildID string) (map[string]string, error)
	SaveCommandHashes(ctx context.Context, guildID string, hashes map[string]string) error
}

// SyncResult lists what a sync changed.
type SyncResult struct {
	Deleted []string
	Created []string
	Failed  []string
}

// Syncer publishes command schemas, touching only what changed.
type Syncer struct {
	api     CommandAPI
	store   HashStore
	limiter *retrylimit.AdaptiveLimiter
	retry   retrylimit.RetryConfig
	log     zerolog.Logger
}

func NewSyncer(api CommandAPI, store HashStore, log zerolog.Logger) *Syncer {
	return &Syncer{
		api:     api,
		store:   store,
		limiter: retrylimit.NewAdaptiveLimiter(5, 1, 40, 1, 0.5),
		retry:   retrylimit.DefaultRetryConfig(),
		log:     log,
	}
}

// Sync makes the guild's remote commands match defs: remote commands with no
// local definition are deleted, and definitions whose hash differs from the
// cached one (or that are missing remotely) are created. An empty guildID
// targets global commands.
func (s *Syncer) Sync(ctx context.Context, appID, guildID string, defs []*discordgo.ApplicationCommand) (SyncResult, error) {
	var res SyncResult
	log := s.log.With().Str("guild", guildID).Logger()

	var remote []*discordgo.ApplicationCommand
	err := retrylimit.WithRetryConfig(ctx, s.limiter, s.retry, func() error {
		var err error
		remote, err = s.api.ApplicationCommands(appID, guildID)
		return err
	})
	if err != nil {
		return res, fmt.Errorf("list commands: %w", err)
	}

	cached, err := s.store.LoadCommandHashes(ctx, guildID)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to load command hashes, republishing all")
		cached = nil
	}
	if cached == nil {
		cached = make(map[string]string)
	}

	local := make(map[string]string, len(defs))
	for _, d := range defs {
		local[d.Name] = hashCommand(d)
	}
	remoteNames := make(map[string]bool, len(remote))

	for _, rc := range remote {
		remoteNames[rc.Name] = true
		if _, keep := local[rc.Name]; keep {
			continue
		}
		log.Info().Str("command", rc.Name).Msg("Deleting obsolete command")
		err := retrylimit.WithRetryConfig(ctx, s.limiter, s.retry, func() error {
			return s.api.ApplicationCommandDelete(appID, guildID, rc.ID)
		})
		if err != nil {
			log.Error().Err(err).Str("command", rc.Name).Msg("Failed to delete command")
			res.Failed = append(res.Failed, rc.Name)
			continue
		}
		delete(cached, rc.Name)
		res.Deleted = append(res.Deleted, rc.Name)
	}

	for _, d := range defs {
		if cached[d.Name] == local[d.Name] && remoteNames[d.Name] {
			continue
		}
		if d.Type == 0 {
			d.Type = discordgo.ChatApplicationCommand
		}
		err := retrylimit.WithRetryConfig(ctx, s.limiter, s.retry, func() error {
			_, err := s.api.ApplicationCommandCreate(appID, guildID, d)
			return err
		})
		if err != nil {
			log.Error().Err(err).Str("command", d.Name).Msg("Failed to register command")
			res.Failed = append(res.Failed, d.Name)
			delete(cached, d.Name)
			continue
		}
		cached[d.Name] = local[d.Name]
		res.Created = append(res.Created, d.Name)
		log.Info().Str("command", d.Name).Msg("Registered command")
	}

	if err := s.store.SaveCommandHashes(ctx, guildID, cached); err != nil {
		return res, fmt.Errorf("save command hashes: %w", err)
	}
	return res, nil
}
