package discord

import (
	"context"
	"fmt"
	"sync"

	"anify-manager/internal/command"
	"anify-manager/internal/config"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
)

// Dispatcher routes a classified interaction.
type Dispatcher interface {
	Dispatch(ctx context.Context, in command.Interaction) (command.Outcome, error)
}

// Bot owns the gateway session and feeds interactions to the router.
type Bot struct {
	cfg    *config.Config
	dg     *discordgo.Session
	syncer *Syncer
	log    zerolog.Logger

	mu     sync.RWMutex
	ctx    context.Context
	router Dispatcher
	defs   []*discordgo.ApplicationCommand
}

// NewBot creates the session without connecting.
func NewBot(cfg *config.Config, hashes HashStore, log zerolog.Logger) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds

	return &Bot{
		cfg:    cfg,
		dg:     dg,
		syncer: NewSyncer(dg, hashes, log),
		log:    log,
		ctx:    context.Background(),
	}, nil
}

// Session exposes the REST session for modules and the feed.
func (b *Bot) Session() *discordgo.Session {
	return b.dg
}

// Run connects, publishes defs once ready and dispatches interactions to
// router until ctx is done.
func (b *Bot) Run(ctx context.Context, router Dispatcher, defs []*discordgo.ApplicationCommand) error {
	b.mu.Lock()
	b.ctx = ctx
	b.router = router
	b.defs = defs
	b.mu.Unlock()

	b.dg.AddHandler(b.onReady)
	b.dg.AddHandler(b.onInteractionCreate)

	if err := b.dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer b.dg.Close()

	<-ctx.Done()
	b.log.Info().Msg("Shutdown signal received. Cleaning up...")
	return nil
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.log.Info().Str("user", r.User.Username).Int("guilds", len(r.Guilds)).Msg("Bot is ready!")

	if !b.cfg.InitSlashCommands {
		b.log.Info().Msg("Registering slash commands skipped")
		return
	}

	b.mu.RLock()
	ctx, defs := b.ctx, b.defs
	b.mu.RUnlock()

	go func() {
		res, err := b.syncer.Sync(ctx, r.User.ID, b.cfg.GuildID, defs)
		if err != nil {
			b.log.Error().Err(err).Str("guild", b.cfg.GuildID).Msg("Error registering slash commands")
			return
		}
		b.log.Info().
			Strs("created", res.Created).
			Strs("deleted", res.Deleted).
			Strs("failed", res.Failed).
			Msg("Slash commands synced")
	}()
}

func (b *Bot) onInteractionCreate(_ *discordgo.Session, i *discordgo.InteractionCreate) {
	b.mu.RLock()
	ctx, router := b.ctx, b.router
	b.mu.RUnlock()

	handleInteraction(ctx, router, i.Interaction, b.log)
}

// handleInteraction classifies one gateway event and dispatches it. Handler
// errors are logged and go no further.
func handleInteraction(ctx context.Context, router Dispatcher, i *discordgo.Interaction, log zerolog.Logger) command.Outcome {
	if router == nil {
		return command.Ignored
	}
	in, ok := command.FromEvent(i)
	if !ok {
		log.Debug().Int("type", int(i.Type)).Msg("Unknown interaction type")
		return command.Ignored
	}

	outcome, err := router.Dispatch(ctx, in)
	if err != nil {
		log.Error().Err(err).Stringer("kind", in.Kind()).Stringer("outcome", outcome).Msg("Error handling interaction")
		return outcome
	}
	log.Debug().Stringer("kind", in.Kind()).Stringer("outcome", outcome).Msg("Interaction done")
	return outcome
}
