// cmd/discord/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"anify-manager/internal/command"
	"anify-manager/internal/command/about"
	feedcmd "anify-manager/internal/command/feed"
	"anify-manager/internal/command/history"
	servicescmd "anify-manager/internal/command/services"
	"anify-manager/internal/config"
	"anify-manager/internal/discord"
	"anify-manager/internal/feed"
	"anify-manager/internal/logging"
	"anify-manager/internal/middleware"
	"anify-manager/internal/services"
	"anify-manager/internal/storage"
	v "anify-manager/internal/version"

	"github.com/rs/zerolog/log"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	closer, err := logging.Setup(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set up logging")
	}
	defer closer.Close()

	log.Info().Str("go", v.GoVersion).Msgf("Starting %s bot...", v.AppName)

	store, err := storage.New(cfg.StoragePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open storage")
	}
	defer store.Close()

	go storage.RunFeedPruner(ctx, store, time.Hour)

	mgr := services.NewManager(services.FromConfig(&cfg.ServicesConfig), services.ExecRunner{}, logging.Component("services"))

	bot, err := discord.NewBot(cfg, store, logging.Component("discord"))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Discord session")
	}

	errCh := make(chan error, 2)

	var status feedcmd.StatusSource
	if cfg.FeedEnabled {
		client := feed.NewClient(feed.Options{
			URL:        cfg.FeedURL,
			ClientName: cfg.FeedClientName,
			ChannelID:  cfg.LogsChannelID,
		}, bot.Session(), store, logging.Component("feed"))
		status = client
		go func() {
			if err := client.Run(ctx); err != nil {
				errCh <- err
			}
		}()
	}

	var router *command.Router
	loaded, err := command.Load(ctx, bot.Session(), logging.Component("command"),
		[]command.Module{
			about.New(func() []string { return router.Registry().Keys() }),
			history.New(store),
		},
		servicescmd.Group(mgr),
		feedcmd.Group(status, store),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load commands")
	}

	routerLog := logging.Component("router")
	router = command.NewRouter(loaded.Registry, command.RoleGate{RoleID: cfg.AdminRoleID}, bot.Session(),
		command.WithMiddleware(
			middleware.WithRecover(routerLog),
			middleware.WithCommandLogger(store, routerLog),
		),
		command.WithLogger(routerLog),
	)

	botDone := make(chan struct{})
	go func() {
		defer close(botDone)
		if err := bot.Run(ctx, router, loaded.Definitions); err != nil {
			errCh <- err
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		log.Info().Str("signal", s.String()).Msg("Received signal, shutting down...")
		cancel()
	case err := <-errCh:
		log.Error().Err(err).Msg("Discord bot error")
		cancel()
	case <-ctx.Done():
	}

	select {
	case <-botDone:
	case <-time.After(5 * time.Second):
		log.Warn().Msg("Timed out waiting for the Discord session to close")
	}

	log.Info().Msg("Discord bot exited cleanly")
}
