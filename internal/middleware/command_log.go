package middleware

import (
	"context"
	"time"

	"anify-manager/internal/command"
	"anify-manager/internal/storage"

	"github.com/rs/zerolog"
)

// HistoryStore receives one record per handled interaction.
type HistoryStore interface {
	AppendCommandToHistory(ctx context.Context, rec storage.CommandHistoryRecord) error
}

// WithCommandLogger records every matched invocation in the guild's command
// history. Storage failures are logged and never change the handler result.
func WithCommandLogger(store HistoryStore, log zerolog.Logger) command.Middleware {
	return func(next command.Handler) command.Handler {
		return func(ctx context.Context, inv *command.Invocation) error {
			start := time.Now()
			err := next(ctx, inv)

			who := inv.Interaction.Invoker()
			ev := log.Debug()
			if err != nil {
				ev = log.Warn().Err(err)
			}
			ev.Str("key", inv.Key).
				Str("kind", inv.Interaction.Kind().String()).
				Str("user", who.Username).
				Dur("took", time.Since(start)).
				Msg("Interaction handled")

			// Autocomplete fires per keystroke; it would flood the history.
			if store == nil || inv.Interaction.Kind() == command.KindAutocomplete {
				return err
			}
			rec := storage.CommandHistoryRecord{
				GuildID:   who.GuildID,
				ChannelID: who.ChannelID,
				UserID:    who.UserID,
				Username:  resolveUsername(who),
				Command:   inv.Key,
				Kind:      inv.Interaction.Kind().String(),
				Datetime:  time.Now(),
			}
			if e := store.AppendCommandToHistory(context.WithoutCancel(ctx), rec); e != nil {
				log.Warn().Err(e).Str("key", inv.Key).Msg("Failed to log command")
			}
			return err
		}
	}
}

func resolveUsername(who command.Invoker) string {
	if who.Username != "" {
		return who.Username
	}
	if who.UserID != "" {
		return who.UserID
	}
	return "Unknown"
}
