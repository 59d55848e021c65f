package storage

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// RunFeedPruner trims the feed log every interval until ctx is done.
// Call from main or app lifecycle.
func RunFeedPruner(ctx context.Context, store *Storage, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.PruneFeedEntries(ctx, feedEntriesLimit)
			if err != nil {
				log.Error().Err(err).Str("component", "storage").Msg("Error pruning feed entries")
				continue
			}
			if n > 0 {
				log.Debug().Int64("deleted", n).Str("component", "storage").Msg("Pruned feed entries")
			}
		}
	}
}
