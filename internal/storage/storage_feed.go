package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// FeedEntry is one notification card that was posted.
type FeedEntry struct {
	ID        int64
	Title     string
	ChannelID string
	MessageID string
	Payload   []byte // raw record as received
	PostedAt  time.Time
}

func (s *Storage) AppendFeedEntry(ctx context.Context, e FeedEntry) error {
	if err := s.ready(); err != nil {
		return err
	}
	if e.PostedAt.IsZero() {
		e.PostedAt = time.Now()
	}
	if e.Payload == nil {
		e.Payload = []byte{}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO feed_entries (title, channel_id, message_id, payload, posted_at) VALUES (?, ?, ?, ?, ?)`,
		e.Title, e.ChannelID, e.MessageID, e.Payload, toUnixMillis(e.PostedAt),
	)
	if err != nil {
		return fmt.Errorf("insert feed entry: %w", err)
	}
	return nil
}

// LastFeedEntry returns the most recently posted entry; ok is false when none exist.
func (s *Storage) LastFeedEntry(ctx context.Context) (FeedEntry, bool, error) {
	if err := s.ready(); err != nil {
		return FeedEntry{}, false, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, channel_id, message_id, payload, posted_at
		 FROM feed_entries ORDER BY id DESC LIMIT 1`,
	)
	var e FeedEntry
	var ms int64
	if err := row.Scan(&e.ID, &e.Title, &e.ChannelID, &e.MessageID, &e.Payload, &ms); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return FeedEntry{}, false, nil
		}
		return FeedEntry{}, false, fmt.Errorf("get last feed entry: %w", err)
	}
	e.PostedAt = fromUnixMillis(ms)
	return e, true, nil
}

// CountFeedEntries returns how many entries are stored.
func (s *Storage) CountFeedEntries(ctx context.Context) (int, error) {
	if err := s.ready(); err != nil {
		return 0, err
	}
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM feed_entries`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count feed entries: %w", err)
	}
	return n, nil
}

// PruneFeedEntries deletes all but the newest keep entries.
func (s *Storage) PruneFeedEntries(ctx context.Context, keep int) (int64, error) {
	if err := s.ready(); err != nil {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM feed_entries WHERE id NOT IN (SELECT id FROM feed_entries ORDER BY id DESC LIMIT ?)`,
		keep,
	)
	if err != nil {
		return 0, fmt.Errorf("prune feed entries: %w", err)
	}
	return res.RowsAffected()
}
