package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type CommandHistoryRecord struct {
	GuildID   string    `json:"guild_id"`
	ChannelID string    `json:"channel_id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Command   string    `json:"command"`
	Kind      string    `json:"kind"`
	Datetime  time.Time `json:"datetime"`
}

// AppendCommandToHistory appends a command history record for a guild,
// keeping only the most recent entries.
func (s *Storage) AppendCommandToHistory(ctx context.Context, rec CommandHistoryRecord) error {
	if err := s.ready(); err != nil {
		return err
	}
	if rec.Datetime.IsZero() {
		rec.Datetime = time.Now()
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO command_history (guild_id, channel_id, user_id, username, command, kind, datetime)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			rec.GuildID, rec.ChannelID, rec.UserID, rec.Username, rec.Command, rec.Kind, toUnixMillis(rec.Datetime),
		)
		if err != nil {
			return fmt.Errorf("insert command history: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`DELETE FROM command_history
			 WHERE guild_id = ? AND id NOT IN (
				SELECT id FROM command_history WHERE guild_id = ? ORDER BY id DESC LIMIT ?
			 )`,
			rec.GuildID, rec.GuildID, commandHistoryLimit,
		)
		if err != nil {
			return fmt.Errorf("trim command history: %w", err)
		}
		return nil
	})
}

// FetchCommandHistory returns the guild's recent commands, oldest first.
func (s *Storage) FetchCommandHistory(ctx context.Context, guildID string) ([]CommandHistoryRecord, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT guild_id, channel_id, user_id, username, command, kind, datetime
		 FROM command_history WHERE guild_id = ? ORDER BY id ASC`,
		guildID,
	)
	if err != nil {
		return nil, fmt.Errorf("query command history: %w", err)
	}
	defer rows.Close()

	var out []CommandHistoryRecord
	for rows.Next() {
		var rec CommandHistoryRecord
		var ms int64
		if err := rows.Scan(&rec.GuildID, &rec.ChannelID, &rec.UserID, &rec.Username, &rec.Command, &rec.Kind, &ms); err != nil {
			return nil, fmt.Errorf("scan command history: %w", err)
		}
		rec.Datetime = fromUnixMillis(ms)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// LoadCommandHashes returns the schema hashes last published for a guild.
func (s *Storage) LoadCommandHashes(ctx context.Context, guildID string) (map[string]string, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT name, hash FROM command_hashes WHERE guild_id = ?`, guildID)
	if err != nil {
		return nil, fmt.Errorf("query command hashes: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var name, hash string
		if err := rows.Scan(&name, &hash); err != nil {
			return nil, fmt.Errorf("scan command hash: %w", err)
		}
		out[name] = hash
	}
	return out, rows.Err()
}

// SaveCommandHashes replaces the guild's stored hashes with hashes.
func (s *Storage) SaveCommandHashes(ctx context.Context, guildID string, hashes map[string]string) error {
	if err := s.ready(); err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM command_hashes WHERE guild_id = ?`, guildID); err != nil {
			return fmt.Errorf("clear command hashes: %w", err)
		}
		for name, hash := range hashes {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO command_hashes (guild_id, name, hash) VALUES (?, ?, ?)`,
				guildID, name, hash,
			); err != nil {
				return fmt.Errorf("insert command hash %s: %w", name, err)
			}
		}
		return nil
	})
}
