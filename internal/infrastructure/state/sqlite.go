package state

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"kpisync/internal/ports"
)

const schema = `
CREATE TABLE IF NOT EXISTS channel_sync (
    channel_id    TEXT PRIMARY KEY,
    channel_name  TEXT NOT NULL,
    last_sync     INTEGER NOT NULL,
    message_count INTEGER NOT NULL DEFAULT 0
)`

// Store keeps the per-channel last-synced timestamp in a local SQLite
// database so interrupted runs do not lose already-synced channels.
type Store struct {
	db     *sql.DB
	logger *log.Logger
}

var _ ports.SyncStateStore = (*Store)(nil)

// Open opens (or creates) the state database at path and applies the
// schema. Use ":memory:" in tests.
func Open(path string, logger *log.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open state db: %w", err)
	}

	// The modernc driver gives every pool connection its own in-memory
	// database; a single connection also keeps file access serialized.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA busy_timeout = 10000",
		"PRAGMA journal_mode = WAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply pragma: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db, logger: logger}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// SetLastSync upserts a channel's sync timestamp and message count.
func (s *Store) SetLastSync(ctx context.Context, channelID, channelName string, ts time.Time, messageCount int) error {
	query, args, err := sq.Insert("channel_sync").
		Columns("channel_id", "channel_name", "last_sync", "message_count").
		Values(channelID, channelName, ts.UnixMicro(), messageCount).
		Suffix("ON CONFLICT(channel_id) DO UPDATE SET channel_name = excluded.channel_name, last_sync = excluded.last_sync, message_count = excluded.message_count").
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert sync state: %w", err)
	}

	if s.logger != nil {
		s.logger.Printf("state: %s synced through %s", channelName, ts.Format(time.RFC3339))
	}
	return nil
}

// All returns every persisted channel state keyed by channel ID.
func (s *Store) All(ctx context.Context) (map[string]ports.ChannelState, error) {
	query, args, err := sq.Select("channel_id", "channel_name", "last_sync", "message_count").
		From("channel_sync").
		OrderBy("channel_name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sync state: %w", err)
	}
	defer rows.Close()

	result := make(map[string]ports.ChannelState)
	for rows.Next() {
		var (
			entry  ports.ChannelState
			micros int64
		)
		if err := rows.Scan(&entry.ChannelID, &entry.ChannelName, &micros, &entry.MessageCount); err != nil {
			return nil, fmt.Errorf("scan sync state: %w", err)
		}
		entry.LastSync = time.UnixMicro(micros).UTC()
		result[entry.ChannelID] = entry
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return result, nil
}
