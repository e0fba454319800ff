package ports

import (
	"context"
	"time"

	"kpisync/internal/domain"
)

// ChannelLister returns the person channels visible to the integration,
// already filtered to the person-channel naming convention.
type ChannelLister interface {
	ListPersonChannels(ctx context.Context) ([]domain.Channel, error)
}

// MessageSource fetches channel history in ascending timestamp order.
// A zero since means full backfill; limit 0 means no cap.
type MessageSource interface {
	FetchMessages(ctx context.Context, channel domain.Channel, since time.Time, limit int) ([]domain.Message, error)
}

// TableStore is the remote tabular store (one spreadsheet, many sheets).
// ReplaceRows must leave the table holding exactly header+rows, so
// repeating a sync with unchanged data is a no-op.
type TableStore interface {
	ExistingTableNames(ctx context.Context) (map[string]bool, error)
	CreateTable(ctx context.Context, name string, header []string) error
	ReplaceRows(ctx context.Context, name string, header []string, rows [][]string) error
}

// SyncStateStore persists per-channel sync progress between runs, read
// back by the status command. Table building never depends on it: every
// run rebuilds tables from a full fetch window.
type SyncStateStore interface {
	SetLastSync(ctx context.Context, channelID, channelName string, ts time.Time, messageCount int) error
	All(ctx context.Context) (map[string]ChannelState, error)
}

// ChannelState is one persisted sync-state entry.
type ChannelState struct {
	ChannelID    string
	ChannelName  string
	LastSync     time.Time
	MessageCount int
}
