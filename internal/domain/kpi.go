package domain

import "time"

// Channel is a person-dedicated KPI reporting channel.
type Channel struct {
	ID        string
	Name      string
	Person    string
	IsPrivate bool
}

// Message is a single chat message as fetched from the source.
// Immutable after fetch; extraction and aggregation only read it.
type Message struct {
	ChannelID   string
	ChannelName string
	Author      string
	Timestamp   time.Time
	Text        string
}

// Pattern identifies which extraction rule produced a KpiRecord.
type Pattern string

const (
	PatternExplicitLabel  Pattern = "label"
	PatternBracketedLabel Pattern = "bracket"
	PatternBareKeyword    Pattern = "keyword"
)

// KpiRecord is one extracted label/value pair. Value is kept exactly as
// captured (trimmed, digits not reformatted); an empty Value means the
// KPI was mentioned without a quantity.
type KpiRecord struct {
	Label   string
	Value   string
	Pattern Pattern
}

// PersonSummary is one overview row per channel, recomputed fully on
// every sync.
type PersonSummary struct {
	Person          string
	ChannelName     string
	MessageCount    int
	LatestTimestamp time.Time
	LatestText      string
	SyncedAt        time.Time
}

// DetailRow is one detail-sheet row for a message that produced at least
// one KpiRecord.
type DetailRow struct {
	Timestamp time.Time
	Text      string
	Records   []KpiRecord
}

// ChannelOutcome records how a single channel fared during a run.
type ChannelOutcome struct {
	Channel string
	Synced  bool
	Reason  string
}

// RunReport accumulates per-channel outcomes and totals for one sync run.
type RunReport struct {
	Outcomes          []ChannelOutcome
	ChannelsProcessed int
	MessagesSynced    int
	Errors            int
}

// Partial reports whether the run completed with at least one failure.
func (r RunReport) Partial() bool {
	return r.Errors > 0
}
