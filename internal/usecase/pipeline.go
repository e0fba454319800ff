package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"kpisync/internal/aggregate"
	"kpisync/internal/domain"
	"kpisync/internal/ports"
	"kpisync/internal/sheetsync"
)

// PipelineDeps wires all driven adapters into the sync pipeline.
type PipelineDeps struct {
	Lister ports.ChannelLister
	Source ports.MessageSource
	Store  ports.TableStore
	State  ports.SyncStateStore
	Logger *slog.Logger
	Now    func() time.Time
}

// Pipeline drives list → fetch → extract → aggregate → sync. Channels
// are processed sequentially; one channel's failure never aborts the
// others.
type Pipeline struct {
	lister ports.ChannelLister
	source ports.MessageSource
	syncer *sheetsync.Syncer
	state  ports.SyncStateStore
	logger *slog.Logger
	now    func() time.Time
}

// SyncOptions controls one sync run.
type SyncOptions struct {
	// Limit caps messages fetched per channel; 0 means no cap.
	Limit int
	// IncludeDetails toggles per-person detail tables.
	IncludeDetails bool
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Pipeline{
		lister: deps.Lister,
		source: deps.Source,
		syncer: sheetsync.NewSyncer(deps.Store, deps.Logger),
		state:  deps.State,
		logger: deps.Logger,
		now:    now,
	}
}

type channelResult struct {
	channel  domain.Channel
	messages int
	latest   time.Time
}

// Sync runs the whole pipeline once. The returned report lists every
// channel with its outcome; the error is non-nil only for total failure
// (no channels could be listed).
func (p *Pipeline) Sync(ctx context.Context, opts SyncOptions) (domain.RunReport, error) {
	var report domain.RunReport

	channels, err := p.lister.ListPersonChannels(ctx)
	if err != nil {
		return report, fmt.Errorf("list channels: %w", err)
	}
	p.info("starting sync", "channels", len(channels), "limit", opts.Limit, "details", opts.IncludeDetails)

	syncedAt := p.now()
	var (
		summaries []domain.PersonSummary
		details   = map[string][]domain.DetailRow{}
		fetched   []channelResult
	)

	for _, ch := range channels {
		// Tables are rebuilt from scratch each run, so the fetch window
		// must always be the full (limit-capped) history. Narrowing it
		// to the last-sync bound would clobber previously written rows
		// when the tables are replaced.
		messages, err := p.source.FetchMessages(ctx, ch, time.Time{}, opts.Limit)
		if err != nil {
			p.warn("channel skipped", "channel", ch.Name, "error", err)
			report.Outcomes = append(report.Outcomes, domain.ChannelOutcome{
				Channel: ch.Name,
				Reason:  fmt.Sprintf("fetch failed: %v", err),
			})
			report.Errors++
			continue
		}

		summary, rows := aggregate.Accumulate(ch, messages, syncedAt)
		summaries = append(summaries, summary)
		if len(rows) > 0 {
			details[ch.Person] = rows
		}
		fetched = append(fetched, channelResult{
			channel:  ch,
			messages: len(messages),
			latest:   summary.LatestTimestamp,
		})
	}

	plan := sheetsync.BuildPlan(summaries, details, opts.IncludeDetails)
	failedTables := map[string]bool{}
	storeDown := false
	for _, applyErr := range p.syncer.Apply(ctx, plan) {
		report.Errors++
		if writeErr, ok := applyErr.(*domain.StoreWriteError); ok {
			failedTables[writeErr.Table] = true
		} else {
			storeDown = true
		}
		p.warn("store write failed", "error", applyErr)
	}

	for _, res := range fetched {
		if storeDown {
			report.Outcomes = append(report.Outcomes, domain.ChannelOutcome{
				Channel: res.channel.Name,
				Reason:  "table store unavailable",
			})
			continue
		}
		if opts.IncludeDetails && failedTables[sheetsync.DetailTableName(res.channel.Person)] {
			report.Outcomes = append(report.Outcomes, domain.ChannelOutcome{
				Channel: res.channel.Name,
				Reason:  "detail table write failed",
			})
			continue
		}

		report.Outcomes = append(report.Outcomes, domain.ChannelOutcome{
			Channel: res.channel.Name,
			Synced:  true,
		})
		report.ChannelsProcessed++
		report.MessagesSynced += res.messages

		if p.state != nil && res.messages > 0 {
			if err := p.state.SetLastSync(ctx, res.channel.ID, res.channel.Name, res.latest, res.messages); err != nil {
				p.warn("persist sync state failed", "channel", res.channel.Name, "error", err)
			}
		}
	}

	p.info("sync finished",
		"processed", report.ChannelsProcessed,
		"messages", report.MessagesSynced,
		"errors", report.Errors)
	return report, nil
}

// ListChannels returns the person channels currently visible.
func (p *Pipeline) ListChannels(ctx context.Context) ([]domain.Channel, error) {
	return p.lister.ListPersonChannels(ctx)
}

// Status returns the persisted per-channel sync state.
func (p *Pipeline) Status(ctx context.Context) (map[string]ports.ChannelState, error) {
	if p.state == nil {
		return map[string]ports.ChannelState{}, nil
	}
	return p.state.All(ctx)
}

// SyncTotals sums persisted channel state into the figures the status
// command reports.
func SyncTotals(entries map[string]ports.ChannelState) (channels, messages int) {
	for _, entry := range entries {
		channels++
		messages += entry.MessageCount
	}
	return channels, messages
}

func (p *Pipeline) info(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}

func (p *Pipeline) warn(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}
