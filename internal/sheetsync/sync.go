package sheetsync

import (
	"context"
	"fmt"
	"log/slog"

	"kpisync/internal/domain"
	"kpisync/internal/ports"
)

// Syncer applies a write-plan to the remote tabular store. A failure on
// one table is recorded and does not stop the remaining tables; the
// summary table is always attempted.
type Syncer struct {
	store  ports.TableStore
	logger *slog.Logger
}

// NewSyncer wires the remote table store.
func NewSyncer(store ports.TableStore, logger *slog.Logger) *Syncer {
	return &Syncer{store: store, logger: logger}
}

// Apply executes the plan and returns one StoreWriteError per failed
// table. The existence check is the only remote read.
func (s *Syncer) Apply(ctx context.Context, plan Plan) []error {
	existing, err := s.store.ExistingTableNames(ctx)
	if err != nil {
		return []error{fmt.Errorf("list tables: %w", err)}
	}

	var failures []error
	apply := func(op TableOp) {
		if err := s.applyOp(ctx, existing, op); err != nil {
			s.warn("table write failed", "table", op.Name, "error", err)
			failures = append(failures, &domain.StoreWriteError{Table: op.Name, Err: err})
			return
		}
		s.debug("table written", "table", op.Name, "rows", len(op.Rows))
	}

	apply(plan.Summary)
	for _, op := range plan.Details {
		apply(op)
	}

	return failures
}

func (s *Syncer) applyOp(ctx context.Context, existing map[string]bool, op TableOp) error {
	if !existing[op.Name] {
		if err := s.store.CreateTable(ctx, op.Name, op.Header); err != nil {
			return fmt.Errorf("create: %w", err)
		}
		existing[op.Name] = true
	}

	if err := s.store.ReplaceRows(ctx, op.Name, op.Header, op.Rows); err != nil {
		return fmt.Errorf("replace rows: %w", err)
	}
	return nil
}

func (s *Syncer) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}

func (s *Syncer) warn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
