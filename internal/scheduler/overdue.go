package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskcycle-api/internal/domain"
	"github.com/phrazzld/taskcycle-api/internal/platform/logger"
)

// OverdueStore is the slice of task persistence the scanner needs.
type OverdueStore interface {
	// FindOverdue retrieves up to limit incomplete tasks past their due date
	// not yet flagged overdue.
	FindOverdue(ctx context.Context, now time.Time, limit int) ([]*domain.Task, error)

	// MarkOverdue conditionally flags one task, re-checking the selection
	// predicate. Returns false when the task no longer qualifies.
	MarkOverdue(ctx context.Context, id uuid.UUID, now time.Time) (bool, error)
}

// OverdueSummary reports the outcome of one overdue scan.
type OverdueSummary struct {
	Marked  int `json:"marked"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// OverdueScanner flags incomplete tasks whose due date has passed.
type OverdueScanner struct {
	store     OverdueStore
	batchSize int
	logger    *slog.Logger
}

// NewOverdueScanner creates an OverdueScanner. A batchSize of zero or less
// falls back to the default cap.
func NewOverdueScanner(store OverdueStore, batchSize int, log *slog.Logger) *OverdueScanner {
	if store == nil {
		// ALLOW-PANIC: constructor enforcing required dependency
		panic("store cannot be nil for OverdueScanner")
	}
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	if log == nil {
		log = slog.Default()
	}

	return &OverdueScanner{
		store:     store,
		batchSize: batchSize,
		logger:    log.With(slog.String("component", "overdue_scanner")),
	}
}

// MarkOverdue runs one overdue scan against the given notion of now.
//
// The operation is idempotent: once a task is flagged it is no longer
// selected, and re-running against the same or a later now re-selects
// nothing. Clearing the flag on completion or re-dating belongs to the task
// mutation path, not this scanner. A task completed between scan and update
// loses its eligibility and is counted as skipped.
//
// Returns an error only when the candidate scan itself fails.
func (s *OverdueScanner) MarkOverdue(ctx context.Context, now time.Time) (OverdueSummary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var summary OverdueSummary

	candidates, err := s.store.FindOverdue(ctx, now, s.batchSize)
	if err != nil {
		return summary, fmt.Errorf("failed to scan overdue tasks: %w", err)
	}

	log.Debug("overdue scan complete",
		slog.Int("candidates", len(candidates)),
		slog.Time("now", now))

	for _, task := range candidates {
		if ctx.Err() != nil {
			log.Warn("overdue batch cancelled",
				slog.Int("marked", summary.Marked),
				slog.String("error", ctx.Err().Error()))
			break
		}

		marked, err := s.store.MarkOverdue(ctx, task.ID, now)
		if err != nil {
			summary.Failed++
			log.Error("failed to mark task overdue",
				slog.String("task_id", task.ID.String()),
				slog.String("error", err.Error()))
			continue
		}

		if marked {
			summary.Marked++
		} else {
			summary.Skipped++
		}
	}

	log.Info("overdue batch finished",
		slog.Int("marked", summary.Marked),
		slog.Int("skipped", summary.Skipped),
		slog.Int("failed", summary.Failed))
	return summary, nil
}
