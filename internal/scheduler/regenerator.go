package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/taskcycle-api/internal/domain"
	"github.com/phrazzld/taskcycle-api/internal/domain/recurrence"
	"github.com/phrazzld/taskcycle-api/internal/platform/logger"
)

// defaultBatchSize caps one invocation's scan when no explicit size is configured.
const defaultBatchSize = 100

// RegenerationStore is the slice of task persistence the regenerator needs.
type RegenerationStore interface {
	// FindCompletedRecurringDue retrieves up to limit completed recurring
	// tasks past their due date that have not been regenerated yet.
	FindCompletedRecurringDue(ctx context.Context, now time.Time, limit int) ([]*domain.Task, error)

	// CreateNextOccurrence atomically claims the source's current due date
	// and inserts the successor. Returns false when another invocation
	// already claimed this occurrence.
	CreateNextOccurrence(ctx context.Context, source, successor *domain.Task) (bool, error)
}

// RegenerationSummary reports the outcome of one regeneration batch.
type RegenerationSummary struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// TaskRegenerator turns completed recurring tasks into their next occurrence.
type TaskRegenerator struct {
	store     RegenerationStore
	batchSize int
	logger    *slog.Logger
}

// NewTaskRegenerator creates a TaskRegenerator. A batchSize of zero or less
// falls back to the default cap.
func NewTaskRegenerator(store RegenerationStore, batchSize int, log *slog.Logger) *TaskRegenerator {
	if store == nil {
		// ALLOW-PANIC: constructor enforcing required dependency
		panic("store cannot be nil for TaskRegenerator")
	}
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	if log == nil {
		log = slog.Default()
	}

	return &TaskRegenerator{
		store:     store,
		batchSize: batchSize,
		logger:    log.With(slog.String("component", "task_regenerator")),
	}
}

// RegenerateDue runs one regeneration batch against the given notion of now.
//
// Each candidate is handled independently: the next due date is computed from
// the candidate's own recurrence settings, and the successor insert is gated
// by the store's compare-and-set marker, so repeated or overlapping
// invocations against the same store state create exactly one successor per
// eligible source. The source row itself is never modified beyond the marker;
// it remains completed history.
//
// Returns an error only when the candidate scan itself fails; per-item
// failures are counted in the summary and the batch continues.
func (r *TaskRegenerator) RegenerateDue(ctx context.Context, now time.Time) (RegenerationSummary, error) {
	log := logger.FromContextOrDefault(ctx, r.logger)

	var summary RegenerationSummary

	candidates, err := r.store.FindCompletedRecurringDue(ctx, now, r.batchSize)
	if err != nil {
		return summary, fmt.Errorf("failed to scan recurring tasks: %w", err)
	}

	log.Debug("regeneration scan complete",
		slog.Int("candidates", len(candidates)),
		slog.Time("now", now))

	for _, source := range candidates {
		if ctx.Err() != nil {
			// Out of time; the next invocation re-selects whatever is left.
			log.Warn("regeneration batch cancelled",
				slog.Int("created", summary.Created),
				slog.String("error", ctx.Err().Error()))
			break
		}

		if source.DueDate == nil || source.RecurrenceType == nil || source.RecurrenceInterval == nil {
			// The scan predicate should make this impossible; count it rather
			// than feed bad input to the calculator.
			summary.Failed++
			log.Error("recurring task candidate missing recurrence fields",
				slog.String("task_id", source.ID.String()))
			continue
		}

		nextDue := recurrence.NextDue(*source.DueDate, *source.RecurrenceType, *source.RecurrenceInterval)

		successor, err := source.NextOccurrence(nextDue)
		if err != nil {
			summary.Failed++
			log.Error("failed to build successor task",
				slog.String("task_id", source.ID.String()),
				slog.String("error", err.Error()))
			continue
		}

		created, err := r.store.CreateNextOccurrence(ctx, source, successor)
		if err != nil {
			summary.Failed++
			log.Error("failed to create successor task",
				slog.String("task_id", source.ID.String()),
				slog.String("error", err.Error()))
			continue
		}

		if created {
			summary.Created++
		} else {
			summary.Skipped++
		}
	}

	log.Info("regeneration batch finished",
		slog.Int("created", summary.Created),
		slog.Int("skipped", summary.Skipped),
		slog.Int("failed", summary.Failed))
	return summary, nil
}
