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

// DispatchStore is the slice of reminder persistence the dispatcher needs.
type DispatchStore interface {
	// FindDueUnsent retrieves up to limit unsent reminders due at or before
	// now, earliest first.
	FindDueUnsent(ctx context.Context, now time.Time, limit int) ([]*domain.Reminder, error)

	// Claim atomically transitions sent from false to true, returning false
	// when the reminder was already claimed.
	Claim(ctx context.Context, id uuid.UUID) (bool, error)
}

// DispatchSummary reports the outcome of one dispatch batch.
// Failed counts reminders whose notification could not be delivered after a
// successful claim; they are deliberately not retried (see DispatchDue).
type DispatchSummary struct {
	Sent    int `json:"sent"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// ReminderDispatcher delivers due reminders exactly-once-observable.
type ReminderDispatcher struct {
	store     DispatchStore
	notifier  Notifier
	batchSize int
	logger    *slog.Logger
}

// NewReminderDispatcher creates a ReminderDispatcher. A batchSize of zero or
// less falls back to the default cap.
func NewReminderDispatcher(
	store DispatchStore,
	notifier Notifier,
	batchSize int,
	log *slog.Logger,
) *ReminderDispatcher {
	if store == nil {
		// ALLOW-PANIC: constructor enforcing required dependency
		panic("store cannot be nil for ReminderDispatcher")
	}
	if notifier == nil {
		// ALLOW-PANIC: constructor enforcing required dependency
		panic("notifier cannot be nil for ReminderDispatcher")
	}
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	if log == nil {
		log = slog.Default()
	}

	return &ReminderDispatcher{
		store:     store,
		notifier:  notifier,
		batchSize: batchSize,
		logger:    log.With(slog.String("component", "reminder_dispatcher")),
	}
}

// DispatchDue runs one dispatch batch against the given notion of now,
// processing reminders earliest-due-first.
//
// Each reminder is claimed before the notifier is invoked. Claim-before-send
// means a notifier failure after a successful claim leaves the reminder
// marked sent: it surfaces in the Failed count for operator follow-up instead
// of being retried, because a duplicate user-facing notification is worse
// than an occasional missed one. A reminder whose claim is lost to a
// concurrent invocation is skipped without contacting the notifier.
//
// Returns an error only when the due-reminder scan itself fails.
func (d *ReminderDispatcher) DispatchDue(ctx context.Context, now time.Time) (DispatchSummary, error) {
	log := logger.FromContextOrDefault(ctx, d.logger)

	var summary DispatchSummary

	due, err := d.store.FindDueUnsent(ctx, now, d.batchSize)
	if err != nil {
		return summary, fmt.Errorf("failed to scan due reminders: %w", err)
	}

	log.Debug("dispatch scan complete",
		slog.Int("due", len(due)),
		slog.Time("now", now))

	for _, reminder := range due {
		if ctx.Err() != nil {
			log.Warn("dispatch batch cancelled",
				slog.Int("sent", summary.Sent),
				slog.String("error", ctx.Err().Error()))
			break
		}

		claimed, err := d.store.Claim(ctx, reminder.ID)
		if err != nil {
			summary.Failed++
			log.Error("failed to claim reminder",
				slog.String("reminder_id", reminder.ID.String()),
				slog.String("error", err.Error()))
			continue
		}
		if !claimed {
			summary.Skipped++
			log.Debug("reminder already claimed by concurrent run",
				slog.String("reminder_id", reminder.ID.String()))
			continue
		}

		if err := d.notifier.Send(ctx, reminder); err != nil {
			// Claimed but undelivered: reported, not unclaimed, not retried.
			summary.Failed++
			log.Warn("reminder claimed but notification failed",
				slog.String("reminder_id", reminder.ID.String()),
				slog.String("task_id", reminder.TaskID.String()),
				slog.String("error", err.Error()))
			continue
		}

		summary.Sent++
	}

	log.Info("dispatch batch finished",
		slog.Int("sent", summary.Sent),
		slog.Int("skipped", summary.Skipped),
		slog.Int("failed", summary.Failed))
	return summary, nil
}
