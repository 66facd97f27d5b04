package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskcycle-api/internal/domain"
)

// ReminderStore defines the interface for reminder data persistence.
type ReminderStore interface {
	// Create saves a new reminder to the store.
	// Returns ErrInvalidEntity if the owning task does not exist.
	Create(ctx context.Context, reminder *domain.Reminder) error

	// GetByID retrieves a reminder by its unique ID.
	// Returns ErrReminderNotFound if the reminder does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Reminder, error)

	// ListByTask retrieves all reminders for a task, earliest first.
	ListByTask(ctx context.Context, taskID uuid.UUID) ([]*domain.Reminder, error)

	// ListPendingByUser retrieves a user's due-and-unsent reminders across
	// all of their tasks, earliest first.
	ListPendingByUser(ctx context.Context, userID uuid.UUID, now time.Time) ([]*domain.Reminder, error)

	// FindDueUnsent retrieves up to limit unsent reminders that are due at or
	// before now, ordered by remind_at ascending (earliest due first).
	FindDueUnsent(ctx context.Context, now time.Time, limit int) ([]*domain.Reminder, error)

	// Claim atomically transitions a reminder's sent flag from false to true.
	// Returns false with a nil error when the reminder was already claimed by
	// a concurrent invocation, so callers never double-send.
	Claim(ctx context.Context, id uuid.UUID) (bool, error)

	// Delete removes a reminder.
	// Returns ErrReminderNotFound if the reminder does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a ReminderStore bound to the provided transaction.
	WithTx(tx *sql.Tx) ReminderStore
}
