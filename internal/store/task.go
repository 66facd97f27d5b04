package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskcycle-api/internal/domain"
)

// TaskFilter narrows ListByUser results. Nil fields are ignored.
type TaskFilter struct {
	Completed *bool
	Priority  *domain.Priority
	DueBefore *time.Time
	DueAfter  *time.Time
	Limit     int
	Offset    int
}

// TaskStore defines the interface for task data persistence.
type TaskStore interface {
	// Create saves a new task to the store.
	// Returns validation errors if the task data is invalid, or
	// ErrInvalidEntity if the owning user does not exist.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// ListByUser retrieves a user's tasks matching the filter,
	// newest first. A zero-value filter lists everything.
	ListByUser(ctx context.Context, userID uuid.UUID, filter TaskFilter) ([]*domain.Task, error)

	// Update persists changes to an existing task and refreshes its
	// updated_at timestamp. Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task. Associated reminders and tag links are removed
	// by the schema's ON DELETE CASCADE constraints.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// FindCompletedRecurringDue retrieves up to limit completed recurring
	// tasks whose due date has passed and for which no successor has been
	// generated yet (last_generated_due is null or behind the due date).
	FindCompletedRecurringDue(ctx context.Context, now time.Time, limit int) ([]*domain.Task, error)

	// CreateNextOccurrence atomically records that the source task's current
	// due date has been regenerated and inserts the successor task. The marker
	// update is conditional (compare-and-set on last_generated_due), so under
	// concurrent or repeated invocations at most one successor is created per
	// occurrence. Returns false with a nil error when another invocation
	// already claimed this occurrence.
	CreateNextOccurrence(ctx context.Context, source, successor *domain.Task) (bool, error)

	// FindOverdue retrieves up to limit incomplete tasks whose due date has
	// passed and which are not yet flagged overdue.
	FindOverdue(ctx context.Context, now time.Time, limit int) ([]*domain.Task, error)

	// MarkOverdue conditionally flags a single task as overdue. The update
	// re-checks the selection predicate so a task completed or re-dated
	// between scan and update is left alone. Returns false when the task no
	// longer qualifies.
	MarkOverdue(ctx context.Context, id uuid.UUID, now time.Time) (bool, error)

	// WithTx returns a TaskStore bound to the provided transaction.
	WithTx(tx *sql.Tx) TaskStore
}
