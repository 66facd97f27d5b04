package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/taskcycle-api/internal/domain"
)

// TagStore defines the interface for tag data persistence, including the
// task/tag association table.
type TagStore interface {
	// Create saves a new tag. Returns ErrTagNameExists if the user already
	// has a tag with the same name.
	Create(ctx context.Context, tag *domain.Tag) error

	// GetByID retrieves a tag by its unique ID.
	// Returns ErrTagNotFound if the tag does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Tag, error)

	// ListByUser retrieves all tags owned by a user, by name.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Tag, error)

	// ListByTask retrieves all tags attached to a task.
	ListByTask(ctx context.Context, taskID uuid.UUID) ([]*domain.Tag, error)

	// Delete removes a tag. Task associations are removed by the schema's
	// ON DELETE CASCADE constraint.
	Delete(ctx context.Context, id uuid.UUID) error

	// Attach links a tag to a task. Returns false with a nil error when the
	// link already exists.
	Attach(ctx context.Context, taskID, tagID uuid.UUID) (bool, error)

	// Detach removes the link between a tag and a task. Returns false with a
	// nil error when no such link exists.
	Detach(ctx context.Context, taskID, tagID uuid.UUID) (bool, error)

	// WithTx returns a TagStore bound to the provided transaction.
	WithTx(tx *sql.Tx) TagStore
}
