package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskcycle-api/internal/domain"
	"github.com/phrazzld/taskcycle-api/internal/platform/logger"
	"github.com/phrazzld/taskcycle-api/internal/store"
)

// taskColumns is the canonical select list for scanning a task row.
const taskColumns = `id, user_id, title, description, completed, due_date, priority,
	is_recurring, recurrence_type, recurrence_interval, overdue,
	last_generated_due, created_at, updated_at`

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the
// TaskStore interface. It accepts a database connection or transaction that
// should be initialized and managed by the caller.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		// ALLOW-PANIC: constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// WithTx implements store.TaskStore.WithTx
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.TaskStore.Create
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	query := `
		INSERT INTO tasks (id, user_id, title, description, completed, due_date,
			priority, is_recurring, recurrence_type, recurrence_interval,
			overdue, last_generated_due, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := s.db.ExecContext(ctx, query,
		task.ID,
		task.UserID,
		task.Title,
		nullString(task.Description),
		task.Completed,
		task.DueDate,
		task.Priority,
		task.IsRecurring,
		recurrenceTypeValue(task.RecurrenceType),
		task.RecurrenceInterval,
		task.Overdue,
		task.LastGeneratedDue,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()),
			slog.String("user_id", task.UserID.String()))
		return MapError(err)
	}

	log.Debug("task created",
		slog.String("task_id", task.ID.String()),
		slog.String("user_id", task.UserID.String()))
	return nil
}

// GetByID implements store.TaskStore.GetByID
func (s *PostgresTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	query := fmt.Sprintf(`SELECT %s FROM tasks WHERE id = $1`, taskColumns)

	task, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTaskNotFound
		}
		return nil, MapError(err)
	}
	return task, nil
}

// ListByUser implements store.TaskStore.ListByUser
func (s *PostgresTaskStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	filter store.TaskFilter,
) ([]*domain.Task, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, `SELECT %s FROM tasks WHERE user_id = $1`, taskColumns)

	args := []any{userID}
	if filter.Completed != nil {
		args = append(args, *filter.Completed)
		fmt.Fprintf(&sb, " AND completed = $%d", len(args))
	}
	if filter.Priority != nil {
		args = append(args, *filter.Priority)
		fmt.Fprintf(&sb, " AND priority = $%d", len(args))
	}
	if filter.DueBefore != nil {
		args = append(args, *filter.DueBefore)
		fmt.Fprintf(&sb, " AND due_date <= $%d", len(args))
	}
	if filter.DueAfter != nil {
		args = append(args, *filter.DueAfter)
		fmt.Fprintf(&sb, " AND due_date >= $%d", len(args))
	}

	sb.WriteString(" ORDER BY created_at DESC")
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		fmt.Fprintf(&sb, " OFFSET $%d", len(args))
	}

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	return collectTasks(rows)
}

// Update implements store.TaskStore.Update
func (s *PostgresTaskStore) Update(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during update",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	task.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE tasks
		SET title = $1, description = $2, completed = $3, due_date = $4,
			priority = $5, is_recurring = $6, recurrence_type = $7,
			recurrence_interval = $8, overdue = $9, updated_at = $10
		WHERE id = $11
	`
	result, err := s.db.ExecContext(ctx, query,
		task.Title,
		nullString(task.Description),
		task.Completed,
		task.DueDate,
		task.Priority,
		task.IsRecurring,
		recurrenceTypeValue(task.RecurrenceType),
		task.RecurrenceInterval,
		task.Overdue,
		task.UpdatedAt,
		task.ID,
	)
	if err != nil {
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return MapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return MapError(err)
	}
	if affected == 0 {
		return store.ErrTaskNotFound
	}
	return nil
}

// Delete implements store.TaskStore.Delete
func (s *PostgresTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return MapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return MapError(err)
	}
	if affected == 0 {
		return store.ErrTaskNotFound
	}
	return nil
}

// FindCompletedRecurringDue implements store.TaskStore.FindCompletedRecurringDue
func (s *PostgresTaskStore) FindCompletedRecurringDue(
	ctx context.Context,
	now time.Time,
	limit int,
) ([]*domain.Task, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM tasks
		WHERE is_recurring = TRUE
		  AND completed = TRUE
		  AND due_date IS NOT NULL
		  AND due_date < $1
		  AND (last_generated_due IS NULL OR last_generated_due < due_date)
		ORDER BY due_date ASC
		LIMIT $2
	`, taskColumns)

	rows, err := s.db.QueryContext(ctx, query, now, limit)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	return collectTasks(rows)
}

// CreateNextOccurrence implements store.TaskStore.CreateNextOccurrence.
//
// The regeneration marker and the successor insert must move together:
// advancing last_generated_due without the insert would silently drop an
// occurrence, and inserting without the marker would duplicate one on the
// next scan. When backed by a plain connection the two statements run inside
// their own transaction; when already inside a caller transaction they join it.
func (s *PostgresTaskStore) CreateNextOccurrence(
	ctx context.Context,
	source, successor *domain.Task,
) (bool, error) {
	if db, ok := s.db.(*sql.DB); ok {
		var created bool
		err := store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
			var txErr error
			created, txErr = s.WithTx(tx).(*PostgresTaskStore).createNextOccurrence(ctx, source, successor)
			return txErr
		})
		return created, err
	}
	return s.createNextOccurrence(ctx, source, successor)
}

func (s *PostgresTaskStore) createNextOccurrence(
	ctx context.Context,
	source, successor *domain.Task,
) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if source.DueDate == nil {
		return false, fmt.Errorf("%w: source task has no due date", store.ErrInvalidEntity)
	}
	if err := successor.Validate(); err != nil {
		return false, err
	}

	// Compare-and-set: only the invocation that advances the marker past the
	// due date being processed gets to insert the successor.
	claim := `
		UPDATE tasks
		SET last_generated_due = $1
		WHERE id = $2
		  AND completed = TRUE
		  AND is_recurring = TRUE
		  AND (last_generated_due IS NULL OR last_generated_due < $1)
	`
	result, err := s.db.ExecContext(ctx, claim, *source.DueDate, source.ID)
	if err != nil {
		return false, MapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, MapError(err)
	}
	if affected == 0 {
		log.Debug("occurrence already regenerated, skipping",
			slog.String("task_id", source.ID.String()),
			slog.Time("due_date", *source.DueDate))
		return false, nil
	}

	if err := s.Create(ctx, successor); err != nil {
		return false, err
	}

	log.Info("recurring task regenerated",
		slog.String("source_task_id", source.ID.String()),
		slog.String("successor_task_id", successor.ID.String()),
		slog.Time("next_due", *successor.DueDate))
	return true, nil
}

// FindOverdue implements store.TaskStore.FindOverdue
func (s *PostgresTaskStore) FindOverdue(
	ctx context.Context,
	now time.Time,
	limit int,
) ([]*domain.Task, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM tasks
		WHERE completed = FALSE
		  AND due_date IS NOT NULL
		  AND due_date < $1
		  AND overdue = FALSE
		ORDER BY due_date ASC
		LIMIT $2
	`, taskColumns)

	rows, err := s.db.QueryContext(ctx, query, now, limit)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	return collectTasks(rows)
}

// MarkOverdue implements store.TaskStore.MarkOverdue.
// The WHERE clause repeats the selection predicate so a task that was
// completed or re-dated between scan and update is left untouched.
func (s *PostgresTaskStore) MarkOverdue(
	ctx context.Context,
	id uuid.UUID,
	now time.Time,
) (bool, error) {
	query := `
		UPDATE tasks
		SET overdue = TRUE, updated_at = $1
		WHERE id = $2
		  AND completed = FALSE
		  AND due_date IS NOT NULL
		  AND due_date < $3
		  AND overdue = FALSE
	`
	result, err := s.db.ExecContext(ctx, query, now.UTC(), id, now)
	if err != nil {
		return false, MapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, MapError(err)
	}
	return affected > 0, nil
}

// scanner matches *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (*domain.Task, error) {
	var (
		task           domain.Task
		description    sql.NullString
		recurrenceType sql.NullString
	)

	err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&description,
		&task.Completed,
		&task.DueDate,
		&task.Priority,
		&task.IsRecurring,
		&recurrenceType,
		&task.RecurrenceInterval,
		&task.Overdue,
		&task.LastGeneratedDue,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if description.Valid {
		task.Description = description.String
	}
	if recurrenceType.Valid {
		rt := domain.RecurrenceType(recurrenceType.String)
		task.RecurrenceType = &rt
	}
	return &task, nil
}

func collectTasks(rows *sql.Rows) ([]*domain.Task, error) {
	var tasks []*domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, MapError(err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return tasks, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func recurrenceTypeValue(rt *domain.RecurrenceType) sql.NullString {
	if rt == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(*rt), Valid: true}
}
