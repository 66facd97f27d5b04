package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskcycle-api/internal/domain"
	"github.com/phrazzld/taskcycle-api/internal/platform/logger"
	"github.com/phrazzld/taskcycle-api/internal/store"
)

// PostgresReminderStore implements the store.ReminderStore interface
// using a PostgreSQL database as the storage backend.
type PostgresReminderStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresReminderStore creates a new PostgreSQL implementation of the
// ReminderStore interface.
func NewPostgresReminderStore(db store.DBTX, logger *slog.Logger) *PostgresReminderStore {
	if db == nil {
		// ALLOW-PANIC: constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresReminderStore{
		db:     db,
		logger: logger.With(slog.String("component", "reminder_store")),
	}
}

// Ensure PostgresReminderStore implements store.ReminderStore interface
var _ store.ReminderStore = (*PostgresReminderStore)(nil)

// WithTx implements store.ReminderStore.WithTx
func (s *PostgresReminderStore) WithTx(tx *sql.Tx) store.ReminderStore {
	return &PostgresReminderStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.ReminderStore.Create
func (s *PostgresReminderStore) Create(ctx context.Context, reminder *domain.Reminder) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := reminder.Validate(); err != nil {
		log.Warn("reminder validation failed during create",
			slog.String("error", err.Error()),
			slog.String("reminder_id", reminder.ID.String()))
		return err
	}

	query := `
		INSERT INTO reminders (id, task_id, remind_at, sent, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(ctx, query,
		reminder.ID,
		reminder.TaskID,
		reminder.RemindAt,
		reminder.Sent,
		reminder.CreatedAt,
	)
	if err != nil {
		log.Error("failed to create reminder",
			slog.String("error", err.Error()),
			slog.String("reminder_id", reminder.ID.String()),
			slog.String("task_id", reminder.TaskID.String()))
		return MapError(err)
	}

	log.Debug("reminder created",
		slog.String("reminder_id", reminder.ID.String()),
		slog.String("task_id", reminder.TaskID.String()),
		slog.Time("remind_at", reminder.RemindAt))
	return nil
}

// GetByID implements store.ReminderStore.GetByID
func (s *PostgresReminderStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Reminder, error) {
	query := `
		SELECT id, task_id, remind_at, sent, created_at
		FROM reminders
		WHERE id = $1
	`

	var reminder domain.Reminder
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&reminder.ID,
		&reminder.TaskID,
		&reminder.RemindAt,
		&reminder.Sent,
		&reminder.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrReminderNotFound
		}
		return nil, MapError(err)
	}
	return &reminder, nil
}

// ListByTask implements store.ReminderStore.ListByTask
func (s *PostgresReminderStore) ListByTask(
	ctx context.Context,
	taskID uuid.UUID,
) ([]*domain.Reminder, error) {
	query := `
		SELECT id, task_id, remind_at, sent, created_at
		FROM reminders
		WHERE task_id = $1
		ORDER BY remind_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, taskID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	return collectReminders(rows)
}

// ListPendingByUser implements store.ReminderStore.ListPendingByUser
func (s *PostgresReminderStore) ListPendingByUser(
	ctx context.Context,
	userID uuid.UUID,
	now time.Time,
) ([]*domain.Reminder, error) {
	query := `
		SELECT r.id, r.task_id, r.remind_at, r.sent, r.created_at
		FROM reminders r
		JOIN tasks t ON t.id = r.task_id
		WHERE t.user_id = $1
		  AND r.sent = FALSE
		  AND r.remind_at <= $2
		ORDER BY r.remind_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, userID, now)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	return collectReminders(rows)
}

// FindDueUnsent implements store.ReminderStore.FindDueUnsent
func (s *PostgresReminderStore) FindDueUnsent(
	ctx context.Context,
	now time.Time,
	limit int,
) ([]*domain.Reminder, error) {
	query := `
		SELECT id, task_id, remind_at, sent, created_at
		FROM reminders
		WHERE sent = FALSE
		  AND remind_at <= $1
		ORDER BY remind_at ASC
		LIMIT $2
	`

	rows, err := s.db.QueryContext(ctx, query, now, limit)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	return collectReminders(rows)
}

// Claim implements store.ReminderStore.Claim.
// The conditional update is the only mechanism that guards against
// double-sending: concurrent dispatcher invocations race on the same row and
// exactly one sees an affected row count of one.
func (s *PostgresReminderStore) Claim(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `
		UPDATE reminders
		SET sent = TRUE
		WHERE id = $1
		  AND sent = FALSE
	`
	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, MapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, MapError(err)
	}
	return affected > 0, nil
}

// Delete implements store.ReminderStore.Delete
func (s *PostgresReminderStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM reminders WHERE id = $1`, id)
	if err != nil {
		return MapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return MapError(err)
	}
	if affected == 0 {
		return store.ErrReminderNotFound
	}
	return nil
}

func collectReminders(rows *sql.Rows) ([]*domain.Reminder, error) {
	var reminders []*domain.Reminder
	for rows.Next() {
		var reminder domain.Reminder
		err := rows.Scan(
			&reminder.ID,
			&reminder.TaskID,
			&reminder.RemindAt,
			&reminder.Sent,
			&reminder.CreatedAt,
		)
		if err != nil {
			return nil, MapError(err)
		}
		reminders = append(reminders, &reminder)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return reminders, nil
}
