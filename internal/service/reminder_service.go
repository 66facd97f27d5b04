package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/taskcycle-api/internal/domain"
	"github.com/phrazzld/taskcycle-api/internal/store"
)

// ReminderService provides reminder management for a user's tasks.
// Ownership is enforced through the owning task: a reminder can only be
// created, listed, or deleted by the owner of its task.
type ReminderService interface {
	// CreateReminder schedules a reminder for one of the user's tasks.
	// remindAt must be in the future.
	CreateReminder(ctx context.Context, userID, taskID uuid.UUID, remindAt time.Time) (*domain.Reminder, error)

	// ListReminders retrieves all reminders for one of the user's tasks.
	ListReminders(ctx context.Context, userID, taskID uuid.UUID) ([]*domain.Reminder, error)

	// ListPending retrieves the user's due-and-unsent reminders across all of
	// their tasks, earliest first.
	ListPending(ctx context.Context, userID uuid.UUID, now time.Time) ([]*domain.Reminder, error)

	// DeleteReminder removes a reminder from one of the user's tasks.
	DeleteReminder(ctx context.Context, userID, reminderID uuid.UUID) error
}

// ReminderServiceImpl implements the ReminderService interface
type ReminderServiceImpl struct {
	reminderStore store.ReminderStore
	taskStore     store.TaskStore
	logger        *slog.Logger
}

// Ensure ReminderServiceImpl implements ReminderService
var _ ReminderService = (*ReminderServiceImpl)(nil)

// NewReminderService creates a new ReminderService.
func NewReminderService(
	reminderStore store.ReminderStore,
	taskStore store.TaskStore,
	logger *slog.Logger,
) *ReminderServiceImpl {
	return &ReminderServiceImpl{
		reminderStore: reminderStore,
		taskStore:     taskStore,
		logger:        logger.With("component", "reminder_service"),
	}
}

// CreateReminder schedules a reminder for one of the user's tasks.
func (s *ReminderServiceImpl) CreateReminder(
	ctx context.Context,
	userID, taskID uuid.UUID,
	remindAt time.Time,
) (*domain.Reminder, error) {
	if err := s.checkTaskOwnership(ctx, userID, taskID); err != nil {
		return nil, err
	}

	reminder, err := domain.NewReminder(taskID, remindAt, time.Now().UTC())
	if err != nil {
		s.logger.Debug("failed to create reminder object",
			"error", err,
			"task_id", taskID)
		return nil, fmt.Errorf("failed to create reminder: %w", err)
	}

	if err := s.reminderStore.Create(ctx, reminder); err != nil {
		s.logger.Error("failed to save reminder",
			"error", err,
			"task_id", taskID)
		return nil, fmt.Errorf("failed to create reminder: %w", err)
	}

	s.logger.Info("reminder created successfully",
		"reminder_id", reminder.ID,
		"task_id", taskID,
		"remind_at", reminder.RemindAt)

	return reminder, nil
}

// ListReminders retrieves all reminders for one of the user's tasks.
func (s *ReminderServiceImpl) ListReminders(
	ctx context.Context,
	userID, taskID uuid.UUID,
) ([]*domain.Reminder, error) {
	if err := s.checkTaskOwnership(ctx, userID, taskID); err != nil {
		return nil, err
	}

	reminders, err := s.reminderStore.ListByTask(ctx, taskID)
	if err != nil {
		s.logger.Error("failed to list reminders",
			"error", err,
			"task_id", taskID)
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}
	return reminders, nil
}

// ListPending retrieves the user's due-and-unsent reminders, earliest first.
func (s *ReminderServiceImpl) ListPending(
	ctx context.Context,
	userID uuid.UUID,
	now time.Time,
) ([]*domain.Reminder, error) {
	reminders, err := s.reminderStore.ListPendingByUser(ctx, userID, now)
	if err != nil {
		s.logger.Error("failed to list pending reminders",
			"error", err,
			"user_id", userID)
		return nil, fmt.Errorf("failed to list pending reminders: %w", err)
	}
	return reminders, nil
}

// DeleteReminder removes a reminder from one of the user's tasks.
func (s *ReminderServiceImpl) DeleteReminder(
	ctx context.Context,
	userID, reminderID uuid.UUID,
) error {
	reminder, err := s.reminderStore.GetByID(ctx, reminderID)
	if err != nil {
		return fmt.Errorf("failed to retrieve reminder: %w", err)
	}

	if err := s.checkTaskOwnership(ctx, userID, reminder.TaskID); err != nil {
		return err
	}

	if err := s.reminderStore.Delete(ctx, reminderID); err != nil {
		s.logger.Error("failed to delete reminder",
			"error", err,
			"reminder_id", reminderID)
		return fmt.Errorf("failed to delete reminder: %w", err)
	}

	s.logger.Info("reminder deleted successfully",
		"reminder_id", reminderID)

	return nil
}

// checkTaskOwnership verifies the task exists and belongs to the user.
func (s *ReminderServiceImpl) checkTaskOwnership(
	ctx context.Context,
	userID, taskID uuid.UUID,
) error {
	task, err := s.taskStore.GetByID(ctx, taskID)
	if err != nil {
		return fmt.Errorf("failed to retrieve task: %w", err)
	}

	if task.UserID != userID {
		s.logger.Debug("reminder access denied through task ownership",
			"task_id", taskID,
			"owner_id", task.UserID,
			"requester_id", userID)
		return ErrNotOwned
	}

	return nil
}
