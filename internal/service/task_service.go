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

// TaskUpdate bundles the caller-supplied changes for updating a task.
// Nil fields are left untouched. Recurrence settings are updated as a unit:
// when IsRecurring is present it governs whether RecurrenceType and
// RecurrenceInterval are required or must be absent.
type TaskUpdate struct {
	Title              *string
	Description        *string
	Completed          *bool
	DueDate            *time.Time
	ClearDueDate       bool
	Priority           *domain.Priority
	IsRecurring        *bool
	RecurrenceType     *domain.RecurrenceType
	RecurrenceInterval *int
}

// TaskService provides task CRUD with ownership enforcement.
//
// Every operation that touches an existing task verifies the requester owns
// it first; a task owned by someone else surfaces as ErrNotOwned. Completing
// a task or moving its due date clears the overdue flag, which is how flagged
// tasks leave the overdue state (the scanner only ever sets it).
type TaskService interface {
	// CreateTask creates a new task owned by the given user.
	CreateTask(ctx context.Context, userID uuid.UUID, params domain.TaskParams) (*domain.Task, error)

	// GetTask retrieves a task, enforcing ownership.
	GetTask(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error)

	// ListTasks retrieves the user's tasks matching the filter, newest first.
	ListTasks(ctx context.Context, userID uuid.UUID, filter store.TaskFilter) ([]*domain.Task, error)

	// UpdateTask applies the given changes to a task, enforcing ownership.
	UpdateTask(ctx context.Context, userID, taskID uuid.UUID, update TaskUpdate) (*domain.Task, error)

	// DeleteTask removes a task, enforcing ownership. Reminders and tag links
	// go with it.
	DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error
}

// TaskServiceImpl implements the TaskService interface
type TaskServiceImpl struct {
	taskStore store.TaskStore
	logger    *slog.Logger
}

// Ensure TaskServiceImpl implements TaskService
var _ TaskService = (*TaskServiceImpl)(nil)

// NewTaskService creates a new TaskService.
func NewTaskService(taskStore store.TaskStore, logger *slog.Logger) *TaskServiceImpl {
	return &TaskServiceImpl{
		taskStore: taskStore,
		logger:    logger.With("component", "task_service"),
	}
}

// CreateTask creates a new task owned by the given user.
func (s *TaskServiceImpl) CreateTask(
	ctx context.Context,
	userID uuid.UUID,
	params domain.TaskParams,
) (*domain.Task, error) {
	task, err := domain.NewTask(userID, params)
	if err != nil {
		s.logger.Debug("failed to create task object",
			"error", err,
			"user_id", userID)
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	if err := s.taskStore.Create(ctx, task); err != nil {
		s.logger.Error("failed to save task",
			"error", err,
			"user_id", userID)
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.logger.Info("task created successfully",
		"task_id", task.ID,
		"user_id", userID)

	return task, nil
}

// GetTask retrieves a task, enforcing ownership.
func (s *TaskServiceImpl) GetTask(
	ctx context.Context,
	userID, taskID uuid.UUID,
) (*domain.Task, error) {
	task, err := s.ownedTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	return task, nil
}

// ListTasks retrieves the user's tasks matching the filter, newest first.
func (s *TaskServiceImpl) ListTasks(
	ctx context.Context,
	userID uuid.UUID,
	filter store.TaskFilter,
) ([]*domain.Task, error) {
	tasks, err := s.taskStore.ListByUser(ctx, userID, filter)
	if err != nil {
		s.logger.Error("failed to list tasks",
			"error", err,
			"user_id", userID)
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// UpdateTask applies the given changes to a task, enforcing ownership.
// Completing the task or moving its due date clears the overdue flag; the
// next overdue scan re-flags it if the new due date is already past.
func (s *TaskServiceImpl) UpdateTask(
	ctx context.Context,
	userID, taskID uuid.UUID,
	update TaskUpdate,
) (*domain.Task, error) {
	task, err := s.ownedTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	if update.Title != nil {
		task.Title = *update.Title
	}
	if update.Description != nil {
		task.Description = *update.Description
	}
	if update.Priority != nil {
		task.Priority = *update.Priority
	}

	if update.Completed != nil && *update.Completed != task.Completed {
		task.Completed = *update.Completed
		if task.Completed {
			task.Overdue = false
		}
	}

	if update.ClearDueDate {
		task.DueDate = nil
		task.Overdue = false
	} else if update.DueDate != nil {
		task.DueDate = update.DueDate
		task.Overdue = false
	}

	if update.IsRecurring != nil {
		task.IsRecurring = *update.IsRecurring
		if !task.IsRecurring {
			task.RecurrenceType = nil
			task.RecurrenceInterval = nil
		}
	}
	if update.RecurrenceType != nil {
		task.RecurrenceType = update.RecurrenceType
	}
	if update.RecurrenceInterval != nil {
		task.RecurrenceInterval = update.RecurrenceInterval
	}

	if err := task.Validate(); err != nil {
		s.logger.Debug("task update failed validation",
			"error", err,
			"task_id", taskID)
		return nil, fmt.Errorf("invalid task update: %w", err)
	}

	if err := s.taskStore.Update(ctx, task); err != nil {
		s.logger.Error("failed to update task",
			"error", err,
			"task_id", taskID)
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	s.logger.Info("task updated successfully",
		"task_id", taskID,
		"user_id", userID)

	return task, nil
}

// DeleteTask removes a task, enforcing ownership.
func (s *TaskServiceImpl) DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error {
	if _, err := s.ownedTask(ctx, userID, taskID); err != nil {
		return err
	}

	if err := s.taskStore.Delete(ctx, taskID); err != nil {
		s.logger.Error("failed to delete task",
			"error", err,
			"task_id", taskID)
		return fmt.Errorf("failed to delete task: %w", err)
	}

	s.logger.Info("task deleted successfully",
		"task_id", taskID,
		"user_id", userID)

	return nil
}

// ownedTask retrieves a task and verifies the requester owns it.
func (s *TaskServiceImpl) ownedTask(
	ctx context.Context,
	userID, taskID uuid.UUID,
) (*domain.Task, error) {
	task, err := s.taskStore.GetByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve task: %w", err)
	}

	if task.UserID != userID {
		s.logger.Debug("task access denied",
			"task_id", taskID,
			"owner_id", task.UserID,
			"requester_id", userID)
		return nil, ErrNotOwned
	}

	return task, nil
}
