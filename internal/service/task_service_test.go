package service

import (
	"context"
	"database/sql"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/taskcycle-api/internal/domain"
	"github.com/phrazzld/taskcycle-api/internal/store"
)

// mockTaskStore is an in-memory TaskStore for service tests.
type mockTaskStore struct {
	tasks map[uuid.UUID]*domain.Task
}

var _ store.TaskStore = (*mockTaskStore)(nil)

func newMockTaskStore() *mockTaskStore {
	return &mockTaskStore{tasks: make(map[uuid.UUID]*domain.Task)}
}

func (m *mockTaskStore) Create(_ context.Context, task *domain.Task) error {
	copied := *task
	m.tasks[task.ID] = &copied
	return nil
}

func (m *mockTaskStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Task, error) {
	task, ok := m.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	copied := *task
	return &copied, nil
}

func (m *mockTaskStore) ListByUser(
	_ context.Context,
	userID uuid.UUID,
	_ store.TaskFilter,
) ([]*domain.Task, error) {
	var out []*domain.Task
	for _, task := range m.tasks {
		if task.UserID == userID {
			copied := *task
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *mockTaskStore) Update(_ context.Context, task *domain.Task) error {
	if _, ok := m.tasks[task.ID]; !ok {
		return store.ErrTaskNotFound
	}
	copied := *task
	m.tasks[task.ID] = &copied
	return nil
}

func (m *mockTaskStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.tasks[id]; !ok {
		return store.ErrTaskNotFound
	}
	delete(m.tasks, id)
	return nil
}

func (m *mockTaskStore) FindCompletedRecurringDue(
	_ context.Context, _ time.Time, _ int,
) ([]*domain.Task, error) {
	return nil, nil
}

func (m *mockTaskStore) CreateNextOccurrence(
	_ context.Context, _, _ *domain.Task,
) (bool, error) {
	return false, nil
}

func (m *mockTaskStore) FindOverdue(_ context.Context, _ time.Time, _ int) ([]*domain.Task, error) {
	return nil, nil
}

func (m *mockTaskStore) MarkOverdue(_ context.Context, _ uuid.UUID, _ time.Time) (bool, error) {
	return false, nil
}

func (m *mockTaskStore) WithTx(_ *sql.Tx) store.TaskStore { return m }

func newTestTaskService(t *testing.T) (*TaskServiceImpl, *mockTaskStore) {
	t.Helper()
	taskStore := newMockTaskStore()
	return NewTaskService(taskStore, slog.Default()), taskStore
}

func seedTask(t *testing.T, taskStore *mockTaskStore, userID uuid.UUID) *domain.Task {
	t.Helper()

	due := time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)
	task, err := domain.NewTask(userID, domain.TaskParams{
		Title:   "write report",
		DueDate: &due,
	})
	require.NoError(t, err)
	require.NoError(t, taskStore.Create(context.Background(), task))
	return task
}

func TestCreateTask(t *testing.T) {
	t.Parallel()

	svc, taskStore := newTestTaskService(t)
	userID := uuid.New()

	task, err := svc.CreateTask(context.Background(), userID, domain.TaskParams{
		Title: "write report",
	})
	require.NoError(t, err)
	assert.Equal(t, userID, task.UserID)
	assert.Contains(t, taskStore.tasks, task.ID)
}

func TestCreateTaskRejectsInvalidParams(t *testing.T) {
	t.Parallel()

	svc, _ := newTestTaskService(t)

	_, err := svc.CreateTask(context.Background(), uuid.New(), domain.TaskParams{})
	assert.ErrorIs(t, err, domain.ErrTaskTitleEmpty)
}

func TestGetTaskEnforcesOwnership(t *testing.T) {
	t.Parallel()

	svc, taskStore := newTestTaskService(t)
	owner := uuid.New()
	task := seedTask(t, taskStore, owner)

	got, err := svc.GetTask(context.Background(), owner, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, got.ID)

	_, err = svc.GetTask(context.Background(), uuid.New(), task.ID)
	assert.ErrorIs(t, err, ErrNotOwned)
}

func TestUpdateTaskCompletionClearsOverdue(t *testing.T) {
	t.Parallel()

	svc, taskStore := newTestTaskService(t)
	owner := uuid.New()
	task := seedTask(t, taskStore, owner)

	taskStore.tasks[task.ID].Overdue = true

	completed := true
	updated, err := svc.UpdateTask(context.Background(), owner, task.ID, TaskUpdate{
		Completed: &completed,
	})
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	assert.False(t, updated.Overdue)
}

func TestUpdateTaskRedatingClearsOverdue(t *testing.T) {
	t.Parallel()

	svc, taskStore := newTestTaskService(t)
	owner := uuid.New()
	task := seedTask(t, taskStore, owner)

	taskStore.tasks[task.ID].Overdue = true

	newDue := time.Date(2024, time.June, 1, 9, 0, 0, 0, time.UTC)
	updated, err := svc.UpdateTask(context.Background(), owner, task.ID, TaskUpdate{
		DueDate: &newDue,
	})
	require.NoError(t, err)
	assert.False(t, updated.Overdue)
	assert.Equal(t, newDue, *updated.DueDate)
}

func TestUpdateTaskClearDueDate(t *testing.T) {
	t.Parallel()

	svc, taskStore := newTestTaskService(t)
	owner := uuid.New()
	task := seedTask(t, taskStore, owner)
	taskStore.tasks[task.ID].Overdue = true

	updated, err := svc.UpdateTask(context.Background(), owner, task.ID, TaskUpdate{
		ClearDueDate: true,
	})
	require.NoError(t, err)
	assert.Nil(t, updated.DueDate)
	assert.False(t, updated.Overdue)
}

func TestUpdateTaskTurningOffRecurrenceDropsSettings(t *testing.T) {
	t.Parallel()

	svc, taskStore := newTestTaskService(t)
	owner := uuid.New()

	due := time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)
	kind := domain.RecurrenceDaily
	interval := 2
	task, err := domain.NewTask(owner, domain.TaskParams{
		Title:              "stretch",
		DueDate:            &due,
		IsRecurring:        true,
		RecurrenceType:     &kind,
		RecurrenceInterval: &interval,
	})
	require.NoError(t, err)
	require.NoError(t, taskStore.Create(context.Background(), task))

	recurring := false
	updated, err := svc.UpdateTask(context.Background(), owner, task.ID, TaskUpdate{
		IsRecurring: &recurring,
	})
	require.NoError(t, err)
	assert.False(t, updated.IsRecurring)
	assert.Nil(t, updated.RecurrenceType)
	assert.Nil(t, updated.RecurrenceInterval)
}

func TestUpdateTaskRejectsInvalidResult(t *testing.T) {
	t.Parallel()

	svc, taskStore := newTestTaskService(t)
	owner := uuid.New()
	task := seedTask(t, taskStore, owner)

	recurring := true
	_, err := svc.UpdateTask(context.Background(), owner, task.ID, TaskUpdate{
		IsRecurring: &recurring,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidRecurrenceType)
}

func TestDeleteTaskEnforcesOwnership(t *testing.T) {
	t.Parallel()

	svc, taskStore := newTestTaskService(t)
	owner := uuid.New()
	task := seedTask(t, taskStore, owner)

	err := svc.DeleteTask(context.Background(), uuid.New(), task.ID)
	assert.ErrorIs(t, err, ErrNotOwned)
	assert.Contains(t, taskStore.tasks, task.ID)

	require.NoError(t, svc.DeleteTask(context.Background(), owner, task.ID))
	assert.NotContains(t, taskStore.tasks, task.ID)
}
