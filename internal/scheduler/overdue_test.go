package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/taskcycle-api/internal/domain"
)

type fakeOverdueStore struct {
	tasks []*domain.Task

	scanErr error
	markErr map[uuid.UUID]error

	// forceScan, when set, is returned verbatim by FindOverdue so tests can
	// hand the scanner a stale snapshot.
	forceScan []*domain.Task
}

func (f *fakeOverdueStore) FindOverdue(_ context.Context, now time.Time, limit int) ([]*domain.Task, error) {
	if f.scanErr != nil {
		return nil, f.scanErr
	}
	if f.forceScan != nil {
		return f.forceScan, nil
	}

	var out []*domain.Task
	for _, t := range f.tasks {
		if len(out) >= limit {
			break
		}
		if t.Completed || t.Overdue || t.DueDate == nil || !t.DueDate.Before(now) {
			continue
		}
		copied := *t
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeOverdueStore) MarkOverdue(_ context.Context, id uuid.UUID, now time.Time) (bool, error) {
	if err := f.markErr[id]; err != nil {
		return false, err
	}
	for _, t := range f.tasks {
		if t.ID != id {
			continue
		}
		if t.Completed || t.Overdue || t.DueDate == nil || !t.DueDate.Before(now) {
			return false, nil
		}
		t.Overdue = true
		return true, nil
	}
	return false, nil
}

func dueTask(t *testing.T, due time.Time) *domain.Task {
	t.Helper()

	task, err := domain.NewTask(uuid.New(), domain.TaskParams{
		Title:   "file expense report",
		DueDate: &due,
	})
	require.NoError(t, err)
	return task
}

func TestMarkOverdueFlagsPastDueTasks(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.March, 2, 0, 0, 0, 0, time.UTC)
	past := dueTask(t, now.Add(-time.Hour))
	future := dueTask(t, now.Add(time.Hour))

	store := &fakeOverdueStore{tasks: []*domain.Task{past, future}}
	scanner := NewOverdueScanner(store, 0, nil)

	summary, err := scanner.MarkOverdue(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, OverdueSummary{Marked: 1}, summary)
	assert.True(t, past.Overdue)
	assert.False(t, future.Overdue)
}

func TestMarkOverdueIsIdempotent(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.March, 2, 0, 0, 0, 0, time.UTC)
	store := &fakeOverdueStore{tasks: []*domain.Task{dueTask(t, now.Add(-time.Hour))}}
	scanner := NewOverdueScanner(store, 0, nil)

	first, err := scanner.MarkOverdue(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Marked)

	second, err := scanner.MarkOverdue(context.Background(), now.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, OverdueSummary{}, second)
}

func TestMarkOverdueNeverFlagsCompletedTasks(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.March, 2, 0, 0, 0, 0, time.UTC)
	completed := dueTask(t, now.Add(-time.Hour))
	completed.Completed = true

	store := &fakeOverdueStore{tasks: []*domain.Task{completed}}
	scanner := NewOverdueScanner(store, 0, nil)

	summary, err := scanner.MarkOverdue(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, OverdueSummary{}, summary)
	assert.False(t, completed.Overdue)
}

func TestMarkOverdueSkipsTaskCompletedBetweenScanAndUpdate(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.March, 2, 0, 0, 0, 0, time.UTC)
	task := dueTask(t, now.Add(-time.Hour))

	store := &fakeOverdueStore{tasks: []*domain.Task{task}}
	scanner := NewOverdueScanner(store, 0, nil)

	// Scan sees the task; the user completes it before the update lands.
	snapshot := *task
	store.forceScan = []*domain.Task{&snapshot}
	task.Completed = true

	summary, err := scanner.MarkOverdue(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, OverdueSummary{Skipped: 1}, summary)
	assert.False(t, task.Overdue)
}

func TestMarkOverdueIsolatesFailures(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.March, 2, 0, 0, 0, 0, time.UTC)
	broken := dueTask(t, now.Add(-2*time.Hour))
	healthy := dueTask(t, now.Add(-time.Hour))

	store := &fakeOverdueStore{
		tasks:   []*domain.Task{broken, healthy},
		markErr: map[uuid.UUID]error{broken.ID: errors.New("connection reset")},
	}
	scanner := NewOverdueScanner(store, 0, nil)

	summary, err := scanner.MarkOverdue(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, OverdueSummary{Marked: 1, Failed: 1}, summary)
	assert.True(t, healthy.Overdue)
}

func TestMarkOverdueReturnsScanError(t *testing.T) {
	t.Parallel()

	store := &fakeOverdueStore{scanErr: errors.New("db down")}
	scanner := NewOverdueScanner(store, 0, nil)

	_, err := scanner.MarkOverdue(context.Background(), time.Now().UTC())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to scan overdue tasks")
}

func TestMarkOverdueHonorsBatchSize(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.March, 2, 0, 0, 0, 0, time.UTC)
	store := &fakeOverdueStore{
		tasks: []*domain.Task{
			dueTask(t, now.Add(-3*time.Hour)),
			dueTask(t, now.Add(-2*time.Hour)),
			dueTask(t, now.Add(-time.Hour)),
		},
	}
	scanner := NewOverdueScanner(store, 2, nil)

	first, err := scanner.MarkOverdue(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Marked)

	second, err := scanner.MarkOverdue(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 1, second.Marked)
}
