package domain_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/taskcycle-api/internal/domain"
)

func TestNewReminder(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

	t.Run("valid future reminder", func(t *testing.T) {
		t.Parallel()

		taskID := uuid.New()
		remindAt := now.Add(time.Hour)

		reminder, err := domain.NewReminder(taskID, remindAt, now)
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, reminder.ID)
		assert.Equal(t, taskID, reminder.TaskID)
		assert.Equal(t, remindAt, reminder.RemindAt)
		assert.False(t, reminder.Sent)
	})

	t.Run("reminder in the past", func(t *testing.T) {
		t.Parallel()

		_, err := domain.NewReminder(uuid.New(), now.Add(-time.Minute), now)
		assert.ErrorIs(t, err, domain.ErrReminderTimePast)
	})

	t.Run("reminder exactly at now", func(t *testing.T) {
		t.Parallel()

		_, err := domain.NewReminder(uuid.New(), now, now)
		assert.ErrorIs(t, err, domain.ErrReminderTimePast)
	})

	t.Run("empty task ID", func(t *testing.T) {
		t.Parallel()

		_, err := domain.NewReminder(uuid.Nil, now.Add(time.Hour), now)
		assert.ErrorIs(t, err, domain.ErrReminderTaskIDEmpty)
	})
}

func TestReminderValidate(t *testing.T) {
	t.Parallel()

	reminder := &domain.Reminder{
		ID:       uuid.New(),
		TaskID:   uuid.New(),
		RemindAt: time.Now().UTC(),
	}
	assert.NoError(t, reminder.Validate())

	reminder.RemindAt = time.Time{}
	assert.ErrorIs(t, reminder.Validate(), domain.ErrReminderTimeZero)
}
