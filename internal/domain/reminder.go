package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Reminder-specific validation errors
var (
	// ErrReminderIDEmpty is returned when a reminder ID is empty or nil.
	ErrReminderIDEmpty = errors.New("reminder ID cannot be empty")

	// ErrReminderTaskIDEmpty is returned when a reminder's task ID is empty or nil.
	ErrReminderTaskIDEmpty = errors.New("reminder task ID cannot be empty")

	// ErrReminderTimeZero is returned when a reminder has no scheduled time.
	ErrReminderTimeZero = errors.New("reminder time cannot be zero")

	// ErrReminderTimePast is returned when a reminder is scheduled in the past
	// at creation time.
	ErrReminderTimePast = errors.New("reminder time must be in the future")
)

// Reminder schedules a one-shot notification for a task.
// The Sent flag transitions false to true exactly once; the claim is made with
// an atomic conditional update at the store layer, never in process memory.
type Reminder struct {
	ID        uuid.UUID `json:"id"`
	TaskID    uuid.UUID `json:"task_id"`
	RemindAt  time.Time `json:"remind_at"`
	Sent      bool      `json:"sent"`
	CreatedAt time.Time `json:"created_at"`
}

// NewReminder creates a new unsent Reminder for the given task.
// remindAt must be strictly in the future relative to now.
func NewReminder(taskID uuid.UUID, remindAt time.Time, now time.Time) (*Reminder, error) {
	reminder := &Reminder{
		ID:        uuid.New(),
		TaskID:    taskID,
		RemindAt:  remindAt,
		Sent:      false,
		CreatedAt: now.UTC(),
	}

	if err := reminder.Validate(); err != nil {
		return nil, err
	}
	if !remindAt.After(now) {
		return nil, ErrReminderTimePast
	}

	return reminder, nil
}

// Validate checks if the Reminder has valid data.
func (r *Reminder) Validate() error {
	if r.ID == uuid.Nil {
		return ErrReminderIDEmpty
	}

	if r.TaskID == uuid.Nil {
		return ErrReminderTaskIDEmpty
	}

	if r.RemindAt.IsZero() {
		return ErrReminderTimeZero
	}

	return nil
}
