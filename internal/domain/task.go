package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Priority represents the urgency level of a task.
type Priority string

// Possible priority values
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// RecurrenceType represents how often a recurring task repeats.
type RecurrenceType string

// Possible recurrence type values
const (
	RecurrenceDaily   RecurrenceType = "daily"
	RecurrenceWeekly  RecurrenceType = "weekly"
	RecurrenceMonthly RecurrenceType = "monthly"
)

// Task-specific validation errors
var (
	// ErrTaskIDEmpty is returned when a task ID is empty or nil.
	ErrTaskIDEmpty = errors.New("task ID cannot be empty")

	// ErrTaskUserIDEmpty is returned when a task's user ID is empty or nil.
	ErrTaskUserIDEmpty = errors.New("task user ID cannot be empty")

	// ErrTaskTitleEmpty is returned when a task's title is empty.
	ErrTaskTitleEmpty = errors.New("task title cannot be empty")

	// ErrInvalidPriority is returned when a task's priority is not a known value.
	ErrInvalidPriority = errors.New("task priority must be low, medium, or high")

	// ErrInvalidRecurrenceType is returned when a recurring task's recurrence
	// type is not a known value, or when a non-recurring task carries one.
	ErrInvalidRecurrenceType = errors.New(
		"recurrence type must be daily, weekly, or monthly, and set only on recurring tasks",
	)

	// ErrInvalidRecurrenceInterval is returned when a recurring task's interval
	// is missing or not a positive integer.
	ErrInvalidRecurrenceInterval = errors.New(
		"recurrence interval must be a positive integer on recurring tasks",
	)
)

// Task represents a single to-do item owned by a user.
//
// A recurring task is never mutated into its next occurrence in place: when a
// completed recurring task passes its due date, the scheduler creates a new
// Task row and the original remains as immutable completed history.
// LastGeneratedDue records the due date for which a successor has already been
// created; it is owned by the scheduler and used as an idempotency marker so
// that overlapping regeneration runs create at most one successor per
// occurrence.
type Task struct {
	ID                 uuid.UUID       `json:"id"`
	UserID             uuid.UUID       `json:"user_id"`
	Title              string          `json:"title"`
	Description        string          `json:"description,omitempty"`
	Completed          bool            `json:"completed"`
	DueDate            *time.Time      `json:"due_date,omitempty"`
	Priority           Priority        `json:"priority"`
	IsRecurring        bool            `json:"is_recurring"`
	RecurrenceType     *RecurrenceType `json:"recurrence_type,omitempty"`
	RecurrenceInterval *int            `json:"recurrence_interval,omitempty"`
	Overdue            bool            `json:"overdue"`
	LastGeneratedDue   *time.Time      `json:"-"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// TaskParams bundles the caller-supplied fields for creating a task.
type TaskParams struct {
	Title              string
	Description        string
	DueDate            *time.Time
	Priority           Priority
	IsRecurring        bool
	RecurrenceType     *RecurrenceType
	RecurrenceInterval *int
}

// NewTask creates a new Task for the given user.
// It generates a new UUID, applies the medium-priority default, and sets the
// creation/update timestamps. Returns an error if validation fails.
func NewTask(userID uuid.UUID, params TaskParams) (*Task, error) {
	now := time.Now().UTC()
	if params.Priority == "" {
		params.Priority = PriorityMedium
	}

	task := &Task{
		ID:                 uuid.New(),
		UserID:             userID,
		Title:              params.Title,
		Description:        params.Description,
		DueDate:            params.DueDate,
		Priority:           params.Priority,
		IsRecurring:        params.IsRecurring,
		RecurrenceType:     params.RecurrenceType,
		RecurrenceInterval: params.RecurrenceInterval,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// NextOccurrence creates the successor Task for a completed recurring task.
// The successor copies the owner, title, description, priority, and recurrence
// settings of the source, is not completed, not overdue, and is due at nextDue.
// Returns an error if the source is not a valid recurring task.
func (t *Task) NextOccurrence(nextDue time.Time) (*Task, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if !t.IsRecurring {
		return nil, ErrInvalidRecurrenceType
	}

	now := time.Now().UTC()
	return &Task{
		ID:                 uuid.New(),
		UserID:             t.UserID,
		Title:              t.Title,
		Description:        t.Description,
		Completed:          false,
		DueDate:            &nextDue,
		Priority:           t.Priority,
		IsRecurring:        true,
		RecurrenceType:     t.RecurrenceType,
		RecurrenceInterval: t.RecurrenceInterval,
		CreatedAt:          now,
		UpdatedAt:          now,
	}, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrTaskIDEmpty
	}

	if t.UserID == uuid.Nil {
		return ErrTaskUserIDEmpty
	}

	if t.Title == "" {
		return ErrTaskTitleEmpty
	}

	switch t.Priority {
	case PriorityLow, PriorityMedium, PriorityHigh:
	default:
		return ErrInvalidPriority
	}

	if t.IsRecurring {
		if t.RecurrenceType == nil || !t.RecurrenceType.valid() {
			return ErrInvalidRecurrenceType
		}
		if t.RecurrenceInterval == nil || *t.RecurrenceInterval <= 0 {
			return ErrInvalidRecurrenceInterval
		}
	} else {
		if t.RecurrenceType != nil {
			return ErrInvalidRecurrenceType
		}
		if t.RecurrenceInterval != nil {
			return ErrInvalidRecurrenceInterval
		}
	}

	return nil
}

func (r RecurrenceType) valid() bool {
	switch r {
	case RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly:
		return true
	}
	return false
}
