package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/taskcycle-api/internal/domain"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Name     string `json:"name"     validate:"max=120"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Token  string    `json:"token"`
}

// CreateTaskRequest defines the payload for the task creation endpoint.
type CreateTaskRequest struct {
	Title              string                 `json:"title"                         validate:"required,max=500"`
	Description        string                 `json:"description,omitempty"`
	DueDate            *time.Time             `json:"due_date,omitempty"`
	Priority           domain.Priority        `json:"priority,omitempty"            validate:"omitempty,oneof=low medium high"`
	IsRecurring        bool                   `json:"is_recurring,omitempty"`
	RecurrenceType     *domain.RecurrenceType `json:"recurrence_type,omitempty"     validate:"omitempty,oneof=daily weekly monthly"`
	RecurrenceInterval *int                   `json:"recurrence_interval,omitempty" validate:"omitempty,gt=0"`
}

// UpdateTaskRequest defines the payload for the task update endpoint.
// Absent fields are left unchanged; clear_due_date removes the due date.
type UpdateTaskRequest struct {
	Title              *string                `json:"title,omitempty"               validate:"omitempty,min=1,max=500"`
	Description        *string                `json:"description,omitempty"`
	Completed          *bool                  `json:"completed,omitempty"`
	DueDate            *time.Time             `json:"due_date,omitempty"`
	ClearDueDate       bool                   `json:"clear_due_date,omitempty"`
	Priority           *domain.Priority       `json:"priority,omitempty"            validate:"omitempty,oneof=low medium high"`
	IsRecurring        *bool                  `json:"is_recurring,omitempty"`
	RecurrenceType     *domain.RecurrenceType `json:"recurrence_type,omitempty"     validate:"omitempty,oneof=daily weekly monthly"`
	RecurrenceInterval *int                   `json:"recurrence_interval,omitempty" validate:"omitempty,gt=0"`
}

// CreateReminderRequest defines the payload for the reminder creation endpoint.
type CreateReminderRequest struct {
	RemindAt time.Time `json:"remind_at" validate:"required"`
}

// CreateTagRequest defines the payload for the tag creation endpoint.
type CreateTagRequest struct {
	Name  string `json:"name"            validate:"required,max=100"`
	Color string `json:"color,omitempty" validate:"omitempty,max=32"`
}

// TaskListResponse wraps a page of tasks.
type TaskListResponse struct {
	Tasks  []*domain.Task `json:"tasks"`
	Limit  int            `json:"limit,omitempty"`
	Offset int            `json:"offset,omitempty"`
}

// CronResponse is the common envelope for the cron trigger endpoints.
// Counts holds the orchestrator's summary (created/sent/marked, skipped,
// failed) keyed the way the summary serializes it.
type CronResponse struct {
	Status    string         `json:"status"`
	Message   string         `json:"message"`
	Timestamp time.Time      `json:"timestamp"`
	Counts    map[string]int `json:"counts"`
}
