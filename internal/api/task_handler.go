package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/phrazzld/taskcycle-api/internal/domain"
	"github.com/phrazzld/taskcycle-api/internal/service"
	"github.com/phrazzld/taskcycle-api/internal/store"
)

// defaultTaskPageSize bounds list responses when the client sends no limit.
const (
	defaultTaskPageSize = 50
	maxTaskPageSize     = 200
)

// TaskHandler handles task CRUD API requests.
type TaskHandler struct {
	taskService service.TaskService
	validator   *validator.Validate
}

// NewTaskHandler creates a new TaskHandler with the given dependencies.
func NewTaskHandler(taskService service.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		validator:   validator.New(),
	}
}

// Create handles POST /api/tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req CreateTaskRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	task, err := h.taskService.CreateTask(r.Context(), userID, domain.TaskParams{
		Title:              req.Title,
		Description:        req.Description,
		DueDate:            req.DueDate,
		Priority:           req.Priority,
		IsRecurring:        req.IsRecurring,
		RecurrenceType:     req.RecurrenceType,
		RecurrenceInterval: req.RecurrenceInterval,
	})
	if err != nil {
		status := MapErrorToStatusCode(err)
		if status == http.StatusInternalServerError {
			// Domain validation failures wrap plain sentinel errors.
			status = http.StatusBadRequest
		}
		RespondWithError(w, r, status, GetSafeErrorMessage(err))
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, task)
}

// Get handles GET /api/tasks/{id}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := requireUserAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(r.Context(), userID, taskID)
	if err != nil {
		RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
		return
	}

	RespondWithJSON(w, r, http.StatusOK, task)
}

// List handles GET /api/tasks with optional completed, priority, due_before,
// due_after, limit, and offset query parameters.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	filter, err := parseTaskFilter(r)
	if err != nil {
		RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	tasks, err := h.taskService.ListTasks(r.Context(), userID, filter)
	if err != nil {
		RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
		return
	}

	RespondWithJSON(w, r, http.StatusOK, TaskListResponse{
		Tasks:  tasks,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	})
}

// Update handles PATCH /api/tasks/{id}.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := requireUserAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	task, err := h.taskService.UpdateTask(r.Context(), userID, taskID, service.TaskUpdate{
		Title:              req.Title,
		Description:        req.Description,
		Completed:          req.Completed,
		DueDate:            req.DueDate,
		ClearDueDate:       req.ClearDueDate,
		Priority:           req.Priority,
		IsRecurring:        req.IsRecurring,
		RecurrenceType:     req.RecurrenceType,
		RecurrenceInterval: req.RecurrenceInterval,
	})
	if err != nil {
		status := MapErrorToStatusCode(err)
		if status == http.StatusInternalServerError {
			status = http.StatusBadRequest
		}
		RespondWithError(w, r, status, GetSafeErrorMessage(err))
		return
	}

	RespondWithJSON(w, r, http.StatusOK, task)
}

// Delete handles DELETE /api/tasks/{id}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := requireUserAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(r.Context(), userID, taskID); err != nil {
		RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// parseTaskFilter builds a store.TaskFilter from list query parameters.
func parseTaskFilter(r *http.Request) (store.TaskFilter, error) {
	filter := store.TaskFilter{Limit: defaultTaskPageSize}
	q := r.URL.Query()

	if v := q.Get("completed"); v != "" {
		completed, err := strconv.ParseBool(v)
		if err != nil {
			return filter, errInvalidQueryParam("completed")
		}
		filter.Completed = &completed
	}

	if v := q.Get("priority"); v != "" {
		p := domain.Priority(v)
		switch p {
		case domain.PriorityLow, domain.PriorityMedium, domain.PriorityHigh:
			filter.Priority = &p
		default:
			return filter, errInvalidQueryParam("priority")
		}
	}

	if v := q.Get("due_before"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, errInvalidQueryParam("due_before")
		}
		filter.DueBefore = &t
	}

	if v := q.Get("due_after"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, errInvalidQueryParam("due_after")
		}
		filter.DueAfter = &t
	}

	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit <= 0 {
			return filter, errInvalidQueryParam("limit")
		}
		if limit > maxTaskPageSize {
			limit = maxTaskPageSize
		}
		filter.Limit = limit
	}

	if v := q.Get("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil || offset < 0 {
			return filter, errInvalidQueryParam("offset")
		}
		filter.Offset = offset
	}

	return filter, nil
}

type queryParamError string

func (e queryParamError) Error() string { return "invalid query parameter: " + string(e) }

func errInvalidQueryParam(name string) error { return queryParamError(name) }
