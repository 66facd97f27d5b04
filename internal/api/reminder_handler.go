package api

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/phrazzld/taskcycle-api/internal/service"
)

// ReminderHandler handles reminder API requests.
type ReminderHandler struct {
	reminderService service.ReminderService
	validator       *validator.Validate
}

// NewReminderHandler creates a new ReminderHandler with the given dependencies.
func NewReminderHandler(reminderService service.ReminderService) *ReminderHandler {
	return &ReminderHandler{
		reminderService: reminderService,
		validator:       validator.New(),
	}
}

// Create handles POST /api/tasks/{id}/reminders.
func (h *ReminderHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := requireUserAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req CreateReminderRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	reminder, err := h.reminderService.CreateReminder(r.Context(), userID, taskID, req.RemindAt)
	if err != nil {
		status := MapErrorToStatusCode(err)
		if status == http.StatusInternalServerError {
			// Reminder time validation wraps plain sentinel errors.
			status = http.StatusBadRequest
		}
		RespondWithError(w, r, status, GetSafeErrorMessage(err))
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, reminder)
}

// ListByTask handles GET /api/tasks/{id}/reminders.
func (h *ReminderHandler) ListByTask(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := requireUserAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	reminders, err := h.reminderService.ListReminders(r.Context(), userID, taskID)
	if err != nil {
		RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
		return
	}

	RespondWithJSON(w, r, http.StatusOK, reminders)
}

// ListPending handles GET /api/reminders/pending, returning the calling
// user's due-and-unsent reminders.
func (h *ReminderHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	reminders, err := h.reminderService.ListPending(r.Context(), userID, time.Now().UTC())
	if err != nil {
		RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
		return
	}

	RespondWithJSON(w, r, http.StatusOK, reminders)
}

// Delete handles DELETE /api/reminders/{id}.
func (h *ReminderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, reminderID, ok := requireUserAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.reminderService.DeleteReminder(r.Context(), userID, reminderID); err != nil {
		RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
