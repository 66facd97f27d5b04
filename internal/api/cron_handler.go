package api

import (
	"context"
	"net/http"
	"time"

	"github.com/phrazzld/taskcycle-api/internal/platform/logger"
	"github.com/phrazzld/taskcycle-api/internal/redact"
	"github.com/phrazzld/taskcycle-api/internal/scheduler"
)

// TaskRegenerator runs one regeneration batch.
type TaskRegenerator interface {
	RegenerateDue(ctx context.Context, now time.Time) (scheduler.RegenerationSummary, error)
}

// ReminderDispatcher runs one reminder dispatch batch.
type ReminderDispatcher interface {
	DispatchDue(ctx context.Context, now time.Time) (scheduler.DispatchSummary, error)
}

// OverdueScanner runs one overdue scan batch.
type OverdueScanner interface {
	MarkOverdue(ctx context.Context, now time.Time) (scheduler.OverdueSummary, error)
}

// CronHandler exposes the batch orchestrators as trigger endpoints for the
// external cron caller. Authentication happens in the cron secret middleware,
// before these handlers run.
type CronHandler struct {
	regenerator TaskRegenerator
	dispatcher  ReminderDispatcher
	scanner     OverdueScanner
}

// NewCronHandler creates a new CronHandler with the given orchestrators.
func NewCronHandler(
	regenerator TaskRegenerator,
	dispatcher ReminderDispatcher,
	scanner OverdueScanner,
) *CronHandler {
	return &CronHandler{
		regenerator: regenerator,
		dispatcher:  dispatcher,
		scanner:     scanner,
	}
}

// RegenerateTasks handles POST /api/cron/recurring-tasks.
func (h *CronHandler) RegenerateTasks(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()

	summary, err := h.regenerator.RegenerateDue(r.Context(), now)
	if err != nil {
		h.respondCronError(w, r, "task regeneration failed", err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, CronResponse{
		Status:    "ok",
		Message:   "recurring task regeneration complete",
		Timestamp: now,
		Counts: map[string]int{
			"created": summary.Created,
			"skipped": summary.Skipped,
			"failed":  summary.Failed,
		},
	})
}

// DispatchReminders handles POST /api/cron/reminder-dispatcher.
func (h *CronHandler) DispatchReminders(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()

	summary, err := h.dispatcher.DispatchDue(r.Context(), now)
	if err != nil {
		h.respondCronError(w, r, "reminder dispatch failed", err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, CronResponse{
		Status:    "ok",
		Message:   "reminder dispatch complete",
		Timestamp: now,
		Counts: map[string]int{
			"sent":    summary.Sent,
			"skipped": summary.Skipped,
			"failed":  summary.Failed,
		},
	})
}

// ScanOverdue handles POST /api/cron/overdue-scanner.
func (h *CronHandler) ScanOverdue(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()

	summary, err := h.scanner.MarkOverdue(r.Context(), now)
	if err != nil {
		h.respondCronError(w, r, "overdue scan failed", err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, CronResponse{
		Status:    "ok",
		Message:   "overdue scan complete",
		Timestamp: now,
		Counts: map[string]int{
			"marked":  summary.Marked,
			"skipped": summary.Skipped,
			"failed":  summary.Failed,
		},
	})
}

// respondCronError reports an orchestrator failure to the cron caller.
// The raw error is logged redacted; the client sees only the short message.
func (h *CronHandler) respondCronError(
	w http.ResponseWriter,
	r *http.Request,
	message string,
	err error,
) {
	log := logger.FromContext(r.Context())
	log.Error("cron endpoint failed",
		"path", r.URL.Path,
		"error", redact.Error(err))

	RespondWithJSON(w, r, http.StatusInternalServerError, CronResponse{
		Status:    "error",
		Message:   message,
		Timestamp: time.Now().UTC(),
		Counts:    map[string]int{},
	})
}
