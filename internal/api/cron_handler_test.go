package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/taskcycle-api/internal/scheduler"
)

type stubRegenerator struct {
	summary scheduler.RegenerationSummary
	err     error
}

func (s *stubRegenerator) RegenerateDue(context.Context, time.Time) (scheduler.RegenerationSummary, error) {
	return s.summary, s.err
}

type stubDispatcher struct {
	summary scheduler.DispatchSummary
	err     error
}

func (s *stubDispatcher) DispatchDue(context.Context, time.Time) (scheduler.DispatchSummary, error) {
	return s.summary, s.err
}

type stubScanner struct {
	summary scheduler.OverdueSummary
	err     error
}

func (s *stubScanner) MarkOverdue(context.Context, time.Time) (scheduler.OverdueSummary, error) {
	return s.summary, s.err
}

func decodeCronResponse(t *testing.T, rec *httptest.ResponseRecorder) CronResponse {
	t.Helper()
	var resp CronResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestRegenerateTasksEndpoint(t *testing.T) {
	t.Parallel()

	handler := NewCronHandler(
		&stubRegenerator{summary: scheduler.RegenerationSummary{Created: 3, Skipped: 1}},
		&stubDispatcher{},
		&stubScanner{},
	)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/cron/recurring-tasks", nil)
	handler.RegenerateTasks(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeCronResponse(t, rec)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 3, resp.Counts["created"])
	assert.Equal(t, 1, resp.Counts["skipped"])
	assert.Equal(t, 0, resp.Counts["failed"])
	assert.False(t, resp.Timestamp.IsZero())
}

func TestDispatchRemindersEndpoint(t *testing.T) {
	t.Parallel()

	handler := NewCronHandler(
		&stubRegenerator{},
		&stubDispatcher{summary: scheduler.DispatchSummary{Sent: 2, Failed: 1}},
		&stubScanner{},
	)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/cron/reminder-dispatcher", nil)
	handler.DispatchReminders(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeCronResponse(t, rec)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 2, resp.Counts["sent"])
	assert.Equal(t, 1, resp.Counts["failed"])
}

func TestScanOverdueEndpoint(t *testing.T) {
	t.Parallel()

	handler := NewCronHandler(
		&stubRegenerator{},
		&stubDispatcher{},
		&stubScanner{summary: scheduler.OverdueSummary{Marked: 5}},
	)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/cron/overdue-scanner", nil)
	handler.ScanOverdue(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeCronResponse(t, rec)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 5, resp.Counts["marked"])
}

func TestCronEndpointReportsOrchestratorFailure(t *testing.T) {
	t.Parallel()

	handler := NewCronHandler(
		&stubRegenerator{err: errors.New("postgres://user:secret@db/down")},
		&stubDispatcher{},
		&stubScanner{},
	)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/cron/recurring-tasks", nil)
	handler.RegenerateTasks(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decodeCronResponse(t, rec)
	assert.Equal(t, "error", resp.Status)
	// The raw error never reaches the client.
	assert.NotContains(t, rec.Body.String(), "secret")
}
