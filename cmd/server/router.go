package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/phrazzld/taskcycle-api/internal/api"
	apiMiddleware "github.com/phrazzld/taskcycle-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(app.userService, app.jwtService)
	taskHandler := api.NewTaskHandler(app.taskService)
	reminderHandler := api.NewReminderHandler(app.reminderService)
	tagHandler := api.NewTagHandler(app.tagService)
	cronHandler := api.NewCronHandler(app.regenerator, app.dispatcher, app.scanner)

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)
	cronMiddleware := apiMiddleware.NewCronSecretMiddleware(app.config.Scheduler.CronSecret)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		// Cron trigger endpoints, guarded by the shared secret
		r.Group(func(r chi.Router) {
			r.Use(cronMiddleware.RequireSecret)
			r.Post("/cron/recurring-tasks", cronHandler.RegenerateTasks)
			r.Post("/cron/reminder-dispatcher", cronHandler.DispatchReminders)
			r.Post("/cron/overdue-scanner", cronHandler.ScanOverdue)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Task endpoints
			r.Post("/tasks", taskHandler.Create)
			r.Get("/tasks", taskHandler.List)
			r.Get("/tasks/{id}", taskHandler.Get)
			r.Patch("/tasks/{id}", taskHandler.Update)
			r.Delete("/tasks/{id}", taskHandler.Delete)

			// Reminder endpoints
			r.Post("/tasks/{id}/reminders", reminderHandler.Create)
			r.Get("/tasks/{id}/reminders", reminderHandler.ListByTask)
			r.Get("/reminders/pending", reminderHandler.ListPending)
			r.Delete("/reminders/{id}", reminderHandler.Delete)

			// Tag endpoints
			r.Post("/tags", tagHandler.Create)
			r.Get("/tags", tagHandler.List)
			r.Delete("/tags/{id}", tagHandler.Delete)
			r.Get("/tasks/{id}/tags", tagHandler.ListByTask)
			r.Post("/tasks/{id}/tags/{tagID}", tagHandler.Attach)
			r.Delete("/tasks/{id}/tags/{tagID}", tagHandler.Detach)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
