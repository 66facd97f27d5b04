// Package api contains the HTTP handlers, request/response models, and error
// mapping for the public API surface: auth, tasks, reminders, tags, and the
// cron trigger endpoints.
package api
