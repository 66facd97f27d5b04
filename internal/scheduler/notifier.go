package scheduler

import (
	"context"
	"log/slog"

	"github.com/phrazzld/taskcycle-api/internal/domain"
	"github.com/phrazzld/taskcycle-api/internal/platform/logger"
)

// Notifier delivers a reminder notification to its recipient.
// Implementations may send email, push, or anything else; the dispatcher only
// cares about success or failure. Send is invoked after the reminder has been
// claimed, so an implementation must treat each call as the single delivery
// attempt for that reminder.
type Notifier interface {
	Send(ctx context.Context, reminder *domain.Reminder) error
}

// LogNotifier is a Notifier that records deliveries in the structured log.
// It stands in for a real delivery channel in development and tests.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(log *slog.Logger) *LogNotifier {
	if log == nil {
		log = slog.Default()
	}
	return &LogNotifier{logger: log.With(slog.String("component", "log_notifier"))}
}

// Ensure LogNotifier implements Notifier
var _ Notifier = (*LogNotifier)(nil)

// Send implements Notifier.
func (n *LogNotifier) Send(ctx context.Context, reminder *domain.Reminder) error {
	log := logger.FromContextOrDefault(ctx, n.logger)
	log.Info("reminder notification",
		slog.String("reminder_id", reminder.ID.String()),
		slog.String("task_id", reminder.TaskID.String()),
		slog.Time("remind_at", reminder.RemindAt))
	return nil
}
