// Package recurrence implements the calendar arithmetic for recurring tasks.
// The calculation is pure: no clock access, no I/O, no store dependency.
package recurrence

import (
	"fmt"
	"time"

	"github.com/phrazzld/taskcycle-api/internal/domain"
)

// NextDue computes the due date of the occurrence that follows currentDue.
//
// daily adds interval days, weekly adds interval*7 days. monthly adds interval
// calendar months with year carry, clamping the day-of-month to the last valid
// day of the target month (Jan 31 + 1 month is Feb 28, or Feb 29 in a leap
// year). Time-of-day and location are preserved unchanged in every branch.
//
// Inputs are validated when the recurring task is constructed, so an invalid
// kind or a non-positive interval reaching this function is a programming
// error and panics rather than degrading to a default.
// ALLOW-PANIC: fail fast on defects, not a recoverable condition.
func NextDue(currentDue time.Time, kind domain.RecurrenceType, interval int) time.Time {
	if interval <= 0 {
		panic(fmt.Sprintf("recurrence: interval must be positive, got %d", interval))
	}

	switch kind {
	case domain.RecurrenceDaily:
		return currentDue.AddDate(0, 0, interval)
	case domain.RecurrenceWeekly:
		return currentDue.AddDate(0, 0, interval*7)
	case domain.RecurrenceMonthly:
		return addMonthsClamped(currentDue, interval)
	default:
		panic(fmt.Sprintf("recurrence: unknown recurrence type %q", kind))
	}
}

// addMonthsClamped advances t by the given number of calendar months.
// time.AddDate normalizes overflow (Jan 31 + 1 month = Mar 3), which is the
// wrong semantics here, so the target month is computed explicitly and the day
// clamped to its length.
func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()

	// Months since year zero, so integer division carries the year.
	total := year*12 + int(month) - 1 + months
	targetYear := total / 12
	targetMonth := time.Month(total%12 + 1)

	if last := daysInMonth(targetYear, targetMonth); day > last {
		day = last
	}

	hour, min, sec := t.Clock()
	return time.Date(targetYear, targetMonth, day, hour, min, sec, t.Nanosecond(), t.Location())
}

// daysInMonth returns the number of days in the given month.
// Day zero of the following month normalizes to the last day of this one.
func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
