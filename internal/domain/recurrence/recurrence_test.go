package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/phrazzld/taskcycle-api/internal/domain"
)

func date(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func TestNextDue(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		current  time.Time
		kind     domain.RecurrenceType
		interval int
		expected time.Time
	}{
		{
			name:     "daily adds interval days",
			current:  date(2024, time.March, 1, 9, 0),
			kind:     domain.RecurrenceDaily,
			interval: 3,
			expected: date(2024, time.March, 4, 9, 0),
		},
		{
			name:     "daily crosses month boundary",
			current:  date(2024, time.January, 30, 23, 30),
			kind:     domain.RecurrenceDaily,
			interval: 2,
			expected: date(2024, time.February, 1, 23, 30),
		},
		{
			name:     "weekly adds seven days per interval",
			current:  date(2024, time.March, 1, 9, 0),
			kind:     domain.RecurrenceWeekly,
			interval: 2,
			expected: date(2024, time.March, 15, 9, 0),
		},
		{
			name:     "monthly keeps day when valid",
			current:  date(2024, time.March, 15, 8, 45),
			kind:     domain.RecurrenceMonthly,
			interval: 1,
			expected: date(2024, time.April, 15, 8, 45),
		},
		{
			name:     "monthly clamps Jan 31 to Feb 29 in leap year",
			current:  date(2024, time.January, 31, 9, 0),
			kind:     domain.RecurrenceMonthly,
			interval: 1,
			expected: date(2024, time.February, 29, 9, 0),
		},
		{
			name:     "monthly clamps Jan 31 to Feb 28 in non-leap year",
			current:  date(2023, time.January, 31, 9, 0),
			kind:     domain.RecurrenceMonthly,
			interval: 1,
			expected: date(2023, time.February, 28, 9, 0),
		},
		{
			name:     "monthly carries year overflow",
			current:  date(2024, time.November, 30, 12, 0),
			kind:     domain.RecurrenceMonthly,
			interval: 3,
			expected: date(2025, time.February, 28, 12, 0),
		},
		{
			name:     "monthly with multi-month interval",
			current:  date(2024, time.May, 31, 6, 15),
			kind:     domain.RecurrenceMonthly,
			interval: 4,
			expected: date(2024, time.September, 30, 6, 15),
		},
		{
			name:     "monthly across December",
			current:  date(2024, time.December, 31, 9, 0),
			kind:     domain.RecurrenceMonthly,
			interval: 1,
			expected: date(2025, time.January, 31, 9, 0),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := NextDue(tc.current, tc.kind, tc.interval)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestNextDuePreservesTimeOfDay(t *testing.T) {
	t.Parallel()

	current := time.Date(2024, time.January, 31, 17, 42, 13, 500, time.UTC)
	got := NextDue(current, domain.RecurrenceMonthly, 1)

	hour, min, sec := got.Clock()
	assert.Equal(t, 17, hour)
	assert.Equal(t, 42, min)
	assert.Equal(t, 13, sec)
	assert.Equal(t, 500, got.Nanosecond())
}

func TestNextDuePanicsOnInvalidInput(t *testing.T) {
	t.Parallel()

	t.Run("non-positive interval", func(t *testing.T) {
		assert.Panics(t, func() {
			NextDue(date(2024, time.March, 1, 9, 0), domain.RecurrenceDaily, 0)
		})
	})

	t.Run("unknown recurrence type", func(t *testing.T) {
		assert.Panics(t, func() {
			NextDue(date(2024, time.March, 1, 9, 0), domain.RecurrenceType("yearly"), 1)
		})
	})
}
