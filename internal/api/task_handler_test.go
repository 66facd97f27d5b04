package api

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/taskcycle-api/internal/domain"
)

func TestParseTaskFilter(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest("GET", "/api/tasks", nil)
		filter, err := parseTaskFilter(r)
		require.NoError(t, err)
		assert.Equal(t, defaultTaskPageSize, filter.Limit)
		assert.Zero(t, filter.Offset)
		assert.Nil(t, filter.Completed)
		assert.Nil(t, filter.Priority)
	})

	t.Run("full filter", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest("GET",
			"/api/tasks?completed=false&priority=high&due_before=2024-06-01T00:00:00Z&due_after=2024-03-01T00:00:00Z&limit=10&offset=20",
			nil)
		filter, err := parseTaskFilter(r)
		require.NoError(t, err)

		require.NotNil(t, filter.Completed)
		assert.False(t, *filter.Completed)
		require.NotNil(t, filter.Priority)
		assert.Equal(t, domain.PriorityHigh, *filter.Priority)
		require.NotNil(t, filter.DueBefore)
		assert.Equal(t, time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC), *filter.DueBefore)
		require.NotNil(t, filter.DueAfter)
		assert.Equal(t, 10, filter.Limit)
		assert.Equal(t, 20, filter.Offset)
	})

	t.Run("limit capped", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest("GET", "/api/tasks?limit=100000", nil)
		filter, err := parseTaskFilter(r)
		require.NoError(t, err)
		assert.Equal(t, maxTaskPageSize, filter.Limit)
	})

	t.Run("invalid values rejected", func(t *testing.T) {
		t.Parallel()

		for _, query := range []string{
			"completed=maybe",
			"priority=urgent",
			"due_before=tomorrow",
			"limit=0",
			"limit=-5",
			"offset=-1",
		} {
			_, err := parseTaskFilter(httptest.NewRequest("GET", "/api/tasks?"+query, nil))
			assert.Error(t, err, query)
		}
	})
}
