package goal

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ptr(s string) *string {
	return &s
}

func TestGoal_Validate(t *testing.T) {
	valid := Goal{Name: "Deep work", Type: Weekly, Hours: 20}

	t.Run("should accept a recurring goal", func(t *testing.T) {
		assert.NoError(t, valid.Validate())
	})

	t.Run("should accept a custom period", func(t *testing.T) {
		g := valid
		g.CustomPeriodStart = ptr("2024-06-01")
		g.CustomPeriodEnd = ptr("2024-06-01")
		assert.NoError(t, g.Validate())
	})

	cases := []struct {
		name   string
		modify func(g *Goal)
	}{
		{"empty name", func(g *Goal) { g.Name = "  " }},
		{"long name", func(g *Goal) { g.Name = strings.Repeat("a", 101) }},
		{"unknown type", func(g *Goal) { g.Type = "daily" }},
		{"too few hours", func(g *Goal) { g.Hours = 0.5 }},
		{"too many hours", func(g *Goal) { g.Hours = 5001 }},
		{"start without end", func(g *Goal) { g.CustomPeriodStart = ptr("2024-06-01") }},
		{"end before start", func(g *Goal) {
			g.CustomPeriodStart = ptr("2024-06-10")
			g.CustomPeriodEnd = ptr("2024-06-01")
		}},
		{"unparsable date", func(g *Goal) {
			g.CustomPeriodStart = ptr("June 1st")
			g.CustomPeriodEnd = ptr("2024-06-10")
		}},
	}
	for _, tc := range cases {
		t.Run("should reject "+tc.name, func(t *testing.T) {
			g := valid
			tc.modify(&g)
			err := g.Validate()
			assert.True(t, errors.Is(err, ErrInvalidGoal), "got %v", err)
		})
	}
}

func TestResolvePeriod(t *testing.T) {
	// a Saturday
	now := time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)

	t.Run("should use the Monday based week", func(t *testing.T) {
		period := ResolvePeriod(Goal{Type: Weekly}, now)

		assert.Equal(t, time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC), period.Start)
		assert.Equal(t, time.Date(2024, time.June, 16, 23, 59, 59, 999999999, time.UTC), period.End)
	})

	t.Run("should treat Sunday as the last day of the week", func(t *testing.T) {
		sunday := time.Date(2024, time.June, 16, 8, 0, 0, 0, time.UTC)

		period := ResolvePeriod(Goal{Type: Weekly}, sunday)

		assert.Equal(t, time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC), period.Start)
	})

	t.Run("should use the calendar month", func(t *testing.T) {
		period := ResolvePeriod(Goal{Type: Monthly}, now)

		assert.Equal(t, time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC), period.Start)
		assert.Equal(t, time.Date(2024, time.June, 30, 23, 59, 59, 999999999, time.UTC), period.End)
	})

	t.Run("should prefer a valid custom period", func(t *testing.T) {
		g := Goal{Type: Monthly, CustomPeriodStart: ptr("2024-03-01"), CustomPeriodEnd: ptr("2024-03-31T10:00:00Z")}

		period := ResolvePeriod(g, now)

		assert.Equal(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), period.Start)
		assert.Equal(t, time.Date(2024, time.March, 31, 23, 59, 59, 999999999, time.UTC), period.End)
	})

	t.Run("should fall back when the custom period is inverted", func(t *testing.T) {
		g := Goal{Type: Monthly, CustomPeriodStart: ptr("2024-03-31"), CustomPeriodEnd: ptr("2024-03-01")}

		period := ResolvePeriod(g, now)

		assert.Equal(t, time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC), period.Start)
	})
}

func TestProgress(t *testing.T) {
	t.Run("should cap the percentage at 100", func(t *testing.T) {
		p := Progress{Goal: Goal{Hours: 10}, TrackedHours: 25}

		assert.Equal(t, 100.0, p.Percent())
		assert.True(t, p.Achieved())
	})

	t.Run("should not count a failed goal as achieved", func(t *testing.T) {
		p := Progress{Goal: Goal{Hours: 10}, TrackedHours: 10, Error: "boom"}

		assert.False(t, p.Achieved())
	})

	t.Run("should report partial progress", func(t *testing.T) {
		p := Progress{Goal: Goal{Hours: 8}, TrackedHours: 2}

		assert.Equal(t, 25.0, p.Percent())
		assert.False(t, p.Achieved())
	})
}
