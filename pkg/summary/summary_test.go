package summary

import (
	"testing"
	"time"

	"github.com/clockheat/clockheat/internal/utils"
	"github.com/clockheat/clockheat/pkg/clockify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(start time.Time, end *time.Time, token string) clockify.TimeEntry {
	e := clockify.TimeEntry{TimeInterval: clockify.TimeInterval{Start: start, End: end}}
	if token != "" {
		e.TimeInterval.Duration = &token
	}
	return e
}

func ptr(t time.Time) *time.Time {
	return &t
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAggregate(t *testing.T) {
	t.Run("should produce dense zero-filled days", func(t *testing.T) {
		// given
		start := time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC)
		entries := []clockify.TimeEntry{entry(start, ptr(start.Add(8*time.Hour)), "")}

		// when
		days, err := Aggregate(entries, day(2024, time.January, 1), day(2024, time.January, 3))

		// then
		require.NoError(t, err)
		require.Len(t, days, 3)
		assert.Equal(t, DailySummary{Date: day(2024, time.January, 1), TotalHours: 8}, days[0])
		assert.Equal(t, DailySummary{Date: day(2024, time.January, 2), TotalHours: 0}, days[1])
		assert.Equal(t, DailySummary{Date: day(2024, time.January, 3), TotalHours: 0}, days[2])
	})

	t.Run("should keep density for any range without entries", func(t *testing.T) {
		ranges := []struct {
			from time.Time
			to   time.Time
		}{
			{day(2024, time.January, 1), day(2024, time.January, 1)},
			{day(2024, time.January, 1), day(2024, time.December, 31)},
			{day(2023, time.February, 27), day(2023, time.March, 2)},
		}
		for _, r := range ranges {
			days, err := Aggregate(nil, r.from, r.to)
			require.NoError(t, err)
			assert.Len(t, days, utils.DaysBetween(r.from, r.to)+1)
		}
	})

	t.Run("should credit the whole entry to its start day", func(t *testing.T) {
		// given
		start := time.Date(2024, time.January, 1, 22, 0, 0, 0, time.UTC)
		entries := []clockify.TimeEntry{entry(start, ptr(start.Add(4*time.Hour)), "")}

		// when
		days, err := Aggregate(entries, day(2024, time.January, 1), day(2024, time.January, 2))

		// then
		require.NoError(t, err)
		assert.Equal(t, 4.0, days[0].TotalHours)
		assert.Equal(t, 0.0, days[1].TotalHours)
	})

	t.Run("should use the duration token of running entries", func(t *testing.T) {
		// given
		start := time.Date(2024, time.January, 2, 9, 0, 0, 0, time.UTC)
		entries := []clockify.TimeEntry{
			entry(start, nil, "PT1H30M"),
			entry(start, nil, ""),
			entry(start, nil, "garbage"),
		}

		// when
		days, err := Aggregate(entries, day(2024, time.January, 1), day(2024, time.January, 2))

		// then
		require.NoError(t, err)
		assert.Equal(t, 1.5, days[1].TotalHours)
	})

	t.Run("should ignore entries ending before they start", func(t *testing.T) {
		// given
		start := time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC)
		entries := []clockify.TimeEntry{
			entry(start, ptr(start.Add(-3*time.Hour)), ""),
			entry(start, ptr(start.Add(time.Hour)), ""),
		}

		// when
		days, err := Aggregate(entries, day(2024, time.January, 1), day(2024, time.January, 1))

		// then
		require.NoError(t, err)
		assert.Equal(t, 1.0, days[0].TotalHours)
	})

	t.Run("should drop entries outside the range", func(t *testing.T) {
		// given
		before := time.Date(2023, time.December, 31, 23, 0, 0, 0, time.UTC)
		after := time.Date(2024, time.January, 4, 0, 0, 0, 0, time.UTC)
		entries := []clockify.TimeEntry{
			entry(before, ptr(before.Add(2*time.Hour)), ""),
			entry(after, ptr(after.Add(2*time.Hour)), ""),
		}

		// when
		days, err := Aggregate(entries, day(2024, time.January, 1), day(2024, time.January, 3))

		// then
		require.NoError(t, err)
		assert.Equal(t, 0.0, TotalHours(days))
	})

	t.Run("should round after summing", func(t *testing.T) {
		// given three 20 minute entries: 0.333.. each, 1.0 in total
		start := time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC)
		entries := []clockify.TimeEntry{
			entry(start, ptr(start.Add(20*time.Minute)), ""),
			entry(start.Add(time.Hour), ptr(start.Add(80*time.Minute)), ""),
			entry(start.Add(2*time.Hour), ptr(start.Add(140*time.Minute)), ""),
		}

		// when
		days, err := Aggregate(entries, day(2024, time.January, 1), day(2024, time.January, 1))

		// then
		require.NoError(t, err)
		assert.Equal(t, 1.0, days[0].TotalHours)
	})

	t.Run("should assign days in the location of the range", func(t *testing.T) {
		// given 23:30 UTC is already the next day in Warsaw
		warsaw, err := time.LoadLocation("Europe/Warsaw")
		if err != nil {
			t.Skip("timezone database not available")
		}
		start := time.Date(2024, time.January, 1, 23, 30, 0, 0, time.UTC)
		entries := []clockify.TimeEntry{entry(start, ptr(start.Add(time.Hour)), "")}

		// when
		days, err := Aggregate(entries, time.Date(2024, time.January, 1, 0, 0, 0, 0, warsaw), time.Date(2024, time.January, 2, 0, 0, 0, 0, warsaw))

		// then
		require.NoError(t, err)
		assert.Equal(t, 0.0, days[0].TotalHours)
		assert.Equal(t, 1.0, days[1].TotalHours)
	})

	t.Run("should fail when the range is reversed", func(t *testing.T) {
		// when
		days, err := Aggregate(nil, day(2024, time.January, 3), day(2024, time.January, 1))

		// then
		assert.ErrorIs(t, err, ErrInvalidRange)
		assert.Nil(t, days)
	})
}

func TestToHeatmapPoints(t *testing.T) {
	days := []DailySummary{{Date: day(2024, time.March, 5), TotalHours: 6.5}, {Date: day(2024, time.March, 6)}}

	points := ToHeatmapPoints(days)

	require.Len(t, points, 2)
	assert.Equal(t, day(2024, time.March, 5), points[0].Date)
	assert.Equal(t, 6.5, points[0].Count)
	assert.Equal(t, 0.0, points[1].Count)
}
