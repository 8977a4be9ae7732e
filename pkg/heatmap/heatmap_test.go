package heatmap

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func findCell(g Grid, date time.Time) (Cell, bool) {
	for _, w := range g.Weeks {
		for _, c := range w {
			if c.Date.Equal(date) {
				return c, true
			}
		}
	}
	return Cell{}, false
}

func TestBucket(t *testing.T) {
	tests := []struct {
		hours  float64
		bucket int
	}{
		{0, 0}, {-1, 0}, {0.01, 1}, {2, 1}, {2.01, 2}, {4, 2}, {4.5, 3}, {6, 3}, {6.5, 4}, {8, 4}, {8.01, 5}, {14, 5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.bucket, Bucket(tt.hours), "hours %v", tt.hours)
	}
}

func TestBuildGrid(t *testing.T) {
	t.Run("should align the grid to whole weeks starting on sunday", func(t *testing.T) {
		// when 2024-03-01 is a Friday, 2024-03-31 a Sunday
		grid, err := BuildGrid(nil, day(2024, time.March, 1), day(2024, time.March, 31), day(2024, time.March, 1), day(2024, time.March, 31))

		// then
		require.NoError(t, err)
		assert.Equal(t, day(2024, time.February, 25), grid.Start)
		assert.Equal(t, day(2024, time.April, 6), grid.End)
		assert.Len(t, grid.Weeks, 6)
		for _, w := range grid.Weeks {
			assert.Equal(t, time.Sunday, w[0].Date.Weekday())
		}
	})

	t.Run("should produce strictly ascending dates without gaps", func(t *testing.T) {
		// when
		grid, err := BuildGrid(nil, day(2023, time.November, 15), day(2024, time.February, 10), day(2023, time.December, 1), day(2024, time.January, 31))

		// then
		require.NoError(t, err)
		var previous time.Time
		for i, w := range grid.Weeks {
			for j, c := range w {
				if i > 0 || j > 0 {
					assert.Equal(t, previous.AddDate(0, 0, 1), c.Date)
				}
				previous = c.Date
			}
		}
	})

	t.Run("should classify cells", func(t *testing.T) {
		// given
		points := []Point{
			{Date: day(2024, time.March, 5), Count: 6.5},
			{Date: day(2024, time.March, 12), Count: 9},
			{Date: day(2024, time.March, 13), Count: 1.5},
		}

		// when
		grid, err := BuildGrid(points, day(2024, time.March, 1), day(2024, time.March, 31), day(2024, time.March, 10), day(2024, time.March, 12))

		// then
		require.NoError(t, err)

		outside, _ := findCell(grid, day(2024, time.February, 28))
		assert.Equal(t, NotDisplayed, outside.State)
		assert.Equal(t, NoBucket, outside.Bucket)
		assert.Equal(t, 0.0, outside.Value)

		masked, _ := findCell(grid, day(2024, time.March, 5))
		assert.Equal(t, Inactive, masked.State)
		assert.Equal(t, 0.0, masked.Value)
		assert.Equal(t, 0, masked.Bucket)

		afterActive, _ := findCell(grid, day(2024, time.March, 13))
		assert.Equal(t, Inactive, afterActive.State)
		assert.Equal(t, 0.0, afterActive.Value)

		active, _ := findCell(grid, day(2024, time.March, 12))
		assert.Equal(t, Active, active.State)
		assert.Equal(t, 9.0, active.Value)
		assert.Equal(t, 5, active.Bucket)

		empty, _ := findCell(grid, day(2024, time.March, 11))
		assert.Equal(t, Active, empty.State)
		assert.Equal(t, 0.0, empty.Value)
		assert.Equal(t, 0, empty.Bucket)
	})

	t.Run("should be deterministic", func(t *testing.T) {
		points := []Point{{Date: day(2024, time.January, 2), Count: 3}}

		first, err := BuildGrid(points, day(2024, time.January, 1), day(2024, time.June, 30), day(2024, time.January, 1), day(2024, time.March, 31))
		require.NoError(t, err)
		second, err := BuildGrid(points, day(2024, time.January, 1), day(2024, time.June, 30), day(2024, time.January, 1), day(2024, time.March, 31))
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("should fail when display range is reversed", func(t *testing.T) {
		_, err := BuildGrid(nil, day(2024, time.March, 2), day(2024, time.March, 1), day(2024, time.March, 1), day(2024, time.March, 2))

		assert.ErrorIs(t, err, ErrInvalidRange)
	})
}

func TestMonthLabels(t *testing.T) {
	// when
	grid, err := BuildGrid(nil, day(2024, time.January, 15), day(2024, time.March, 10), day(2024, time.January, 15), day(2024, time.March, 10))

	// then
	require.NoError(t, err)
	require.Len(t, grid.MonthLabels, 3)

	assert.Equal(t, MonthLabel{WeekIndex: 0, Year: 2024, Month: time.January}, grid.MonthLabels[0])
	assert.Equal(t, "Jan", grid.MonthLabels[0].Name())
	// week of 2024-01-28 starts in January, so February is first seen in the week of 2024-02-04
	assert.Equal(t, MonthLabel{WeekIndex: 3, Year: 2024, Month: time.February}, grid.MonthLabels[1])
	assert.Equal(t, MonthLabel{WeekIndex: 7, Year: 2024, Month: time.March}, grid.MonthLabels[2])
}

func TestMonthLabels_YearBoundary(t *testing.T) {
	grid, err := BuildGrid(nil, day(2023, time.December, 20), day(2024, time.January, 20), day(2023, time.December, 20), day(2024, time.January, 20))
	require.NoError(t, err)

	require.Len(t, grid.MonthLabels, 2)
	assert.Equal(t, 2023, grid.MonthLabels[0].Year)
	assert.Equal(t, time.January, grid.MonthLabels[1].Month)
	assert.Equal(t, 2024, grid.MonthLabels[1].Year)
}

func TestDisplayRange(t *testing.T) {
	tests := []struct {
		name        string
		from        time.Time
		to          time.Time
		expectedEnd time.Time
	}{
		{"short selection is widened", day(2024, time.March, 1), day(2024, time.March, 31), day(2025, time.January, 1)},
		{"full year is kept", day(2024, time.January, 1), day(2024, time.December, 31), day(2024, time.December, 31)},
		{"nine months is widened", day(2024, time.January, 1), day(2024, time.October, 15), day(2024, time.November, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := DisplayRange(tt.from, tt.to)
			assert.Equal(t, tt.from, start)
			assert.Equal(t, tt.expectedEnd, end)
			assert.False(t, end.Before(tt.to))
		})
	}
}
