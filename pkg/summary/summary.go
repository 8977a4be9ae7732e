// Package summary folds time entries into dense per-day totals.
package summary

import (
	"errors"
	"fmt"
	"time"

	"github.com/clockheat/clockheat/internal/utils"
	"github.com/clockheat/clockheat/pkg/clockify"
	"github.com/clockheat/clockheat/pkg/heatmap"
)

var ErrInvalidRange = errors.New("invalid date range")

type DailySummary struct {
	// Date is midnight of the calendar day in the range's location.
	Date       time.Time
	TotalHours float64
}

// Aggregate credits every entry with positive elapsed time to the calendar day
// of its start, in the location of from, and returns one summary per day of
// [from, to], zero-filled. Days are rounded to two decimals after summing.
func Aggregate(entries []clockify.TimeEntry, from, to time.Time) ([]DailySummary, error) {
	loc := from.Location()
	start := utils.StartOfDay(from)
	end := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, loc)
	if end.Before(start) {
		return nil, fmt.Errorf("%w: %s is before %s", ErrInvalidRange, utils.DayKey(end), utils.DayKey(start))
	}

	seconds := make(map[string]int64)
	for _, e := range entries {
		elapsed := e.ElapsedSeconds()
		if elapsed <= 0 {
			continue
		}
		day := utils.StartOfDay(e.TimeInterval.Start.In(loc))
		if day.Before(start) || day.After(end) {
			continue
		}
		seconds[utils.DayKey(day)] += elapsed
	}

	days := make([]DailySummary, 0, utils.DaysBetween(start, end)+1)
	for date := start; !date.After(end); date = date.AddDate(0, 0, 1) {
		days = append(days, DailySummary{
			Date:       date,
			TotalHours: utils.RoundHours(utils.SecondsToHours(seconds[utils.DayKey(date)])),
		})
	}
	return days, nil
}

func ToHeatmapPoints(days []DailySummary) []heatmap.Point {
	points := make([]heatmap.Point, 0, len(days))
	for _, d := range days {
		points = append(points, heatmap.Point{Date: d.Date, Count: d.TotalHours})
	}
	return points
}

// TotalHours sums the days and rounds the result to two decimals.
func TotalHours(days []DailySummary) float64 {
	total := 0.0
	for _, d := range days {
		total += d.TotalHours
	}
	return utils.RoundHours(total)
}
