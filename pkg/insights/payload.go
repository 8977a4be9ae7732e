// Package insights prepares daily totals for the work pattern coach and asks
// a generative model for its report.
package insights

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/clockheat/clockheat/internal/utils"
	"github.com/clockheat/clockheat/pkg/clockify"
	"github.com/clockheat/clockheat/pkg/summary"
)

var ErrInvalidPayload = errors.New("invalid time tracking data")

const sampleDays = 7

// DailyHours is the only shape the insight generator consumes.
type DailyHours struct {
	Date       string  `json:"date"`
	TotalHours float64 `json:"totalHours"`
}

type Range struct {
	From time.Time
	To   time.Time
}

// FormatPayload narrows entries to projectFilter, folds them into daily totals
// over rng and encodes them as an indented JSON array. Without entries or a
// range it encodes a sample week ending on now instead.
func FormatPayload(entries []clockify.TimeEntry, rng *Range, projectFilter string, now time.Time) ([]byte, error) {
	if entries == nil || rng == nil {
		return json.MarshalIndent(Sample(now), "", "  ")
	}

	days, err := summary.Aggregate(clockify.FilterByProject(entries, projectFilter), rng.From, rng.To)
	if err != nil {
		return nil, err
	}
	result := make([]DailyHours, 0, len(days))
	for _, d := range days {
		result = append(result, DailyHours{Date: utils.DayKey(d.Date), TotalHours: d.TotalHours})
	}
	return json.MarshalIndent(result, "", "  ")
}

// Sample returns seven ascending days ending on now's day. Hours are
// placeholders between 1 and 8 derived from the date, so the same day always
// yields the same sample.
func Sample(now time.Time) []DailyHours {
	today := utils.StartOfDay(now)
	result := make([]DailyHours, 0, sampleDays)
	for i := sampleDays - 1; i >= 0; i-- {
		date := today.AddDate(0, 0, -i)
		result = append(result, DailyHours{
			Date:       utils.DayKey(date),
			TotalHours: float64(date.YearDay()%8 + 1),
		})
	}
	return result
}

// ValidatePayload accepts a JSON array whose items all carry a string date and
// a numeric totalHours. An empty array is valid.
func ValidatePayload(payload string) error {
	if payload == "" {
		return fmt.Errorf("%w: no time tracking data available to analyze", ErrInvalidPayload)
	}

	var items []map[string]any
	if err := json.Unmarshal([]byte(payload), &items); err != nil {
		return fmt.Errorf("%w: data must be an array of objects: %v", ErrInvalidPayload, err)
	}
	for i, item := range items {
		if _, ok := item["date"].(string); !ok {
			return fmt.Errorf(`%w: item %d has no string "date"`, ErrInvalidPayload, i)
		}
		if _, ok := item["totalHours"].(float64); !ok {
			return fmt.Errorf(`%w: item %d has no numeric "totalHours"`, ErrInvalidPayload, i)
		}
	}
	return nil
}
