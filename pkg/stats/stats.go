// Package stats computes summary statistics and the top-project breakdown of a date range.
package stats

import (
	"time"

	"github.com/clockheat/clockheat/internal/utils"
	"github.com/clockheat/clockheat/pkg/summary"
)

const (
	NotAvailable       = "N/A"
	UnknownProject     = "Unknown Project"
	DefaultTopProjects = 5
)

// Range is an inclusive span of calendar days.
type Range struct {
	From time.Time
	To   time.Time
}

// Contains reports whether t falls on or between the range's first and last day.
func (r Range) Contains(t time.Time) bool {
	return !t.Before(utils.StartOfDay(r.From)) && !t.After(utils.EndOfDay(r.To))
}

type ProjectHours struct {
	ProjectId   string
	ProjectName string
	TotalHours  float64
	// Other is set on the synthetic row folding the projects past the top N.
	Other bool
}

type SummaryStats struct {
	TotalHours        float64
	AverageDailyHours float64
	MostProductiveDay string
	// ProjectHoursBreakdown is nil when a single project is selected.
	ProjectHoursBreakdown []ProjectHours
}

type StatsReport struct {
	Range       Range
	Days        []summary.DailySummary
	Summary     SummaryStats
	TopProjects []ProjectHours
}
