package stats

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/clockheat/clockheat/internal/utils"
	"github.com/clockheat/clockheat/pkg/clockify"
	"github.com/clockheat/clockheat/pkg/dashboard"
	"github.com/clockheat/clockheat/pkg/summary"
	log "github.com/sirupsen/logrus"
)

var ErrNotReady = errors.New("dashboard data is not loaded yet")

// canonical order used to break ties between weekdays
var weekdays = []time.Weekday{
	time.Sunday, time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday,
}

type StatsService interface {
	GetStats(ctx context.Context) (StatsReport, error)
}

type SnapshotSource interface {
	Snapshot() dashboard.Snapshot
}

type StatsServiceImpl struct {
	source SnapshotSource
}

func NewStatsServiceImpl(source SnapshotSource) *StatsServiceImpl {
	return &StatsServiceImpl{source: source}
}

// GetStats summarizes whatever the dashboard currently shows.
func (s *StatsServiceImpl) GetStats(ctx context.Context) (StatsReport, error) {
	snapshot := s.source.Snapshot()
	if snapshot.State != dashboard.Ready {
		log.Debugf("Stats requested while dashboard is %s", snapshot.State)
		return StatsReport{}, fmt.Errorf("%w: %s", ErrNotReady, snapshot.State)
	}
	return Report(snapshot.Days, snapshot.Entries, snapshot.Projects, Range{From: snapshot.Filters.From, To: snapshot.Filters.To}, snapshot.Filters.ProjectId), nil
}

func Report(days []summary.DailySummary, entries []clockify.TimeEntry, projects []clockify.Project, active Range, projectFilter string) StatsReport {
	stats := Summarize(days, entries, projects, active, projectFilter)
	return StatsReport{
		Range:       active,
		Days:        days,
		Summary:     stats,
		TopProjects: TopProjects(stats.ProjectHoursBreakdown, DefaultTopProjects),
	}
}

func Summarize(days []summary.DailySummary, entries []clockify.TimeEntry, projects []clockify.Project, active Range, projectFilter string) SummaryStats {
	total := summary.TotalHours(days)

	tracked := 0
	for _, d := range days {
		if d.TotalHours > 0 {
			tracked++
		}
	}
	average := 0.0
	if tracked > 0 {
		average = utils.RoundHours(total / float64(tracked))
	}

	stats := SummaryStats{
		TotalHours:        total,
		AverageDailyHours: average,
		MostProductiveDay: MostProductiveDay(days),
	}
	if clockify.IsAllProjects(projectFilter) {
		stats.ProjectHoursBreakdown = ProjectBreakdown(entries, projects, active)
	}
	return stats
}

// MostProductiveDay picks the weekday with the highest average over its
// tracked occurrences. Ties go to the earlier weekday, Sunday first.
func MostProductiveDay(days []summary.DailySummary) string {
	var hours [7]float64
	var counts [7]int
	for _, d := range days {
		if d.TotalHours <= 0 {
			continue
		}
		wd := d.Date.Weekday()
		hours[wd] += d.TotalHours
		counts[wd]++
	}

	best := NotAvailable
	bestAverage := 0.0
	for _, wd := range weekdays {
		if counts[wd] == 0 {
			continue
		}
		avg := hours[wd] / float64(counts[wd])
		if avg > bestAverage {
			bestAverage = avg
			best = wd.String()
		}
	}
	return best
}

// ProjectBreakdown sums hours per project for entries starting inside the
// active range. Unassigned entries are left out; unknown ids keep a placeholder name.
func ProjectBreakdown(entries []clockify.TimeEntry, projects []clockify.Project, active Range) []ProjectHours {
	names := clockify.ProjectNames(projects)

	order := make([]string, 0)
	seconds := make(map[string]int64)
	for _, e := range entries {
		if e.ProjectId == nil || !active.Contains(e.TimeInterval.Start) {
			continue
		}
		elapsed := e.ElapsedSeconds()
		if elapsed <= 0 {
			continue
		}
		id := *e.ProjectId
		if _, ok := seconds[id]; !ok {
			order = append(order, id)
		}
		seconds[id] += elapsed
	}

	breakdown := make([]ProjectHours, 0, len(order))
	for _, id := range order {
		name, ok := names[id]
		if !ok {
			name = UnknownProject
		}
		breakdown = append(breakdown, ProjectHours{
			ProjectId:   id,
			ProjectName: name,
			TotalHours:  utils.RoundHours(utils.SecondsToHours(seconds[id])),
		})
	}
	sort.SliceStable(breakdown, func(i, j int) bool {
		return breakdown[i].TotalHours > breakdown[j].TotalHours
	})
	return breakdown
}

// TopProjects keeps the first n rows of a sorted breakdown and folds the rest
// into a single "Other (k projects)" row.
func TopProjects(breakdown []ProjectHours, n int) []ProjectHours {
	if len(breakdown) <= n {
		return breakdown
	}
	top := make([]ProjectHours, 0, n+1)
	top = append(top, breakdown[:n]...)

	rest := breakdown[n:]
	hours := 0.0
	for _, p := range rest {
		hours += p.TotalHours
	}
	return append(top, ProjectHours{
		ProjectName: fmt.Sprintf("Other (%d projects)", len(rest)),
		TotalHours:  utils.RoundHours(hours),
		Other:       true,
	})
}
