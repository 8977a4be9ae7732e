package dashboard

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/clockheat/clockheat/internal/utils"
	"github.com/clockheat/clockheat/pkg/clockify"
)

const (
	NoProject        = "No Project"
	UnknownProject   = "Unknown Project"
	DefaultColor     = "#808080"
	DurationNotKnown = "N/A"
)

// DayEntry is a time entry prepared for the day details view.
type DayEntry struct {
	Id           string
	Description  string
	ProjectId    string
	ProjectName  string
	ProjectColor string
	Start        time.Time
	End          *time.Time
	// Duration is HH:MM:SS, or N/A for a running entry without a duration.
	Duration string
}

// EntriesForDay fetches the entries that started on date for the loaded user
// and workspace, honoring the current project filter.
func (p *Pipeline) EntriesForDay(ctx context.Context, date time.Time) ([]DayEntry, error) {
	scope, err := p.ResolveScope(ctx)
	if err != nil {
		return nil, err
	}
	snapshot := p.Snapshot()

	date = date.In(p.loc)
	entries, err := p.client.GetTimeEntries(ctx, clockify.TimeEntriesQuery{
		Scope:     scope,
		Start:     utils.StartOfDay(date),
		End:       utils.EndOfDay(date),
		ProjectId: snapshot.Filters.ProjectId,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load entries for %s: %w", utils.DayKey(date), err)
	}
	entries = clockify.FilterByProject(entries, snapshot.Filters.ProjectId)

	result := make([]DayEntry, 0, len(entries))
	for _, e := range entries {
		if !utils.SameDay(e.TimeInterval.Start.In(p.loc), date) {
			continue
		}
		result = append(result, ToDayEntry(e, snapshot.Projects, p.loc))
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Start.Before(result[j].Start)
	})
	return result, nil
}

// ToDayEntry resolves the project label from the hydrated entry first, then
// from the project list.
func ToDayEntry(e clockify.TimeEntry, projects []clockify.Project, loc *time.Location) DayEntry {
	entry := DayEntry{
		Id:           e.Id,
		Description:  e.Description,
		ProjectId:    e.ProjectKey(),
		ProjectColor: DefaultColor,
		Start:        e.TimeInterval.Start.In(loc),
		Duration:     FormatDuration(e),
	}
	if e.TimeInterval.End != nil {
		end := e.TimeInterval.End.In(loc)
		entry.End = &end
	}

	switch {
	case e.Project != nil && e.Project.Name != "":
		entry.ProjectName = e.Project.Name
		if e.Project.Color != "" {
			entry.ProjectColor = e.Project.Color
		}
	case e.ProjectId == nil:
		entry.ProjectName = NoProject
	default:
		entry.ProjectName = UnknownProject
		for _, p := range projects {
			if p.Id == *e.ProjectId {
				entry.ProjectName = p.Name
				if p.Color != "" {
					entry.ProjectColor = p.Color
				}
				break
			}
		}
	}
	return entry
}

func FormatDuration(e clockify.TimeEntry) string {
	if e.TimeInterval.End == nil && e.TimeInterval.Duration == nil {
		return DurationNotKnown
	}
	seconds := e.ElapsedSeconds()
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, seconds%3600/60, seconds%60)
}
