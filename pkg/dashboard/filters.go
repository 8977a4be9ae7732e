package dashboard

import (
	"context"
	"time"

	"github.com/clockheat/clockheat/internal/utils"
	"github.com/clockheat/clockheat/pkg/clockify"
	"github.com/clockheat/clockheat/pkg/settings"
	log "github.com/sirupsen/logrus"
)

// Filters select what the dashboard shows. From and To are calendar days,
// both inclusive.
type Filters struct {
	WorkspaceId string
	ProjectId   string
	From        time.Time
	To          time.Time
}

// DefaultFilters covers the calendar year containing now, every project.
func DefaultFilters(now time.Time) Filters {
	return Filters{
		ProjectId: clockify.AllProjects,
		From:      utils.StartOfYear(now),
		To:        utils.StartOfDay(utils.EndOfYear(now)),
	}
}

// Normalize pins the range to whole days in loc and replaces a missing or
// inverted range with the current year.
func (f Filters) Normalize(now time.Time, loc *time.Location) Filters {
	if f.ProjectId == "" {
		f.ProjectId = clockify.AllProjects
	}
	if f.From.IsZero() || f.To.IsZero() || utils.DayKey(f.To.In(loc)) < utils.DayKey(f.From.In(loc)) {
		if !f.From.IsZero() || !f.To.IsZero() {
			log.Warnf("Invalid date range %s..%s, using the current year", utils.DayKey(f.From), utils.DayKey(f.To))
		}
		year := DefaultFilters(now.In(loc))
		f.From, f.To = year.From, year.To
		return f
	}
	f.From = utils.StartOfDay(f.From.In(loc))
	f.To = utils.StartOfDay(f.To.In(loc))
	return f
}

// FilterStore remembers the last filters applied successfully.
type FilterStore struct {
	store settings.Store
	loc   *time.Location
}

func NewFilterStore(store settings.Store, loc *time.Location) *FilterStore {
	return &FilterStore{store: store, loc: loc}
}

// Load returns the stored filters. Missing or unreadable values are left zero
// so that Normalize can fill them in.
func (s *FilterStore) Load(ctx context.Context) (Filters, error) {
	var f Filters
	var err error
	if f.WorkspaceId, err = settings.GetOrDefault(ctx, s.store, settings.KeyWorkspaceId, ""); err != nil {
		return Filters{}, err
	}
	if f.ProjectId, err = settings.GetOrDefault(ctx, s.store, settings.KeyProjectId, clockify.AllProjects); err != nil {
		return Filters{}, err
	}
	from, err := settings.GetOrDefault(ctx, s.store, settings.KeyDateRangeFrom, "")
	if err != nil {
		return Filters{}, err
	}
	to, err := settings.GetOrDefault(ctx, s.store, settings.KeyDateRangeTo, "")
	if err != nil {
		return Filters{}, err
	}
	if from != "" && to != "" {
		fromDate, fromErr := utils.ParseDate(from, s.loc)
		toDate, toErr := utils.ParseDate(to, s.loc)
		if fromErr != nil || toErr != nil {
			log.Warnf("Ignoring stored date range %q..%q", from, to)
		} else {
			f.From, f.To = fromDate, toDate
		}
	}
	return f, nil
}

func (s *FilterStore) Save(ctx context.Context, f Filters) error {
	values := []struct {
		key   string
		value string
	}{
		{settings.KeyWorkspaceId, f.WorkspaceId},
		{settings.KeyProjectId, f.ProjectId},
		{settings.KeyDateRangeFrom, utils.DayKey(f.From)},
		{settings.KeyDateRangeTo, utils.DayKey(f.To)},
	}
	for _, v := range values {
		if err := s.store.Set(ctx, v.key, v.value); err != nil {
			return err
		}
	}
	return nil
}
