package goal

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/clockheat/clockheat/internal/utils"
	log "github.com/sirupsen/logrus"
)

var (
	ErrGoalNotFound = errors.New("goal not found")
	ErrInvalidGoal  = errors.New("invalid goal")
)

const (
	maxNameLength = 100
	minHours      = 1
	maxHours      = 5000
	// WeekStart is the first day of a weekly goal's period.
	WeekStart = time.Monday
)

type Type string

const (
	Weekly  Type = "weekly"
	Monthly Type = "monthly"
)

type Goal struct {
	Id    string
	Name  string
	Type  Type
	Hours float64
	// CustomPeriodStart and CustomPeriodEnd are ISO dates; when both parse and
	// start is not after end they replace the recurring period.
	CustomPeriodStart *string
	CustomPeriodEnd   *string
}

type Period struct {
	Start time.Time
	End   time.Time
}

func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}

// Validate checks a goal submitted by the user.
func (g Goal) Validate() error {
	name := strings.TrimSpace(g.Name)
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidGoal)
	}
	if len(name) > maxNameLength {
		return fmt.Errorf("%w: name is longer than %d characters", ErrInvalidGoal, maxNameLength)
	}
	if g.Type != Weekly && g.Type != Monthly {
		return fmt.Errorf("%w: type must be %q or %q", ErrInvalidGoal, Weekly, Monthly)
	}
	if g.Hours < minHours || g.Hours > maxHours {
		return fmt.Errorf("%w: hours must be between %d and %d", ErrInvalidGoal, minHours, maxHours)
	}

	hasStart := g.CustomPeriodStart != nil && *g.CustomPeriodStart != ""
	hasEnd := g.CustomPeriodEnd != nil && *g.CustomPeriodEnd != ""
	if hasStart != hasEnd {
		return fmt.Errorf("%w: a custom period needs both a start and an end", ErrInvalidGoal)
	}
	if hasStart {
		if _, ok := customPeriod(g, time.UTC); !ok {
			return fmt.Errorf("%w: custom period end must be a date on or after its start", ErrInvalidGoal)
		}
	}
	return nil
}

// ResolvePeriod returns the window a goal is measured over at now. A custom
// period that cannot be used falls back to the recurring one.
func ResolvePeriod(g Goal, now time.Time) Period {
	if g.CustomPeriodStart != nil || g.CustomPeriodEnd != nil {
		if period, ok := customPeriod(g, now.Location()); ok {
			return period
		}
		log.Warnf("Goal %s has an unusable custom period, using its %s period", g.Id, g.Type)
	}

	if g.Type == Monthly {
		return Period{Start: utils.StartOfMonth(now), End: utils.EndOfMonth(now)}
	}
	return Period{Start: utils.StartOfWeek(now, WeekStart), End: utils.EndOfWeek(now, WeekStart)}
}

func customPeriod(g Goal, loc *time.Location) (Period, bool) {
	if g.CustomPeriodStart == nil || g.CustomPeriodEnd == nil {
		return Period{}, false
	}
	start, err := parseDay(*g.CustomPeriodStart, loc)
	if err != nil {
		return Period{}, false
	}
	end, err := parseDay(*g.CustomPeriodEnd, loc)
	if err != nil {
		return Period{}, false
	}
	if end.Before(start) {
		return Period{}, false
	}
	return Period{Start: utils.StartOfDay(start), End: utils.EndOfDay(end)}, true
}

// parseDay accepts a plain date or a full RFC 3339 timestamp.
func parseDay(value string, loc *time.Location) (time.Time, error) {
	if t, err := utils.ParseDate(value, loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, err
	}
	return t.In(loc), nil
}

// Progress is the state of one goal in its current period.
type Progress struct {
	Goal         Goal
	Period       Period
	TrackedHours float64
	// Error is set when the goal's entries could not be loaded; TrackedHours is then 0.
	Error string
}

func (p Progress) Percent() float64 {
	if p.Goal.Hours <= 0 {
		return 0
	}
	return min(p.TrackedHours/p.Goal.Hours*100, 100)
}

func (p Progress) Achieved() bool {
	return p.Error == "" && p.Goal.Hours > 0 && p.TrackedHours/p.Goal.Hours >= 1
}
