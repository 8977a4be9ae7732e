// Package heatmap lays daily totals out as a week-column calendar grid.
package heatmap

import (
	"errors"
	"fmt"
	"time"

	"github.com/clockheat/clockheat/internal/utils"
)

var ErrInvalidRange = errors.New("invalid display range")

// WeekStart is the first column of every grid row.
const WeekStart = time.Sunday

// NoBucket marks cells that are not displayed at all.
const NoBucket = -1

// minDisplayMonths is how far past the selected start the grid reaches when the
// selection itself is shorter.
const minDisplayMonths = 10

type Point struct {
	Date  time.Time
	Count float64
}

type CellState int

const (
	NotDisplayed CellState = iota
	Inactive
	Active
)

func (s CellState) String() string {
	switch s {
	case NotDisplayed:
		return "not_displayed"
	case Inactive:
		return "inactive"
	case Active:
		return "active"
	}
	return fmt.Sprintf("CellState(%d)", int(s))
}

func (s CellState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

type Cell struct {
	Date   time.Time
	Value  float64
	State  CellState
	Bucket int
}

type Week [7]Cell

type MonthLabel struct {
	WeekIndex int
	Year      int
	Month     time.Month
}

func (l MonthLabel) Name() string {
	return l.Month.String()[:3]
}

type Grid struct {
	Start       time.Time
	End         time.Time
	Weeks       []Week
	MonthLabels []MonthLabel
}

// Bucket maps hours to a color tier: 0, (0,2], (2,4], (4,6], (6,8], above 8.
func Bucket(hours float64) int {
	switch {
	case hours <= 0:
		return 0
	case hours <= 2:
		return 1
	case hours <= 4:
		return 2
	case hours <= 6:
		return 3
	case hours <= 8:
		return 4
	default:
		return 5
	}
}

// BuildGrid lays [displayStart, displayEnd] out in whole weeks. Only days inside
// [activeStart, activeEnd] carry their value; other displayed days read as zero.
// All bounds are compared as calendar days in the location of displayStart.
func BuildGrid(points []Point, displayStart, displayEnd, activeStart, activeEnd time.Time) (Grid, error) {
	loc := displayStart.Location()
	dStart := calendarDay(displayStart, loc)
	dEnd := calendarDay(displayEnd, loc)
	if dEnd.Before(dStart) {
		return Grid{}, fmt.Errorf("%w: %s is before %s", ErrInvalidRange, utils.DayKey(dEnd), utils.DayKey(dStart))
	}
	aStart := calendarDay(activeStart, loc)
	aEnd := calendarDay(activeEnd, loc)

	values := make(map[string]float64, len(points))
	for _, p := range points {
		values[utils.DayKey(p.Date)] = p.Count
	}

	gridStart := utils.StartOfWeek(dStart, WeekStart)
	gridEnd := utils.StartOfWeek(dEnd, WeekStart).AddDate(0, 0, 6)

	weeks := make([]Week, 0, utils.DaysBetween(gridStart, gridEnd)/7+1)
	for weekStart := gridStart; !weekStart.After(gridEnd); weekStart = weekStart.AddDate(0, 0, 7) {
		var week Week
		for i := range week {
			date := weekStart.AddDate(0, 0, i)
			week[i] = classify(date, values, dStart, dEnd, aStart, aEnd)
		}
		weeks = append(weeks, week)
	}

	return Grid{
		Start:       gridStart,
		End:         gridEnd,
		Weeks:       weeks,
		MonthLabels: MonthLabels(weeks),
	}, nil
}

func classify(date time.Time, values map[string]float64, dStart, dEnd, aStart, aEnd time.Time) Cell {
	if !within(date, dStart, dEnd) {
		return Cell{Date: date, State: NotDisplayed, Bucket: NoBucket}
	}
	if !within(date, aStart, aEnd) {
		return Cell{Date: date, State: Inactive, Bucket: 0}
	}
	value := values[utils.DayKey(date)]
	return Cell{Date: date, Value: value, State: Active, Bucket: Bucket(value)}
}

// MonthLabels emits a label at the first week whose earliest displayed day
// falls in a month not labelled yet.
func MonthLabels(weeks []Week) []MonthLabel {
	labels := make([]MonthLabel, 0)
	seen := make(map[[2]int]bool)
	for i, week := range weeks {
		for _, cell := range week {
			if cell.State == NotDisplayed {
				continue
			}
			key := [2]int{cell.Date.Year(), int(cell.Date.Month())}
			if !seen[key] {
				seen[key] = true
				labels = append(labels, MonthLabel{WeekIndex: i, Year: key[0], Month: cell.Date.Month()})
			}
			break
		}
	}
	return labels
}

// DisplayRange widens a short selection so the grid always shows at least ten
// months from the selected start. It never ends before the selection.
func DisplayRange(from, to time.Time) (time.Time, time.Time) {
	end := to
	if utils.MonthsBetween(from, to) < minDisplayMonths {
		end = from.AddDate(0, minDisplayMonths, 0)
	}
	if end.Before(to) {
		end = to
	}
	return from, end
}

func calendarDay(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

func within(day, start, end time.Time) bool {
	return !day.Before(start) && !day.After(end)
}
