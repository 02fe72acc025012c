// Package calendar holds the date rules of the journal: editability,
// month navigation, habit history indexing and the month grid with its
// rating overlay. Dates are "YYYY-MM-DD" strings, which order correctly
// under plain string comparison.
package calendar

import (
	"fmt"
	"time"

	"github.com/julianstephens/dayreview/internal/constants"
)

const (
	WeeksPerGrid = 6
	DaysPerWeek  = 7
)

// Today returns the current date in loc.
func Today(loc *time.Location) string {
	return FormatDate(time.Now().In(loc))
}

func FormatDate(t time.Time) string {
	return t.Format(constants.DateFormat)
}

func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", s, err)
	}
	return t, nil
}

// ParseTime validates an optional HH:MM clock time. Empty input is allowed.
func ParseTime(s string) (string, error) {
	if s == "" {
		return "", nil
	}
	t, err := time.Parse(constants.TimeFormat, s)
	if err != nil {
		return "", fmt.Errorf("invalid time %q, expected HH:MM: %w", s, err)
	}
	return t.Format(constants.TimeFormat), nil
}

// IsEditable reports whether tasks on date may be added or edited.
func IsEditable(date, today string) bool {
	return date >= today
}

// IsPast reports whether date is strictly before today.
func IsPast(date, today string) bool {
	return date < today
}

// SnapToMonth returns the date to select when the view moves to year/month:
// today when that is the current month, otherwise the first of the month.
func SnapToMonth(today string, year int, month time.Month) string {
	if t, err := ParseDate(today); err == nil && t.Year() == year && t.Month() == month {
		return today
	}
	return FormatDate(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC))
}

// ChangeMonth moves to month within the year of the selected date, or of
// today when the selection is unset.
func ChangeMonth(today, selected string, month time.Month) string {
	t, err := ParseDate(selected)
	if err != nil {
		t, _ = ParseDate(today)
	}
	return SnapToMonth(today, t.Year(), month)
}

// ShiftMonth moves the selection delta months forward or back.
func ShiftMonth(today, selected string, delta int) string {
	t, err := ParseDate(selected)
	if err != nil {
		t, _ = ParseDate(today)
	}
	first := time.Date(t.Year(), t.Month()+time.Month(delta), 1, 0, 0, 0, 0, time.UTC)
	return SnapToMonth(today, first.Year(), first.Month())
}

// HistoryIndex returns the habit history slot for date (day of month - 1).
func HistoryIndex(date string) (int, error) {
	t, err := ParseDate(date)
	if err != nil {
		return 0, err
	}
	return t.Day() - 1, nil
}

// Cell is one day slot of a month grid. Cells outside the month have an
// empty Date.
type Cell struct {
	Date   string
	Day    int
	MoodID int
	Rated  bool
}

func (c Cell) InMonth() bool {
	return c.Date != ""
}

// Grid is a Sunday-first month view with a fixed number of week rows.
type Grid struct {
	Year  int
	Month time.Month
	Weeks [WeeksPerGrid][DaysPerWeek]Cell
}

// Month lays out year/month and overlays ratings, a date to mood id map.
func Month(year int, month time.Month, ratings map[string]int) Grid {
	g := Grid{Year: year, Month: month}

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	offset := int(first.Weekday())
	days := first.AddDate(0, 1, -1).Day()

	for day := 1; day <= days; day++ {
		slot := offset + day - 1
		date := FormatDate(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
		moodID, rated := ratings[date]
		g.Weeks[slot/DaysPerWeek][slot%DaysPerWeek] = Cell{
			Date:   date,
			Day:    day,
			MoodID: moodID,
			Rated:  rated,
		}
	}
	return g
}

// Find returns the cell for date, if it falls in the grid's month.
func (g Grid) Find(date string) (Cell, bool) {
	if date == "" {
		return Cell{}, false
	}
	for _, week := range g.Weeks {
		for _, c := range week {
			if c.Date == date {
				return c, true
			}
		}
	}
	return Cell{}, false
}
