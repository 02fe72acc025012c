package calendar

import (
	"testing"
	"time"
)

func TestIsEditable(t *testing.T) {
	tests := []struct {
		date, today string
		want        bool
	}{
		{"2024-06-01", "2024-06-01", true},
		{"2024-06-02", "2024-06-01", true},
		{"2025-01-01", "2024-12-31", true},
		{"2024-05-31", "2024-06-01", false},
		{"2023-12-31", "2024-01-01", false},
	}

	for _, tt := range tests {
		if got := IsEditable(tt.date, tt.today); got != tt.want {
			t.Errorf("IsEditable(%s, %s) = %v, want %v", tt.date, tt.today, got, tt.want)
		}
		if got := IsPast(tt.date, tt.today); got == tt.want {
			t.Errorf("IsPast(%s, %s) = %v, want %v", tt.date, tt.today, got, !tt.want)
		}
	}
}

func TestSnapToMonth(t *testing.T) {
	today := "2024-06-15"
	tests := []struct {
		name  string
		year  int
		month time.Month
		want  string
	}{
		{"current month snaps to today", 2024, time.June, "2024-06-15"},
		{"other month goes to day one", 2024, time.March, "2024-03-01"},
		{"same month other year goes to day one", 2023, time.June, "2023-06-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SnapToMonth(today, tt.year, tt.month); got != tt.want {
				t.Errorf("SnapToMonth() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestChangeMonth(t *testing.T) {
	today := "2024-06-15"

	// viewing another month of the current year, returning to June lands on today
	if got := ChangeMonth(today, "2024-02-10", time.June); got != today {
		t.Errorf("ChangeMonth() = %s, want %s", got, today)
	}
	// the selected year is kept, so June of last year is day one
	if got := ChangeMonth(today, "2023-02-10", time.June); got != "2023-06-01" {
		t.Errorf("ChangeMonth() = %s, want 2023-06-01", got)
	}
	if got := ChangeMonth(today, "2024-06-15", time.August); got != "2024-08-01" {
		t.Errorf("ChangeMonth() = %s, want 2024-08-01", got)
	}

	// without a selection the year comes from today, not the wall clock
	if got := ChangeMonth("2019-03-04", "", time.July); got != "2019-07-01" {
		t.Errorf("ChangeMonth() with no selection = %s, want 2019-07-01", got)
	}
	if got := ChangeMonth("2019-03-04", "garbage", time.March); got != "2019-03-04" {
		t.Errorf("ChangeMonth() with bad selection = %s, want 2019-03-04", got)
	}
}

func TestShiftMonth(t *testing.T) {
	today := "2024-06-15"
	tests := []struct {
		selected string
		delta    int
		want     string
	}{
		{"2024-05-03", 1, "2024-06-15"},
		{"2024-06-15", 1, "2024-07-01"},
		{"2024-01-20", -1, "2023-12-01"},
		{"2024-12-31", 1, "2025-01-01"},
		{"2024-03-31", -1, "2024-02-01"},
	}

	for _, tt := range tests {
		if got := ShiftMonth(today, tt.selected, tt.delta); got != tt.want {
			t.Errorf("ShiftMonth(%s, %d) = %s, want %s", tt.selected, tt.delta, got, tt.want)
		}
	}
}

func TestHistoryIndex(t *testing.T) {
	tests := map[string]int{
		"2024-06-01": 0,
		"2024-06-15": 14,
		"2024-06-30": 29,
		"2024-07-31": 30,
	}
	for date, want := range tests {
		got, err := HistoryIndex(date)
		if err != nil {
			t.Fatalf("HistoryIndex(%s) error = %v", date, err)
		}
		if got != want {
			t.Errorf("HistoryIndex(%s) = %d, want %d", date, got, want)
		}
	}

	if _, err := HistoryIndex("06/15/2024"); err == nil {
		t.Error("expected error for malformed date")
	}
}

func TestParseTime(t *testing.T) {
	if got, err := ParseTime(""); err != nil || got != "" {
		t.Errorf("ParseTime(\"\") = %q, %v", got, err)
	}
	if got, err := ParseTime("09:30"); err != nil || got != "09:30" {
		t.Errorf("ParseTime(09:30) = %q, %v", got, err)
	}
	if _, err := ParseTime("25:00"); err == nil {
		t.Error("expected error for out of range hour")
	}
}

func TestMonthGrid(t *testing.T) {
	// June 2024 starts on a Saturday
	ratings := map[string]int{
		"2024-06-01": 4,
		"2024-06-30": 2,
		"2024-07-01": 1,
	}
	g := Month(2024, time.June, ratings)

	first := g.Weeks[0][6]
	if first.Date != "2024-06-01" || first.Day != 1 || !first.Rated || first.MoodID != 4 {
		t.Errorf("first cell = %+v", first)
	}
	for i := 0; i < 6; i++ {
		if g.Weeks[0][i].InMonth() {
			t.Errorf("cell %d before the first should be empty, got %+v", i, g.Weeks[0][i])
		}
	}

	last, ok := g.Find("2024-06-30")
	if !ok || !last.Rated || last.MoodID != 2 {
		t.Errorf("Find(2024-06-30) = %+v, %v", last, ok)
	}
	if g.Weeks[5][0] != last {
		t.Errorf("June 30 should open the sixth week, got %+v", g.Weeks[5][0])
	}

	if _, ok := g.Find("2024-07-01"); ok {
		t.Error("ratings outside the month must not appear in the grid")
	}

	unrated, _ := g.Find("2024-06-10")
	if unrated.Rated {
		t.Errorf("unexpected rating on %+v", unrated)
	}

	days := 0
	for _, week := range g.Weeks {
		for _, c := range week {
			if c.InMonth() {
				days++
			}
		}
	}
	if days != 30 {
		t.Errorf("grid holds %d days, want 30", days)
	}
}
