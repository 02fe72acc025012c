package views

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/dayreview/internal/calendar"
	"github.com/julianstephens/dayreview/internal/models"
	"github.com/julianstephens/dayreview/internal/review"
	"github.com/julianstephens/dayreview/internal/storage/sqlite"
)

func TestMonthSelection(t *testing.T) {
	today := "2024-06-15"
	tests := []struct {
		name string
		cmd  MonthCmd
		want string
	}{
		{"current month keeps today", MonthCmd{}, "2024-06-15"},
		{"other month lands on the first", MonthCmd{Month: 2}, "2024-02-01"},
		{"year and month", MonthCmd{Year: 2023, Month: 6}, "2023-06-01"},
		{"previous month", MonthCmd{Offset: -1}, "2024-05-01"},
		{"offset across a year", MonthCmd{Month: 12, Offset: 1}, "2025-01-01"},
		{"offset back to today", MonthCmd{Month: 5, Offset: 1}, "2024-06-15"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.cmd.selection(today)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("selection = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestMonthValidate(t *testing.T) {
	if err := (&MonthCmd{Month: 13}).Validate(); err == nil {
		t.Error("expected month 13 to be rejected")
	}
	if err := (&MonthCmd{Month: 12}).Validate(); err != nil {
		t.Errorf("month 12: %v", err)
	}
}

func TestRenderMonth(t *testing.T) {
	g := calendar.Month(2024, time.February, map[string]int{"2024-02-10": 4})
	out := renderMonth(g, models.DefaultMoodConfigs(), "2024-02-15", "2024-02-15")

	if !strings.Contains(out, "February 2024") {
		t.Errorf("missing title:\n%s", out)
	}
	if !strings.Contains(out, "29") {
		t.Errorf("leap day missing:\n%s", out)
	}
	if strings.Contains(out, "30") {
		t.Errorf("February should not have a 30th:\n%s", out)
	}
	// title, weekday header and six week rows
	if lines := strings.Count(out, "\n") + 1; lines != 2+calendar.WeeksPerGrid {
		t.Errorf("got %d lines, want %d", lines, 2+calendar.WeeksPerGrid)
	}
}

func TestRenderLegendSkipsHidden(t *testing.T) {
	moods := models.DefaultMoodConfigs()
	moods[0].IsVisible = false
	out := renderLegend(moods)
	if strings.Contains(out, "Awful") {
		t.Errorf("hidden mood in legend: %s", out)
	}
	if !strings.Contains(out, "Good") {
		t.Errorf("visible mood missing from legend: %s", out)
	}
}

// harness runs the commands a watchModel returns and feeds their messages
// back into it, the way a tea.Program would.
type harness struct {
	t    *testing.T
	m    watchModel
	msgs chan tea.Msg
}

func newHarness(t *testing.T, m watchModel) *harness {
	h := &harness{t: t, m: m, msgs: make(chan tea.Msg, 256)}
	h.run(m.Init())
	return h
}

func (h *harness) run(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	go func() { h.msgs <- cmd() }()
}

func (h *harness) send(msg tea.Msg) tea.Cmd {
	next, cmd := h.m.Update(msg)
	h.m = next.(watchModel)
	return cmd
}

// until processes messages until the model satisfies pred.
func (h *harness) until(pred func(watchModel) bool) watchModel {
	h.t.Helper()
	timeout := time.After(5 * time.Second)
	for !pred(h.m) {
		select {
		case msg := <-h.msgs:
			if batch, ok := msg.(tea.BatchMsg); ok {
				for _, cmd := range batch {
					h.run(cmd)
				}
				continue
			}
			h.run(h.send(msg))
		case <-timeout:
			h.t.Fatal("timed out waiting for dashboard")
		}
	}
	return h.m
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func setupWatchSession(t *testing.T) (*review.Session, *review.Service) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "dayreview.db"))
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() }) //nolint:errcheck

	now := func() time.Time { return time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC) }
	svc := review.NewService(store, nil, review.WithClock(now), review.WithLocation(time.UTC))

	session := review.NewSession(context.Background(), svc)
	t.Cleanup(func() { session.Close() }) //nolint:errcheck
	return session, svc
}

func TestWatchModelRedrawsOnChange(t *testing.T) {
	session, svc := setupWatchSession(t)
	h := newHarness(t, newWatchModel(session, svc.Today))

	if view := h.m.View(); !strings.Contains(view, "Loading") {
		t.Errorf("expected a loading frame before the views report:\n%s", view)
	}

	first := h.until(func(m watchModel) bool { return m.drawable() && m.dash.Date == "2024-06-15" })
	if first.dash.Grid.Month != time.June || first.dash.Today != "2024-06-15" {
		t.Errorf("unexpected first frame: %+v", first.dash)
	}
	if view := first.View(); !strings.Contains(view, "June 2024") || !strings.Contains(view, "quit") {
		t.Errorf("first frame missing month or key help:\n%s", view)
	}

	session.AddTask("water plants", "")
	m := h.until(func(m watchModel) bool { return len(m.dash.Tasks) == 1 })
	if m.dash.Tasks[0].Title != "water plants" {
		t.Errorf("task = %+v", m.dash.Tasks[0])
	}
	if view := m.View(); !strings.Contains(view, "water plants") {
		t.Errorf("view missing task:\n%s", view)
	}
}

func TestWatchModelNavigates(t *testing.T) {
	session, svc := setupWatchSession(t)
	h := newHarness(t, newWatchModel(session, svc.Today))
	h.until(func(m watchModel) bool { return m.drawable() })

	h.send(keyPress("right"))
	h.until(func(m watchModel) bool { return m.drawable() && m.dash.Date == "2024-06-16" })

	h.send(keyPress("["))
	m := h.until(func(m watchModel) bool { return m.drawable() && m.dash.Date == "2024-05-01" })
	if m.dash.Grid.Month != time.May {
		t.Errorf("grid month = %s, want May", m.dash.Grid.Month)
	}
	if !strings.Contains(m.View(), "(read-only)") {
		t.Errorf("past day not marked read-only:\n%s", m.View())
	}

	h.send(keyPress("t"))
	h.until(func(m watchModel) bool { return m.drawable() && m.dash.Date == "2024-06-15" })
}

func TestWatchModelQuits(t *testing.T) {
	session, svc := setupWatchSession(t)
	m := newWatchModel(session, svc.Today)

	for _, k := range []string{"q", "ctrl+c"} {
		_, cmd := m.Update(keyPress(k))
		if cmd == nil {
			t.Fatalf("%s: no command returned", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s did not quit", k)
		}
	}

	// a view ending also ends the program
	_, cmd := m.Update(viewClosedMsg{name: "tasks"})
	if cmd == nil {
		t.Fatal("closed view: no command returned")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("closed view did not quit")
	}
}
