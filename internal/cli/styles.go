package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/dayreview/internal/models"
)

var (
	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	FaintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	DoneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Strikethrough(true)
	GhostStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Italic(true)
	TodayStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
)

// ColorStyle returns a foreground style for an ARGB color.
func ColorStyle(argb uint32) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(models.HexColor(argb)))
}

// Swatch renders a small block in the given ARGB color.
func Swatch(argb uint32) string {
	return ColorStyle(argb).Render("■")
}

// FormatTask renders a task as a checklist line.
func FormatTask(t models.Task) string {
	box := "[ ]"
	title := t.Title
	if t.IsDone {
		box = "[x]"
		title = DoneStyle.Render(title)
	}
	line := fmt.Sprintf("%4d %s %s", t.ID, box, title)
	if t.HasTime() {
		line += " " + FaintStyle.Render("@ "+t.Time)
	}
	return line
}

// FormatHabit renders a habit with its streak and history heatmap.
func FormatHabit(h models.Habit) string {
	box := "[ ]"
	if h.IsDoneToday {
		box = "[x]"
	}

	var heat strings.Builder
	color := ColorStyle(h.ColorARGB)
	for _, done := range h.History {
		if done {
			heat.WriteString(color.Render("■"))
		} else {
			heat.WriteString(FaintStyle.Render("·"))
		}
	}

	return fmt.Sprintf("%4d %s %s %s  streak %d  %s",
		h.ID, box, Swatch(h.ColorARGB), h.Title, h.Streak, heat.String())
}

// FormatMood renders a mood config entry.
func FormatMood(c models.MoodConfig) string {
	label := c.Label
	if !c.IsVisible {
		label = FaintStyle.Render(label + " (hidden)")
	}
	return fmt.Sprintf("%2d %s %-10s %s %s", c.ID, Swatch(c.ColorARGB), label, models.HexColor(c.ColorARGB), FaintStyle.Render(c.IconRef))
}
