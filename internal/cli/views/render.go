// Package views renders the month calendar and the live day dashboard.
package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/dayreview/internal/calendar"
	"github.com/julianstephens/dayreview/internal/cli"
	"github.com/julianstephens/dayreview/internal/models"
)

var (
	cellStyle     = lipgloss.NewStyle().Width(4).Align(lipgloss.Right)
	selectedStyle = cellStyle.Reverse(true)
	panelStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// renderMonth draws a Sunday-first grid. Rated days take their mood color;
// today is underlined and selected is shown in reverse video.
func renderMonth(g calendar.Grid, moods []models.MoodConfig, today, selected string) string {
	colors := make(map[int]uint32, len(moods))
	for _, m := range moods {
		colors[m.ID] = m.ColorARGB
	}

	var b strings.Builder
	b.WriteString(cli.HeaderStyle.Render(fmt.Sprintf("%s %d", g.Month, g.Year)))
	b.WriteString("\n")
	for d := time.Sunday; d <= time.Saturday; d++ {
		b.WriteString(cellStyle.Render(d.String()[:2]))
	}
	b.WriteString("\n")

	for _, week := range g.Weeks {
		for _, c := range week {
			if !c.InMonth() {
				b.WriteString(cellStyle.Render(""))
				continue
			}
			style := cellStyle
			if c.Date == selected {
				style = selectedStyle
			}
			if color, ok := colors[c.MoodID]; ok && c.Rated {
				style = style.Foreground(lipgloss.Color(models.HexColor(color)))
			}
			if c.Date == today {
				style = style.Inherit(cli.TodayStyle)
			}
			b.WriteString(style.Render(fmt.Sprint(c.Day)))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderLegend lists the visible moods with their colors.
func renderLegend(moods []models.MoodConfig) string {
	var parts []string
	for _, m := range moods {
		if m.IsVisible {
			parts = append(parts, fmt.Sprintf("%s %d %s", cli.Swatch(m.ColorARGB), m.ID, m.Label))
		}
	}
	return strings.Join(parts, "  ")
}

// dashboard is the latest value of every live view.
type dashboard struct {
	Today  string
	Date   string
	Tasks  []models.Task
	Ghosts []models.Task
	Habits []models.Habit
	Grid   calendar.Grid
	Moods  []models.MoodConfig
}

func (d dashboard) render() string {
	var day strings.Builder
	header := d.Date
	if !calendar.IsEditable(d.Date, d.Today) {
		header += " (read-only)"
	}
	day.WriteString(cli.HeaderStyle.Render(header))
	day.WriteString("\n")
	if len(d.Tasks) == 0 {
		day.WriteString(cli.FaintStyle.Render("  no tasks"))
		day.WriteString("\n")
	}
	for _, t := range d.Tasks {
		day.WriteString(cli.FormatTask(t))
		day.WriteString("\n")
	}
	if len(d.Ghosts) > 0 {
		day.WriteString("\n")
		day.WriteString(cli.GhostStyle.Render(fmt.Sprintf("Unfinished from earlier (%d)", len(d.Ghosts))))
		day.WriteString("\n")
		for _, g := range d.Ghosts {
			day.WriteString(cli.FormatTask(g) + " " + cli.FaintStyle.Render(g.Date))
			day.WriteString("\n")
		}
	}

	month := renderMonth(d.Grid, d.Moods, d.Today, d.Date)
	if legend := renderLegend(d.Moods); legend != "" {
		month += "\n\n" + legend
	}

	top := lipgloss.JoinHorizontal(lipgloss.Top,
		panelStyle.Render(strings.TrimRight(day.String(), "\n")),
		panelStyle.Render(month))

	var habits strings.Builder
	habits.WriteString(cli.HeaderStyle.Render("Habits"))
	for _, h := range d.Habits {
		habits.WriteString("\n")
		habits.WriteString(cli.FormatHabit(h))
	}
	if len(d.Habits) == 0 {
		habits.WriteString("\n" + cli.FaintStyle.Render("  no habits"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, top, panelStyle.Render(habits.String()))
}
