package views

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/dayreview/internal/calendar"
	"github.com/julianstephens/dayreview/internal/cli"
	"github.com/julianstephens/dayreview/internal/constants"
	"github.com/julianstephens/dayreview/internal/logger"
	"github.com/julianstephens/dayreview/internal/models"
	"github.com/julianstephens/dayreview/internal/review"
	"github.com/julianstephens/dayreview/internal/watch"
)

// WatchCmd keeps a dashboard of one day on screen and redraws it whenever
// the journal changes, including changes made by other processes.
type WatchCmd struct {
	Date string `arg:"" optional:"" help:"Day to show (YYYY-MM-DD, today, tomorrow, yesterday)."`
}

func (c *WatchCmd) Run(ctx *cli.Context) error {
	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx.Context())
	defer cancel()

	if path, err := ctx.DatabasePath(); err == nil {
		if err := watch.Start(runCtx, path, ctx.Service.Hub(), constants.WatchThrottle); err != nil {
			logger.Warn("file watching disabled", "error", err)
		}
	}

	session := review.NewSession(runCtx, ctx.Service)
	defer session.Close() //nolint:errcheck
	if err := session.SelectDate(date); err != nil {
		return err
	}

	opts := []tea.ProgramOption{tea.WithContext(runCtx)}
	if ctx.Out != nil {
		opts = append(opts, tea.WithOutput(ctx.Out), tea.WithInput(nil))
	} else {
		opts = append(opts, tea.WithAltScreen())
	}
	_, err = tea.NewProgram(newWatchModel(session, ctx.Service.Today), opts...).Run()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

type watchKeys struct {
	PrevDay   key.Binding
	NextDay   key.Binding
	PrevMonth key.Binding
	NextMonth key.Binding
	Today     key.Binding
	Quit      key.Binding
}

func defaultWatchKeys() watchKeys {
	return watchKeys{
		PrevDay: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "prev day"),
		),
		NextDay: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next day"),
		),
		PrevMonth: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "prev month"),
		),
		NextMonth: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next month"),
		),
		Today: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "today"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k watchKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.PrevDay, k.NextDay, k.PrevMonth, k.NextMonth, k.Today, k.Quit}
}

func (k watchKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// viewMsg carries one value from a session view into the dashboard.
type viewMsg struct {
	name  string
	apply func(*dashboard)
}

// viewClosedMsg reports that a session view ended.
type viewClosedMsg struct{ name string }

// listen returns a command that waits for the next value on ch.
func listen[T any](name string, ch <-chan T, set func(*dashboard, T)) tea.Cmd {
	return func() tea.Msg {
		v, ok := <-ch
		if !ok {
			return viewClosedMsg{name: name}
		}
		return viewMsg{name: name, apply: func(d *dashboard) { set(d, v) }}
	}
}

// watchModel folds every session view into one dashboard and redraws once
// all views have reported.
type watchModel struct {
	session *review.Session
	today   func() string
	keys    watchKeys
	help    help.Model

	dash      dashboard
	ready     map[string]bool
	listeners map[string]tea.Cmd
}

func newWatchModel(s *review.Session, today func() string) watchModel {
	return watchModel{
		session: s,
		today:   today,
		keys:    defaultWatchKeys(),
		help:    help.New(),
		ready:   map[string]bool{},
		listeners: map[string]tea.Cmd{
			"date":   listen("date", s.SelectedDates(), func(d *dashboard, v string) { d.Date = v }),
			"tasks":  listen("tasks", s.Tasks(), func(d *dashboard, v []models.Task) { d.Tasks = v }),
			"ghosts": listen("ghosts", s.GhostTasks(), func(d *dashboard, v []models.Task) { d.Ghosts = v }),
			"habits": listen("habits", s.Habits(), func(d *dashboard, v []models.Habit) { d.Habits = v }),
			"month":  listen("month", s.Month(), func(d *dashboard, v calendar.Grid) { d.Grid = v }),
			"moods":  listen("moods", s.MoodConfigs(), func(d *dashboard, v []models.MoodConfig) { d.Moods = v }),
		},
	}
}

func (m watchModel) Init() tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(m.listeners))
	for _, cmd := range m.listeners {
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case viewMsg:
		msg.apply(&m.dash)
		m.ready[msg.name] = true
		m.dash.Today = m.today()
		return m, m.listeners[msg.name]
	case viewClosedMsg:
		return m, tea.Quit
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.PrevDay):
			m.shiftDay(-1)
		case key.Matches(msg, m.keys.NextDay):
			m.shiftDay(1)
		case key.Matches(msg, m.keys.PrevMonth):
			m.session.ShiftMonth(-1)
		case key.Matches(msg, m.keys.NextMonth):
			m.session.ShiftMonth(1)
		case key.Matches(msg, m.keys.Today):
			m.session.SelectDate(m.today()) //nolint:errcheck
		}
	}
	return m, nil
}

func (m watchModel) shiftDay(delta int) {
	t, err := calendar.ParseDate(m.session.SelectedDate())
	if err != nil {
		return
	}
	m.session.SelectDate(calendar.FormatDate(t.AddDate(0, 0, delta))) //nolint:errcheck
}

// drawable holds back a frame until every view has reported and the month
// view has caught up with the selected date.
func (m watchModel) drawable() bool {
	return len(m.ready) == len(m.listeners) && gridMatches(m.dash)
}

func (m watchModel) View() string {
	if !m.drawable() {
		return cli.FaintStyle.Render("Loading...")
	}
	return m.dash.render() + "\n" + m.help.View(m.keys) + "\n"
}

// gridMatches reports whether the month view shows the selected month.
func gridMatches(d dashboard) bool {
	t, err := calendar.ParseDate(d.Date)
	if err != nil {
		return false
	}
	return d.Grid.Year == t.Year() && d.Grid.Month == t.Month()
}
