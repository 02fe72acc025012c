package views

import (
	"fmt"
	"time"

	"github.com/julianstephens/dayreview/internal/calendar"
	"github.com/julianstephens/dayreview/internal/cli"
)

type MonthCmd struct {
	Year   int `help:"Year to show. Defaults to the current year."`
	Month  int `short:"m" help:"Month to show (1-12). Defaults to the current month."`
	Offset int `short:"o" help:"Months to move from the chosen month, e.g. -1 for the previous one."`
}

func (c *MonthCmd) Validate() error {
	if c.Month < 0 || c.Month > 12 {
		return fmt.Errorf("--month must be between 1 and 12")
	}
	return nil
}

func (c *MonthCmd) Run(ctx *cli.Context) error {
	today := ctx.Service.Today()
	selected, err := c.selection(today)
	if err != nil {
		return err
	}
	t, err := calendar.ParseDate(selected)
	if err != nil {
		return err
	}

	ratings, err := ctx.Service.RatingsByDate(ctx.Context())
	if err != nil {
		return fmt.Errorf("failed to load ratings: %w", err)
	}
	moods, err := ctx.Service.MoodConfigs(ctx.Context())
	if err != nil {
		return fmt.Errorf("failed to load moods: %w", err)
	}

	grid := calendar.Month(t.Year(), t.Month(), ratings)
	ctx.Println(renderMonth(grid, moods, today, selected))
	if legend := renderLegend(moods); legend != "" {
		ctx.Println()
		ctx.Println(legend)
	}
	return nil
}

// selection resolves the flags to the date the calendar lands on.
func (c *MonthCmd) selection(today string) (string, error) {
	t, err := calendar.ParseDate(today)
	if err != nil {
		return "", err
	}
	year, month := t.Year(), t.Month()
	if c.Year != 0 {
		year = c.Year
	}
	if c.Month != 0 {
		month = time.Month(c.Month)
	}
	selected := calendar.SnapToMonth(today, year, month)
	if c.Offset != 0 {
		selected = calendar.ShiftMonth(today, selected, c.Offset)
	}
	return selected, nil
}
