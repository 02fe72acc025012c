package moods

import (
	"fmt"
	"strings"

	"github.com/julianstephens/dayreview/internal/cli"
	"github.com/julianstephens/dayreview/internal/models"
)

type MoodCmd struct {
	List MoodListCmd `cmd:"" help:"Show the mood scale." default:"1"`
	Set  MoodSetCmd  `cmd:"" help:"Show or hide a mood."`
	Edit MoodEditCmd `cmd:"" help:"Change the label, color or icon of a mood."`
}

type MoodListCmd struct{}

func (c *MoodListCmd) Run(ctx *cli.Context) error {
	configs, err := ctx.Service.MoodConfigs(ctx.Context())
	if err != nil {
		return fmt.Errorf("failed to list moods: %w", err)
	}
	if len(configs) == 0 {
		ctx.Println("No moods configured. Run 'dayreview init' first.")
		return nil
	}
	for _, m := range configs {
		ctx.Println(cli.FormatMood(m))
	}
	return nil
}

type MoodSetCmd struct {
	ID      int  `arg:"" help:"Mood id (1-5)."`
	Visible bool `help:"Show the mood when rating." negatable:"" default:"true"`
}

func (c *MoodSetCmd) Run(ctx *cli.Context) error {
	m, err := ctx.Store.GetMoodConfig(ctx.Context(), c.ID)
	if err != nil {
		return err
	}
	m.IsVisible = c.Visible
	if err := ctx.Service.UpdateMoodConfig(ctx.Context(), m); err != nil {
		return err
	}
	ctx.Println(cli.FormatMood(m))
	return nil
}

type MoodEditCmd struct {
	ID    int    `arg:"" help:"Mood id (1-5)."`
	Label string `help:"New label."`
	Color string `short:"c" help:"New color (#RRGGBB)."`
	Icon  string `help:"New icon reference."`
}

func (c *MoodEditCmd) Run(ctx *cli.Context) error {
	m, err := ctx.Store.GetMoodConfig(ctx.Context(), c.ID)
	if err != nil {
		return err
	}
	if c.Label != "" {
		m.Label = c.Label
	}
	if c.Icon != "" {
		m.IconRef = c.Icon
	}
	if c.Color != "" {
		if m.ColorARGB, err = models.ParseHexColor(c.Color); err != nil {
			return err
		}
	}

	if err := ctx.Service.UpdateMoodConfig(ctx.Context(), m); err != nil {
		return err
	}
	ctx.Println(cli.FormatMood(m))
	return nil
}

// RateCmd records today's mood.
type RateCmd struct {
	Mood string `arg:"" help:"Mood id or label."`
}

func (c *RateCmd) Run(ctx *cli.Context) error {
	configs, err := ctx.Service.MoodConfigs(ctx.Context())
	if err != nil {
		return err
	}
	id, err := resolveMood(configs, c.Mood)
	if err != nil {
		return err
	}

	r, err := ctx.Service.RateToday(ctx.Context(), id)
	if err != nil {
		return err
	}
	for _, m := range configs {
		if m.ID == r.MoodID {
			ctx.Printf("Rated %s as %s %s\n", r.Date, cli.Swatch(m.ColorARGB), m.Label)
		}
	}
	return nil
}

// resolveMood matches arg against mood ids and then labels, ignoring case.
func resolveMood(configs []models.MoodConfig, arg string) (int, error) {
	for _, m := range configs {
		if fmt.Sprint(m.ID) == arg || strings.EqualFold(m.Label, arg) {
			if !m.IsVisible {
				return 0, fmt.Errorf("mood %q is hidden", m.Label)
			}
			return m.ID, nil
		}
	}
	return 0, fmt.Errorf("unknown mood %q", arg)
}
