package habits

import (
	"fmt"

	"github.com/julianstephens/dayreview/internal/cli"
	"github.com/julianstephens/dayreview/internal/models"
)

type HabitCmd struct {
	Add    HabitAddCmd    `cmd:"" help:"Start tracking a habit."`
	List   HabitListCmd   `cmd:"" help:"List habits with streaks and history." default:"1"`
	Toggle HabitToggleCmd `cmd:"" help:"Mark or unmark a habit as done today."`
	Edit   HabitEditCmd   `cmd:"" help:"Rename or recolor a habit."`
	Delete HabitDeleteCmd `cmd:"" help:"Stop tracking a habit."`
}

type HabitAddCmd struct {
	Title string `arg:"" help:"Habit title."`
	Color string `short:"c" help:"Display color (#RRGGBB)." default:"#2196F3"`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	color, err := models.ParseHexColor(c.Color)
	if err != nil {
		return err
	}
	h, err := ctx.Service.AddHabit(ctx.Context(), c.Title, color)
	if err != nil {
		return err
	}
	ctx.Printf("Added habit %d\n", h.ID)
	return nil
}

type HabitListCmd struct{}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	habits, err := ctx.Service.Habits(ctx.Context())
	if err != nil {
		return fmt.Errorf("failed to list habits: %w", err)
	}
	if len(habits) == 0 {
		ctx.Println("No habits yet. Add one with 'dayreview habit add'.")
		return nil
	}
	for _, h := range habits {
		ctx.Println(cli.FormatHabit(h))
	}
	return nil
}

type HabitToggleCmd struct {
	ID int64 `arg:"" help:"Habit id."`
}

func (c *HabitToggleCmd) Run(ctx *cli.Context) error {
	h, ok, err := ctx.Service.ToggleHabit(ctx.Context(), c.ID)
	if err != nil {
		return err
	}
	if !ok {
		ctx.Printf("No habit with id %d\n", c.ID)
		return nil
	}
	ctx.Println(cli.FormatHabit(h))
	return nil
}

type HabitEditCmd struct {
	ID    int64  `arg:"" help:"Habit id."`
	Title string `help:"New title."`
	Color string `short:"c" help:"New display color (#RRGGBB)."`
}

func (c *HabitEditCmd) Run(ctx *cli.Context) error {
	current, err := ctx.Store.GetHabit(ctx.Context(), c.ID)
	if err != nil {
		return err
	}

	title := current.Title
	if c.Title != "" {
		title = c.Title
	}
	color := current.ColorARGB
	if c.Color != "" {
		if color, err = models.ParseHexColor(c.Color); err != nil {
			return err
		}
	}

	h, err := ctx.Service.EditHabit(ctx.Context(), c.ID, title, color)
	if err != nil {
		return err
	}
	ctx.Println(cli.FormatHabit(h))
	return nil
}

type HabitDeleteCmd struct {
	ID int64 `arg:"" help:"Habit id."`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	h, err := ctx.Store.GetHabit(ctx.Context(), c.ID)
	if err != nil {
		return err
	}
	ok, err := ctx.Confirm(fmt.Sprintf("Delete habit %q?", h.Title),
		fmt.Sprintf("Its %d-day streak and history will be lost.", h.Streak))
	if err != nil {
		return err
	}
	if !ok {
		ctx.Println("Delete cancelled.")
		return nil
	}

	if err := ctx.Service.DeleteHabit(ctx.Context(), c.ID); err != nil {
		return err
	}
	ctx.Printf("Deleted habit %d\n", c.ID)
	return nil
}
