package tasks

import (
	"fmt"

	"github.com/julianstephens/dayreview/internal/calendar"
	"github.com/julianstephens/dayreview/internal/cli"
	"github.com/julianstephens/dayreview/internal/models"
)

type TaskCmd struct {
	Add    TaskAddCmd    `cmd:"" help:"Add a task to a day."`
	List   TaskListCmd   `cmd:"" help:"List the tasks of a day." default:"1"`
	Done   TaskDoneCmd   `cmd:"" help:"Mark a task done."`
	Undo   TaskUndoCmd   `cmd:"" help:"Reopen a done task."`
	Toggle TaskToggleCmd `cmd:"" help:"Flip a task between done and open."`
	Edit   TaskEditCmd   `cmd:"" help:"Change the title or time of a task."`
	Move   TaskMoveCmd   `cmd:"" help:"Reschedule a task onto another day."`
	Delete TaskDeleteCmd `cmd:"" help:"Delete a task."`
	Ghosts TaskGhostsCmd `cmd:"" help:"List unfinished tasks from past days."`
}

type TaskAddCmd struct {
	Title string `arg:"" help:"Task title."`
	Date  string `short:"d" help:"Day to add the task to (YYYY-MM-DD, today, tomorrow)." default:"today"`
	At    string `short:"t" help:"Optional time of day (HH:MM)."`
}

func (c *TaskAddCmd) Run(ctx *cli.Context) error {
	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}
	task, err := ctx.Service.AddTask(ctx.Context(), date, c.Title, c.At)
	if err != nil {
		return err
	}
	ctx.Printf("Added task %d to %s\n", task.ID, task.Date)
	return nil
}

type TaskListCmd struct {
	Date string `short:"d" help:"Day to list (YYYY-MM-DD, today, tomorrow, yesterday)." default:"today"`
}

func (c *TaskListCmd) Run(ctx *cli.Context) error {
	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}
	tasks, err := ctx.Service.TasksForDate(ctx.Context(), date)
	if err != nil {
		return fmt.Errorf("failed to list tasks: %w", err)
	}

	header := date
	if !calendar.IsEditable(date, ctx.Service.Today()) {
		header += " (read-only)"
	}
	ctx.Println(cli.HeaderStyle.Render(header))
	if len(tasks) == 0 {
		ctx.Println(cli.FaintStyle.Render("  no tasks"))
	}
	for _, t := range tasks {
		ctx.Println(cli.FormatTask(t))
	}

	// carried-over work is only offered on days that can still take it
	if calendar.IsEditable(date, ctx.Service.Today()) {
		ghosts, err := ctx.Service.GhostTasks(ctx.Context())
		if err != nil {
			return fmt.Errorf("failed to list unfinished tasks: %w", err)
		}
		printGhosts(ctx, ghosts)
	}
	return nil
}

func printGhosts(ctx *cli.Context, ghosts []models.Task) {
	if len(ghosts) == 0 {
		return
	}
	ctx.Println()
	ctx.Println(cli.GhostStyle.Render(fmt.Sprintf("Unfinished from earlier (%d)", len(ghosts))))
	for _, g := range ghosts {
		ctx.Printf("%s %s\n", cli.FormatTask(g), cli.FaintStyle.Render(g.Date))
	}
}

type TaskDoneCmd struct {
	ID int64 `arg:"" help:"Task id."`
}

func (c *TaskDoneCmd) Run(ctx *cli.Context) error {
	task, err := ctx.Service.CompleteTask(ctx.Context(), c.ID)
	if err != nil {
		return err
	}
	ctx.Println(cli.FormatTask(task))
	return nil
}

type TaskUndoCmd struct {
	ID int64 `arg:"" help:"Task id."`
}

func (c *TaskUndoCmd) Run(ctx *cli.Context) error {
	task, err := ctx.Service.UncheckTask(ctx.Context(), c.ID)
	if err != nil {
		return err
	}
	ctx.Println(cli.FormatTask(task))
	return nil
}

type TaskToggleCmd struct {
	ID int64 `arg:"" help:"Task id."`
}

func (c *TaskToggleCmd) Run(ctx *cli.Context) error {
	task, err := ctx.Service.ToggleTask(ctx.Context(), c.ID)
	if err != nil {
		return err
	}
	ctx.Println(cli.FormatTask(task))
	return nil
}

type TaskEditCmd struct {
	ID        int64  `arg:"" help:"Task id."`
	Title     string `help:"New title."`
	At        string `short:"t" help:"New time of day (HH:MM)."`
	ClearTime bool   `help:"Remove the time of day."`
}

func (c *TaskEditCmd) Validate() error {
	if c.ClearTime && c.At != "" {
		return fmt.Errorf("--at and --clear-time are mutually exclusive")
	}
	return nil
}

func (c *TaskEditCmd) Run(ctx *cli.Context) error {
	current, err := ctx.Store.GetTask(ctx.Context(), c.ID)
	if err != nil {
		return err
	}

	title := current.Title
	if c.Title != "" {
		title = c.Title
	}
	at := current.Time
	switch {
	case c.ClearTime:
		at = ""
	case c.At != "":
		at = c.At
	}

	task, err := ctx.Service.EditTask(ctx.Context(), c.ID, title, at)
	if err != nil {
		return err
	}
	ctx.Println(cli.FormatTask(task))
	return nil
}

type TaskMoveCmd struct {
	ID   int64  `arg:"" help:"Task id."`
	Date string `arg:"" help:"Target day (YYYY-MM-DD, today, tomorrow)."`
}

func (c *TaskMoveCmd) Run(ctx *cli.Context) error {
	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}
	if err := ctx.Service.MoveTaskToDate(ctx.Context(), c.ID, date); err != nil {
		return err
	}
	ctx.Printf("Moved task %d to %s\n", c.ID, date)
	return nil
}

type TaskDeleteCmd struct {
	ID int64 `arg:"" help:"Task id."`
}

func (c *TaskDeleteCmd) Run(ctx *cli.Context) error {
	task, err := ctx.Store.GetTask(ctx.Context(), c.ID)
	if err != nil {
		return err
	}
	ok, err := ctx.Confirm(fmt.Sprintf("Delete task %q?", task.Title), "This cannot be undone.")
	if err != nil {
		return err
	}
	if !ok {
		ctx.Println("Delete cancelled.")
		return nil
	}

	if err := ctx.Service.DeleteTask(ctx.Context(), c.ID); err != nil {
		return err
	}
	ctx.Printf("Deleted task %d\n", c.ID)
	return nil
}

type TaskGhostsCmd struct{}

func (c *TaskGhostsCmd) Run(ctx *cli.Context) error {
	ghosts, err := ctx.Service.GhostTasks(ctx.Context())
	if err != nil {
		return fmt.Errorf("failed to list unfinished tasks: %w", err)
	}
	if len(ghosts) == 0 {
		ctx.Println("Nothing left over from earlier days.")
		return nil
	}
	printGhosts(ctx, ghosts)
	return nil
}
