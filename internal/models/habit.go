package models

import "github.com/julianstephens/dayreview/internal/constants"

// Habit represents a recurring practice tracked globally, not per day.
type Habit struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	ColorARGB   uint32  `json:"color_argb"`
	Streak      int     `json:"streak"`
	IsDoneToday bool    `json:"is_done_today"`
	History     History `json:"history"` // one slot per day-of-month index
}

// NewHabit returns a habit with an empty streak and a blank history.
func NewHabit(title string, color uint32) Habit {
	return Habit{
		Title:     title,
		ColorARGB: color,
		History:   NewHistory(constants.HistoryLength),
	}
}
