package models

// Task is a single to-do item that belongs to exactly one day.
type Task struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	IsDone bool   `json:"is_done"`
	Date   string `json:"date"`           // YYYY-MM-DD format
	Time   string `json:"time,omitempty"` // HH:MM format, optional
}

// HasTime reports whether the task is scheduled at a clock time.
func (t Task) HasTime() bool {
	return t.Time != ""
}
