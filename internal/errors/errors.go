// Package errors formats command failures for the terminal, adding a next
// step for the journal errors a user can act on.
package errors

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/dayreview/internal/logger"
	"github.com/julianstephens/dayreview/internal/review"
	"github.com/julianstephens/dayreview/internal/storage"
)

var hints = []struct {
	target error
	hint   string
}{
	{review.ErrReadOnlyDate, "past days are read-only; use --date today or a later day"},
	{review.ErrEmptyTitle, "give the task or habit a title"},
	{review.ErrUnknownMood, "'dayreview mood list' shows the mood ids"},
	{storage.ErrNotInitialized, "run 'dayreview init' to create the journal"},
	{storage.ErrNotFound, "'dayreview task list' and 'dayreview habit list' show the ids"},
}

// Hint returns the suggested next step for err, or "" if there is none.
func Hint(err error) string {
	for _, h := range hints {
		if errors.Is(err, h.target) {
			return h.hint
		}
	}
	return ""
}

// Format renders err with an "Error: " prefix and, when one applies, a
// hint line.
func Format(err error) string {
	if err == nil {
		return ""
	}
	msg := fmt.Sprintf("Error: %v", err)
	if hint := Hint(err); hint != "" {
		msg += "\nHint: " + hint
	}
	return msg
}

// Fatal logs err and exits with status 1.
func Fatal(err error) {
	if err != nil {
		logger.Error("command failed", "error", err)
		fmt.Fprintln(os.Stderr, Format(err))
		os.Exit(1)
	}
}
