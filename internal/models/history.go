package models

import "strings"

const (
	historyDone    = "1"
	historyNotDone = "0"
	historySep     = ","
)

// History is the per-day completion record of a habit.
type History []bool

// NewHistory returns a history of n unmarked days.
func NewHistory(n int) History {
	return make(History, n)
}

// Encode serializes the history as comma separated "1"/"0" tokens.
func (h History) Encode() string {
	if len(h) == 0 {
		return ""
	}
	tokens := make([]string, len(h))
	for i, done := range h {
		if done {
			tokens[i] = historyDone
		} else {
			tokens[i] = historyNotDone
		}
	}
	return strings.Join(tokens, historySep)
}

// DecodeHistory parses a stored history. Empty input or any token other
// than "1" or "0" yields an empty history.
func DecodeHistory(data string) History {
	if data == "" {
		return History{}
	}
	tokens := strings.Split(data, historySep)
	h := make(History, len(tokens))
	for i, tok := range tokens {
		switch strings.TrimSpace(tok) {
		case historyDone:
			h[i] = true
		case historyNotDone:
		default:
			return History{}
		}
	}
	return h
}

// Clone returns an independent copy.
func (h History) Clone() History {
	if h == nil {
		return nil
	}
	c := make(History, len(h))
	copy(c, h)
	return c
}

// Set marks day index i and reports whether i was in bounds.
func (h History) Set(i int, done bool) bool {
	if i < 0 || i >= len(h) {
		return false
	}
	h[i] = done
	return true
}

// Count returns the number of marked days.
func (h History) Count() int {
	n := 0
	for _, done := range h {
		if done {
			n++
		}
	}
	return n
}
