package models

import (
	"fmt"
	"strconv"

	"github.com/julianstephens/dayreview/internal/constants"
)

// Rating records the mood chosen for a single day.
type Rating struct {
	Date   string `json:"date"` // YYYY-MM-DD format
	MoodID int    `json:"mood_id"`
}

// MoodConfig is one user-editable entry of the five-point mood scale.
type MoodConfig struct {
	ID        int    `json:"id"`
	Label     string `json:"label"`
	ColorARGB uint32 `json:"color_argb"`
	IconRef   string `json:"icon_ref"`
	IsVisible bool   `json:"is_visible"`
}

// DefaultMoodConfigs returns the scale seeded on first use.
func DefaultMoodConfigs() []MoodConfig {
	return []MoodConfig{
		{ID: 1, Label: "Awful", ColorARGB: constants.MoodAwfulColor, IconRef: "ic_mood_1", IsVisible: true},
		{ID: 2, Label: "Bad", ColorARGB: constants.MoodBadColor, IconRef: "ic_mood_2", IsVisible: true},
		{ID: 3, Label: "Okay", ColorARGB: constants.MoodOkayColor, IconRef: "ic_mood_3", IsVisible: true},
		{ID: 4, Label: "Good", ColorARGB: constants.MoodGoodColor, IconRef: "ic_mood_4", IsVisible: true},
		{ID: 5, Label: "???", ColorARGB: constants.MoodUnknownColor, IconRef: "ic_mood_5", IsVisible: true},
	}
}

// HexColor formats an ARGB color as #RRGGBB, dropping alpha.
func HexColor(argb uint32) string {
	return fmt.Sprintf("#%06X", argb&0x00FFFFFF)
}

// ParseHexColor parses #RRGGBB or #AARRGGBB into ARGB. Missing alpha is opaque.
func ParseHexColor(s string) (uint32, error) {
	if len(s) > 0 && s[0] == '#' {
		s = s[1:]
	}
	if len(s) != 6 && len(s) != 8 {
		return 0, fmt.Errorf("invalid color %q: expected #RRGGBB or #AARRGGBB", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid color %q: %w", s, err)
	}
	if len(s) == 6 {
		v |= 0xFF000000
	}
	return uint32(v), nil
}
