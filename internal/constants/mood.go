package constants

// Default mood scale seeded into mood_config on first use. Colors are ARGB.
const (
	MoodAwfulColor   uint32 = 0xFF9C27B0
	MoodBadColor     uint32 = 0xFFF44336
	MoodOkayColor    uint32 = 0xFFFFC107
	MoodGoodColor    uint32 = 0xFF76FF03
	MoodUnknownColor uint32 = 0xFF9E9E9E

	MoodScaleSize = 5
)
