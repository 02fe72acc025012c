package constants

import "time"

const (
	AppName            = "dayreview"
	EnvPrefix          = "DAYREVIEW_"
	DefaultKeyringUser = "database-connection"
	DefaultConfigDir   = "~/.config/dayreview"
	DefaultDBName      = "dayreview.db"
	DefaultEnvFileName = "dayreview.env"
	DefaultLogLevel    = "warn"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// HistoryLength is the number of day-of-month slots kept per habit
	HistoryLength = 30

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "dayreview-"
	BackupFileSuffix = ".db"

	// Watch constants
	WatchThrottle = 100 * time.Millisecond
)
