// Package logger is the process-wide journal log: a rotating file under the
// config directory, mirrored to stderr with --debug.
package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/julianstephens/dayreview/internal/constants"
)

// Logger is nil until Init; the package helpers are no-ops until then.
var Logger *log.Logger

const (
	maxSizeMB  = 10
	maxBackups = 3
	maxAgeDays = 28
)

type Config struct {
	Debug  bool
	Level  string
	LogDir string
	// Backend is the journal store ("sqlite" or "postgres"). It becomes
	// part of the prefix so lines from both setups can be told apart.
	Backend string
}

// Prefix returns the prefix every line of cfg's log carries.
func (cfg Config) Prefix() string {
	if cfg.Backend == "" {
		return constants.AppName
	}
	return constants.AppName + "/" + cfg.Backend
}

// Path returns the log file inside cfg.LogDir.
func (cfg Config) Path() string {
	return filepath.Join(cfg.LogDir, constants.AppName+".log")
}

func Init(cfg Config) error {
	if err := os.MkdirAll(cfg.LogDir, 0755); err != nil {
		return err
	}

	fileWriter := &lumberjack.Logger{
		Filename:   cfg.Path(),
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
		Compress:   true,
	}

	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		level = log.WarnLevel
	}
	var writer io.Writer = fileWriter
	if cfg.Debug {
		level = log.DebugLevel
		writer = io.MultiWriter(os.Stderr, fileWriter)
	}

	Logger = log.NewWithOptions(writer, log.Options{
		ReportCaller:    cfg.Debug,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          cfg.Prefix(),
	})
	return nil
}

// Outcome records the result of a journal command: failures at warn level,
// successes at debug.
func Outcome(command string, err error, keyvals ...any) {
	if Logger == nil {
		return
	}
	keyvals = append([]any{"command", command}, keyvals...)
	if err != nil {
		Logger.Warn("command failed", append(keyvals, "error", err)...)
		return
	}
	Logger.Debug("command done", keyvals...)
}

func Debug(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

func Info(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

func Warn(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

func Error(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}
