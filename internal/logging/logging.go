// Package logging adds leveled helpers over the stdlib log.Logger, the
// only logging mechanism used anywhere in the teacher or the rest of
// the pack (agno/storage/sqlite and agno/os call log.Printf directly).
package logging

import (
	"log"
	"os"
)

// Level filters which calls reach the underlying logger.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func ParseLevel(s string) Level {
	switch s {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger wraps a *log.Logger with a minimum level, matching the plain
// "Warning: ...", "Error: ..." prefix convention seen throughout the
// teacher's storage layer.
type Logger struct {
	out *log.Logger
	min Level
}

// New builds a Logger writing to os.Stderr with a standard date/time
// prefix, filtered to level and above.
func New(level Level) *Logger {
	return &Logger{out: log.New(os.Stderr, "", log.LstdFlags), min: level}
}

func (l *Logger) Debugf(format string, args ...interface{}) { l.logf(LevelDebug, "Debug: "+format, args...) }
func (l *Logger) Infof(format string, args ...interface{})  { l.logf(LevelInfo, format, args...) }
func (l *Logger) Warnf(format string, args ...interface{})  { l.logf(LevelWarn, "Warning: "+format, args...) }
func (l *Logger) Errorf(format string, args ...interface{}) { l.logf(LevelError, "Error: "+format, args...) }

func (l *Logger) logf(level Level, format string, args ...interface{}) {
	if level < l.min {
		return
	}
	l.out.Printf(format, args...)
}
