// Package mjlog is a thin leveled-logging wrapper around
// github.com/charmbracelet/log, in the singleton-logger pattern, used by
// the riichictl CLI. The mahjong package itself does not log.
package mjlog

import (
	"os"
	"time"

	"github.com/charmbracelet/log"
)

var logger = newDefault()

func newDefault() *log.Logger {
	l := log.New(os.Stderr)
	l.SetPrefix("mahjong")
	l.SetReportTimestamp(true)
	l.SetTimeFormat(time.TimeOnly)
	l.SetLevel(log.WarnLevel)
	return l
}

// SetLevel adjusts the package logger's minimum level. Valid names:
// "debug", "info", "warn", "error", "fatal".
func SetLevel(name string) {
	lvl, err := log.ParseLevel(name)
	if err != nil {
		return
	}
	logger.SetLevel(lvl)
}

func Debug(format string, args ...any) { logAt(logger.Debugf, format, args...) }
func Info(format string, args ...any)  { logAt(logger.Infof, format, args...) }
func Warn(format string, args ...any)  { logAt(logger.Warnf, format, args...) }
func Error(format string, args ...any) { logAt(logger.Errorf, format, args...) }
func Fatal(format string, args ...any) { logAt(logger.Fatalf, format, args...) }

func logAt(fn func(string, ...any), format string, args ...any) {
	fn(format, args...)
}
