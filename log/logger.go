// Package log is a small leveled logger over the standard library logger.
package log

import (
	"fmt"
	"io"
	"os"
	"strings"
)
import l "log"

type Level int

const (
	FatalLevel = Level(iota)
	Error
	Info
	Debug
)

var levelNames = map[string]Level{
	"fatal": FatalLevel,
	"error": Error,
	"info":  Info,
	"debug": Debug,
}

// ParseLevel maps a level name from configuration or flags to a Level.
func ParseLevel(s string) (Level, error) {
	lvl, ok := levelNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return Info, fmt.Errorf("unknown log level %q", s)
	}
	return lvl, nil
}

func (lvl Level) String() string {
	for name, v := range levelNames {
		if v == lvl {
			return name
		}
	}
	return fmt.Sprintf("level(%d)", int(lvl))
}

type Logger struct {
	level  Level
	prefix string
	out    *l.Logger
}

// New returns a logger writing to w at the given level.
func New(w io.Writer, level Level) *Logger {
	return &Logger{level: level, out: l.New(w, "", l.LstdFlags)}
}

// Discard returns a logger that writes nothing.
func Discard() *Logger {
	return New(io.Discard, FatalLevel)
}

var std = New(os.Stderr, Info)

// Default is the process-wide logger.
func Default() *Logger {
	return std
}

func SetLevel(lvl Level) {
	std.SetLevel(lvl)
}

func (lg *Logger) SetLevel(lvl Level) {
	lg.level = lvl
}

func (lg *Logger) Level() Level {
	return lg.level
}

// Enabled reports whether messages at lvl are written.
func (lg *Logger) Enabled(lvl Level) bool {
	return lg.level >= lvl
}

// With returns a logger sharing the output whose messages start with prefix.
func (lg *Logger) With(prefix string) *Logger {
	return &Logger{level: lg.level, prefix: lg.prefix + prefix + " ", out: lg.out}
}

func (lg *Logger) logf(lvl Level, format string, v ...interface{}) {
	if !lg.Enabled(lvl) {
		return
	}
	lg.out.Output(3, lg.prefix+fmt.Sprintf(format, v...))
}

func (lg *Logger) Debugf(format string, v ...interface{}) {
	lg.logf(Debug, format, v...)
}

func (lg *Logger) Infof(format string, v ...interface{}) {
	lg.logf(Info, format, v...)
}

func (lg *Logger) Errorf(format string, v ...interface{}) {
	lg.logf(Error, format, v...)
}

// Fatalf logs and exits the process.
func (lg *Logger) Fatalf(format string, v ...interface{}) {
	lg.logf(FatalLevel, format, v...)
	os.Exit(1)
}

func Debugf(format string, v ...interface{}) {
	std.logf(Debug, format, v...)
}

func Infof(format string, v ...interface{}) {
	std.logf(Info, format, v...)
}

func Errorf(format string, v ...interface{}) {
	std.logf(Error, format, v...)
}

func Fatalf(format string, v ...interface{}) {
	std.logf(FatalLevel, format, v...)
	os.Exit(1)
}
