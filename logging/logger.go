package logging

import (
	"fmt"
	"log"

	"github.com/fatih/color"
)

// Logger is the main logger type. It still functions if nil, but it doesn't
// log anything. Output goes through the standard logger provided by the log
// package, so it respects any flags set for that logger. It is safe for
// concurrent usage.
type Logger struct {
	// prefix is any prefix specified for the logger.
	prefix string
	// level is the maximum level that is emitted.
	level Level
}

// New creates a root logger emitting messages up to level.
func New(level Level) *Logger {
	return &Logger{level: level}
}

// Sublogger creates a new sublogger with the specified name. The sublogger
// inherits the level of its parent.
func (l *Logger) Sublogger(name string) *Logger {
	if l == nil {
		return nil
	}

	prefix := name
	if l.prefix != "" {
		prefix = l.prefix + "." + name
	}

	return &Logger{
		prefix: prefix,
		level:  l.level,
	}
}

// Level reports the logger's level. A nil logger is disabled.
func (l *Logger) Level() Level {
	if l == nil {
		return LevelDisabled
	}
	return l.level
}

// Enabled reports whether messages at level would be emitted.
func (l *Logger) Enabled(level Level) bool {
	return l != nil && level != LevelDisabled && level <= l.level
}

// output is the internal logging method.
func (l *Logger) output(calldepth int, line string) {
	if l.prefix != "" {
		line = fmt.Sprintf("[%s] %s", l.prefix, line)
	}
	log.Output(calldepth, line)
}

// Errorf logs an error message in red.
func (l *Logger) Errorf(format string, v ...interface{}) {
	if l.Enabled(LevelError) {
		l.output(3, color.RedString("Error: "+format, v...))
	}
}

// Warnf logs a warning message in yellow.
func (l *Logger) Warnf(format string, v ...interface{}) {
	if l.Enabled(LevelWarn) {
		l.output(3, color.YellowString("Warning: "+format, v...))
	}
}

// Infof logs information with semantics equivalent to fmt.Printf.
func (l *Logger) Infof(format string, v ...interface{}) {
	if l.Enabled(LevelInfo) {
		l.output(3, fmt.Sprintf(format, v...))
	}
}

// Debugf logs information with semantics equivalent to fmt.Printf, but only if
// debugging is enabled (otherwise it's a no-op).
func (l *Logger) Debugf(format string, v ...interface{}) {
	if l.Enabled(LevelDebug) {
		l.output(3, fmt.Sprintf(format, v...))
	}
}

// Tracef logs wire-level information.
func (l *Logger) Tracef(format string, v ...interface{}) {
	if l.Enabled(LevelTrace) {
		l.output(3, fmt.Sprintf(format, v...))
	}
}

// Warn logs error information with a warning prefix and yellow color.
func (l *Logger) Warn(err error) {
	if l.Enabled(LevelWarn) {
		l.output(3, color.YellowString("Warning: %v", err))
	}
}

// Error logs error information with an error prefix and red color.
func (l *Logger) Error(err error) {
	if l.Enabled(LevelError) {
		l.output(3, color.RedString("Error: %v", err))
	}
}
