package shared

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// LogLevel is the verbosity threshold of a logger. Higher values log more.
type LogLevel int

const (
	LevelOff LogLevel = iota
	LevelCritical
	LevelError
	LevelWarning
	LevelInfo
	LevelDebug
)

var levelNames = map[LogLevel]string{
	LevelOff:      "off",
	LevelCritical: "critical",
	LevelError:    "error",
	LevelWarning:  "warning",
	LevelInfo:     "info",
	LevelDebug:    "debug",
}

func (l LogLevel) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// Enabled reports whether a message at msg should be emitted under threshold l
func (l LogLevel) Enabled(msg LogLevel) bool {
	return msg != LevelOff && msg <= l
}

// ParseLogLevel accepts a level name or its number (0-5)
func ParseLogLevel(s string) (LogLevel, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return LevelInfo, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n < int(LevelOff) || n > int(LevelDebug) {
			return LevelInfo, fmt.Errorf("log level %d out of range 0-5", n)
		}
		return LogLevel(n), nil
	}
	if s == "warn" {
		return LevelWarning, nil
	}
	for level, name := range levelNames {
		if name == s {
			return level, nil
		}
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// IsDebugMode checks if debug mode is enabled via environment variable
func IsDebugMode() bool {
	return os.Getenv("DEBUG") == "1" || os.Getenv("DEBUG") == "true"
}

// NopLogger discards everything. Useful in tests and for quiet library use.
type NopLogger struct{}

func (NopLogger) Critical(string, ...interface{}) {}
func (NopLogger) Error(string, ...interface{})    {}
func (NopLogger) Warning(string, ...interface{})  {}
func (NopLogger) Info(string, ...interface{})     {}
func (NopLogger) Success(string, ...interface{})  {}
func (NopLogger) Debug(string, ...interface{})    {}
func (NopLogger) SetDebugMode(bool)               {}
func (NopLogger) SetLevel(LogLevel)               {}
func (NopLogger) Level() LogLevel                 { return LevelOff }
