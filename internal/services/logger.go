package services

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"

	"songfetch/internal/shared"
)

// ConsoleLogger prints colored messages to stdout and optionally mirrors
// them, uncolored, into a log file.
type ConsoleLogger struct {
	level shared.LogLevel
	runID string

	mu   sync.Mutex
	file io.WriteCloser
}

func NewConsoleLogger() *ConsoleLogger {
	level := shared.LevelInfo
	if shared.IsDebugMode() {
		level = shared.LevelDebug
	}
	return &ConsoleLogger{level: level, runID: uuid.NewString()}
}

// RunID identifies this process in the log file
func (cl *ConsoleLogger) RunID() string {
	return cl.runID
}

// OpenLogFile truncates path and starts mirroring every emitted line into it
func (cl *ConsoleLogger) OpenLogFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	cl.mu.Lock()
	if cl.file != nil {
		cl.file.Close()
	}
	cl.file = f
	cl.mu.Unlock()

	fmt.Fprintf(f, "--- Log Started: %s (run %s) ---\n", time.Now().Format(time.RFC3339), cl.runID)
	return nil
}

// Close stops mirroring to the log file
func (cl *ConsoleLogger) Close() error {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	if cl.file == nil {
		return nil
	}
	err := cl.file.Close()
	cl.file = nil
	return err
}

func (cl *ConsoleLogger) emit(level shared.LogLevel, c *color.Color, prefix, message string, args ...interface{}) {
	if !cl.level.Enabled(level) {
		return
	}
	line := prefix + fmt.Sprintf(message, args...)
	c.Println(line)

	cl.mu.Lock()
	defer cl.mu.Unlock()
	if cl.file != nil {
		// A broken log file must never stop the run
		fmt.Fprintf(cl.file, "%s [%s] %s\n", time.Now().Format("15:04:05"), level, line)
	}
}

func (cl *ConsoleLogger) Critical(message string, args ...interface{}) {
	cl.emit(shared.LevelCritical, shared.ColorCritical, "🔥 ", message, args...)
}

func (cl *ConsoleLogger) Error(message string, args ...interface{}) {
	cl.emit(shared.LevelError, shared.ColorError, "❌ ", message, args...)
}

func (cl *ConsoleLogger) Warning(message string, args ...interface{}) {
	cl.emit(shared.LevelWarning, shared.ColorWarning, "⚠️ ", message, args...)
}

func (cl *ConsoleLogger) Info(message string, args ...interface{}) {
	cl.emit(shared.LevelInfo, shared.ColorInfo, "", message, args...)
}

func (cl *ConsoleLogger) Success(message string, args ...interface{}) {
	cl.emit(shared.LevelInfo, shared.ColorSuccess, "✅ ", message, args...)
}

func (cl *ConsoleLogger) Debug(message string, args ...interface{}) {
	cl.emit(shared.LevelDebug, shared.ColorDebug, "🐛 DEBUG: ", message, args...)
}

func (cl *ConsoleLogger) SetDebugMode(enabled bool) {
	if enabled {
		cl.level = shared.LevelDebug
	} else if cl.level == shared.LevelDebug {
		cl.level = shared.LevelInfo
	}
}

func (cl *ConsoleLogger) SetLevel(level shared.LogLevel) {
	cl.level = level
}

func (cl *ConsoleLogger) Level() shared.LogLevel {
	return cl.level
}
