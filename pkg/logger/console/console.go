package console

import (
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// ConsoleLogger writes human-readable log lines to stderr through
// charmbracelet/log. It satisfies logger.LoggerInstance.
//
// A ConsoleLogger should be created using NewConsoleLogger.
type ConsoleLogger struct {
	backend *log.Logger
}

// ConsoleLoggerParams contains configuration for creating a
// ConsoleLogger. Debug lowers the level to DEBUG; ReportCaller adds the
// caller's file and line to every record.
type ConsoleLoggerParams struct {
	Debug        bool
	ReportCaller bool
}

// NewConsoleLogger creates a console logger writing to stderr.
func NewConsoleLogger(params ConsoleLoggerParams) *ConsoleLogger {
	level := log.InfoLevel
	if params.Debug {
		level = log.DebugLevel
	}

	return &ConsoleLogger{
		backend: log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			TimeFormat:      time.TimeOnly,
			ReportCaller:    params.ReportCaller,
			Level:           level,
		}),
	}
}

// Log writes a message at the default level.
func (c *ConsoleLogger) Log(message string, keyvals ...any) {
	c.backend.Print(message, keyvals...)
}

func (c *ConsoleLogger) Info(message string, keyvals ...any) {
	c.backend.Info(message, keyvals...)
}

func (c *ConsoleLogger) Warn(message string, keyvals ...any) {
	c.backend.Warn(message, keyvals...)
}

func (c *ConsoleLogger) Error(message string, keyvals ...any) {
	c.backend.Error(message, keyvals...)
}

func (c *ConsoleLogger) Debug(message string, keyvals ...any) {
	c.backend.Debug(message, keyvals...)
}

// Fatal writes a message at FATAL level and terminates the program.
func (c *ConsoleLogger) Fatal(message string, keyvals ...any) {
	c.backend.Fatal(message, keyvals...)
}
