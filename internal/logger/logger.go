package logger

import (
	"sync"
)

// Log levels accepted by the log_level config key.
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

var (
	globalLogger *Logger
	once         sync.Once
)

// Get returns the process logger. The first call fixes the level; later
// calls return the same instance and ignore their argument.
func Get(level string) *Logger {
	once.Do(func() {
		globalLogger = New(level)
	})
	return globalLogger
}

// New builds a standalone logger, for commands that must not share the
// process singleton.
func New(level string) *Logger {
	return newZapLogger(level)
}
