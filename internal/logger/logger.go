package logger

import (
	"sync"
)

// Log levels accepted in configuration.
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

// Output encodings accepted in configuration.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Options selects level and encoding for the process logger.
type Options struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

var (
	globalLogger *Logger
	once         sync.Once
)

// Get returns the process logger, building it on first use.
// Options passed after the first call are ignored.
func Get(opts Options) *Logger {
	once.Do(func() {
		globalLogger = newZapLogger(opts)
	})
	return globalLogger
}

// Nop returns a logger that discards everything. Handy in tests and for
// components constructed without a logger.
func Nop() *Logger {
	return &Logger{SugaredLogger: nopSugar()}
}
