package log

import (
	"fmt"
	"sync"
)

// defaultLog is the Logger behind the package-level functions. Its State is
// the single process-wide nesting stack.
//
//nolint:gochecknoglobals
var defaultLog = struct {
	sync.RWMutex

	Logger
}{Logger: Make(nil)}

// Default returns the default logger.
func Default() Logger {
	defaultLog.RLock()
	defer defaultLog.RUnlock()

	return defaultLog.Logger
}

// Config updates the default logger with the given options. Its State is
// kept.
func Config(opts ...Option) {
	defaultLog.Lock()
	defer defaultLog.Unlock()

	defaultLog.Logger = defaultLog.Wrap(opts...)
}

// SetDefault replaces the default logger and returns the one it replaces.
func SetDefault(l Logger) (prev Logger) {
	defaultLog.Lock()
	defer defaultLog.Unlock()

	prev, defaultLog.Logger = defaultLog.Logger, l

	return prev
}

// Open opens the log file at path as the primary sink using the default
// logger. See [Logger.Open].
func Open(path string) (string, error) { return Default().open(Caller(1), path) }

// Close releases the primary sink. See [Logger.Close].
func Close() error { return Default().Close() }

// Note logs text at note severity using the default logger.
func Note(text string) { Default().message(Caller(1), SeverityNote, text, false) }

// Warning logs text at warning severity using the default logger.
func Warning(text string) { Default().message(Caller(1), SeverityWarning, text, false) }

// Error logs text at error severity using the default logger.
func Error(text string) { Default().message(Caller(1), SeverityError, text, false) }

// Fatal logs text at fatal severity using the default logger. It does not
// stop the program.
func Fatal(text string) { Default().message(Caller(1), SeverityFatal, text, false) }

// Notef logs a formatted message at note severity using the default logger.
func Notef(format string, args ...any) {
	Default().message(Caller(1), SeverityNote, fmt.Sprintf(format, args...), false)
}

// Fatalf logs a formatted message at fatal severity using the default
// logger.
func Fatalf(format string, args ...any) {
	Default().message(Caller(1), SeverityFatal, fmt.Sprintf(format, args...), false)
}

// Message logs text using the default logger. See [Logger.Message].
func Message(severity, text string) error {
	return Default().MessageAt(Caller(1), severity, text, false)
}

// Addendum continues the previous message using the default logger.
// See [Logger.Addendum].
func Addendum(severity, text string) error {
	return Default().MessageAt(Caller(1), severity, text, true)
}

// Trace records a transition using the default logger. See [Logger.Trace].
func Trace(transition, frame string, args ...any) error {
	return Default().TraceAt(Caller(1), transition, frame, args...)
}

// Enter opens a traced frame using the default logger.
func Enter(frame string, args ...any) { Default().Enter(frame, args...) }

// Leave closes a traced frame using the default logger.
func Leave(frame string) {
	l := Default()
	if l.state == nil {
		return
	}

	l.leave(l.sink(), Caller(1), frame)
}
