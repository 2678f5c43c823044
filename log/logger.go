package log

// Logger forwards to package-level functions.
// Use Default where a logger needs to be injected.
type Logger struct{}

var Default Logger

func (Logger) Verbosef(format string, args ...any) {
	Verbosef(format, args...)
}

func (Logger) Warnf(format string, args ...any) {
	Warnf(format, args...)
}

func (Logger) Errorf(format string, args ...any) {
	logError(1, format, args)
}
