package types

import "log"

// Logger is the minimal logging contract the engine depends on. Swap in
// zerolog, zap, or anything else by implementing these two methods.
type Logger interface {
	Printf(format string, args ...any)
	Debugf(format string, args ...any)
}

// stdLogger wraps the standard library logger. It is the zero-configuration
// default; production callers are expected to supply their own via
// WithLogger.
type stdLogger struct {
	debug bool
}

// NewStdLogger returns a Logger backed by the standard library's log
// package, with Debugf silenced by default.
func NewStdLogger() Logger {
	return &stdLogger{}
}

func (l *stdLogger) Printf(format string, args ...any) {
	log.Printf(format, args...)
}

func (l *stdLogger) Debugf(format string, args ...any) {
	if l.debug {
		log.Printf(format, args...)
	}
}
