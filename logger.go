package bollywood

import (
	"log"
	"os"
)

// Logger is the minimal surface the runtime needs. No third-party logging
// library appears anywhere in the retrieved example pack (the teacher logs
// with bare fmt.Printf) so this stays a thin interface over the standard
// library's log.Logger rather than adopting one, injected explicitly on
// ActorSystem instead of reached for as a package-level global (spec.md
// §9).
type Logger interface {
	Printf(format string, args ...interface{})
}

// stdLogger adapts *log.Logger to Logger.
type stdLogger struct {
	l *log.Logger
}

// NewStdLogger returns a Logger that writes to stderr with a timestamp
// prefix, the teacher's own default target for its fmt.Printf diagnostics.
func NewStdLogger() Logger {
	return &stdLogger{l: log.New(os.Stderr, "bollywood: ", log.LstdFlags)}
}

func (s *stdLogger) Printf(format string, args ...interface{}) {
	s.l.Printf(format, args...)
}

// NoopLogger discards everything — handy in tests that don't want panic
// stack traces cluttering output.
type noopLogger struct{}

func NoopLogger() Logger { return noopLogger{} }

func (noopLogger) Printf(string, ...interface{}) {}
