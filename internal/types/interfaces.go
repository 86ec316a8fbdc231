package types

import (
	"context"
	"log/slog"
	"time"
)

// Clock abstracts time for testability. Lifecycle operations take their
// notion of "now" from a single injected Clock rather than scattered
// wall-clock calls.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the real system time (always UTC).
type RealClock struct{}

// Now returns the current time in UTC.
func (RealClock) Now() time.Time { return time.Now().UTC() }

// RandSource is the single logical randomness stream behind ring sampling
// and DP noise draws. These draws are the entire privacy mechanism, so
// production implementations MUST be cryptographically secure; a
// deterministic source is acceptable only in tests.
type RandSource interface {
	// Float64 returns a uniformly distributed value in [0, 1).
	Float64() float64
}

// ObservationRepository is the injected persistence boundary. The core's
// lifecycle operations go through this interface and never touch storage
// directly.
type ObservationRepository interface {
	List(ctx context.Context) ([]*ObservationRecord, error)
	Get(ctx context.Context, id string) (*ObservationRecord, error)
	Save(ctx context.Context, rec *ObservationRecord) error
	Delete(ctx context.Context, id string) error
}

// Logger defines the structured logging interface used throughout the engine.
type Logger interface {
	Info(msg string, args ...any)
	Error(msg string, args ...any)
	Warn(msg string, args ...any)
	With(args ...any) Logger
}

// slogLogger adapts *slog.Logger to the Logger interface.
type slogLogger struct {
	l *slog.Logger
}

// NewLogger wraps a *slog.Logger in the Logger interface.
func NewLogger(l *slog.Logger) Logger {
	return &slogLogger{l: l}
}

func (s *slogLogger) Info(msg string, args ...any)  { s.l.Info(msg, args...) }
func (s *slogLogger) Error(msg string, args ...any) { s.l.Error(msg, args...) }
func (s *slogLogger) Warn(msg string, args ...any)  { s.l.Warn(msg, args...) }
func (s *slogLogger) With(args ...any) Logger       { return &slogLogger{l: s.l.With(args...)} }

// NopLogger discards all log output. Useful as a default in tests.
type NopLogger struct{}

func (NopLogger) Info(msg string, args ...any)  {}
func (NopLogger) Error(msg string, args ...any) {}
func (NopLogger) Warn(msg string, args ...any)  {}
func (n NopLogger) With(args ...any) Logger     { return n }
