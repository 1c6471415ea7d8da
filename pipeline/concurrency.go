package pipeline

import (
	"context"
	"log/slog"
)

// DefaultMaxJobs bounds concurrent jobs when no limit is configured.
const DefaultMaxJobs = 4

// Limiter bounds how many jobs run at once. Jobs beyond the limit wait for a
// slot or for their context to end.
type Limiter struct {
	slots chan struct{}
}

// NewLimiter returns a Limiter with n slots (DefaultMaxJobs when n <= 0).
func NewLimiter(n int) *Limiter {
	if n <= 0 {
		n = DefaultMaxJobs
	}
	slog.Info("job concurrency limit initialized", slog.Int("max_concurrent", n))
	return &Limiter{slots: make(chan struct{}, n)}
}

// Acquire blocks until a slot is available or ctx is canceled.
// Returns true if slot acquired, false if context canceled.
func (l *Limiter) Acquire(ctx context.Context) bool {
	select {
	case l.slots <- struct{}{}:
		return true
	case <-ctx.Done():
		return false
	}
}

// Release frees a slot.
func (l *Limiter) Release() {
	select {
	case <-l.slots:
	default:
		// Should not happen unless mismatched acquire/release
		slog.Warn("job slot release called without corresponding acquire")
	}
}

// Active returns the number of slots in use.
func (l *Limiter) Active() int { return len(l.slots) }

// Max returns the configured limit.
func (l *Limiter) Max() int { return cap(l.slots) }
