package flashtx

import (
	"context"
	"time"
)

// Clock suspends the transmission loop between slots.
type Clock interface {
	// Sleep blocks for d. A non-nil error means the suspension was cut
	// short and the transmission is interrupted.
	Sleep(ctx context.Context, d time.Duration) error
}

// RealClock sleeps on the wall clock. Sleep returns ctx.Err() if the
// context ends before d elapses.
type RealClock struct{}

func (RealClock) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
