package ai

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Throttle paces outbound API calls. A nil Throttle never blocks.
type Throttle struct {
	limiter *rate.Limiter
}

// NewThrottle allows perMinute calls per minute with a burst of one.
// A non-positive value disables throttling.
func NewThrottle(perMinute int) *Throttle {
	if perMinute <= 0 {
		return &Throttle{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	return &Throttle{limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1)}
}

// Wait blocks until the next call is allowed or ctx is done
func (t *Throttle) Wait(ctx context.Context) error {
	if t == nil || t.limiter == nil {
		return nil
	}
	return t.limiter.Wait(ctx)
}
