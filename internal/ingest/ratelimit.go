package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrRateLimited marks an entry skipped because a daily cap was reached. It is a
// deliberate no-op, not a failure.
var ErrRateLimited = errors.New("daily post limit reached")

var (
	// ErrGlobalLimit halts inserts for the rest of the cycle
	ErrGlobalLimit = fmt.Errorf("%w: all sources", ErrRateLimited)
	// ErrSourceLimit skips the remaining entries of one source
	ErrSourceLimit = fmt.Errorf("%w: source", ErrRateLimited)
)

// PostCounter counts posts created since a point in time
type PostCounter interface {
	CountPostsSince(ctx context.Context, since time.Time) (int, error)
	CountPostsSinceByKeyword(ctx context.Context, since time.Time, keyword string) (int, error)
}

// RateLimiter enforces the daily caps on created posts. The checks are advisory: two
// overlapping runs can both pass them.
type RateLimiter struct {
	counter     PostCounter
	globalLimit int
	sourceLimit int
	now         func() time.Time
}

func NewRateLimiter(counter PostCounter, globalLimit, sourceLimit int, now func() time.Time) *RateLimiter {
	if now == nil {
		now = time.Now
	}
	return &RateLimiter{
		counter:     counter,
		globalLimit: globalLimit,
		sourceLimit: sourceLimit,
		now:         now,
	}
}

// DayStart returns local midnight of the day containing t
func DayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Check returns ErrGlobalLimit or ErrSourceLimit when another post with provenance tag
// would exceed a cap
func (r *RateLimiter) Check(ctx context.Context, tag string) error {
	since := DayStart(r.now())

	total, err := r.counter.CountPostsSince(ctx, since)
	if err != nil {
		return fmt.Errorf("count today's posts: %w", err)
	}
	if total >= r.globalLimit {
		return ErrGlobalLimit
	}

	fromSource, err := r.counter.CountPostsSinceByKeyword(ctx, since, tag)
	if err != nil {
		return fmt.Errorf("count today's posts for %s: %w", tag, err)
	}
	if fromSource >= r.sourceLimit {
		return ErrSourceLimit
	}

	return nil
}
