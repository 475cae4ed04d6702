package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/bilgisen/feedpress/internal/logger"
	"github.com/robfig/cron/v3"
)

// Job is one scheduled run
type Job func(ctx context.Context) error

// Scheduler triggers a job on a cron schedule. A run still in progress when the next
// tick fires causes that tick to be skipped.
type Scheduler struct {
	cron     *cron.Cron
	entryID  cron.EntryID
	schedule string
	timeout  time.Duration
	job      Job
}

// New parses schedule (standard five-field cron or descriptors such as @hourly) and
// prepares a scheduler. Each run is bounded by timeout.
func New(schedule string, timeout time.Duration, job Job) (*Scheduler, error) {
	s := &Scheduler{schedule: schedule, timeout: timeout, job: job}

	l := cronLogger{}
	s.cron = cron.New(
		cron.WithLogger(l),
		cron.WithChain(cron.Recover(l), cron.SkipIfStillRunning(l)),
	)

	id, err := s.cron.AddFunc(schedule, s.run)
	if err != nil {
		return nil, fmt.Errorf("invalid cron schedule %q: %w", schedule, err)
	}
	s.entryID = id

	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	logger.Get().Info().
		Str("schedule", s.schedule).
		Time("next_run", s.NextRun()).
		Msg("Scheduler started")
}

// Stop stops the schedule and waits for a running job until ctx is done
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop().Done()
	select {
	case <-done:
	case <-ctx.Done():
		logger.Get().Warn().Msg("Scheduled job still running at shutdown")
	}
}

// NextRun is the time of the next tick, zero before Start
func (s *Scheduler) NextRun() time.Time {
	return s.cron.Entry(s.entryID).Next
}

func (s *Scheduler) run() {
	log := logger.Get()

	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	log.Info().Msg("Scheduled run started")

	if err := s.job(ctx); err != nil {
		log.Error().Err(err).Dur("duration", time.Since(start)).Msg("Scheduled run failed")
		return
	}

	log.Info().Dur("duration", time.Since(start)).Msg("Scheduled run finished")
}

// cronLogger routes cron's own messages to zerolog
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l := logger.Component("cron")
	l.Debug().Fields(keysAndValues).Msg(msg)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l := logger.Component("cron")
	l.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
