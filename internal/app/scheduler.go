package app

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/gorhill/cronexpr"
)

// FallbackInterval replaces a non-positive refresh.interval_seconds.
const FallbackInterval = 300 * time.Second

// Scheduler renders a frame, waits, and repeats until its context ends.
type Scheduler struct {
	App    *App
	Logger *log.Logger

	// delay overrides NextDelay in tests.
	delay func(now time.Time) time.Duration
}

// NewScheduler returns a scheduler driving a.
func NewScheduler(a *App, logger *log.Logger) *Scheduler {
	if logger == nil {
		logger = log.New(log.Writer(), "[SCHED] ", log.LstdFlags)
	}
	return &Scheduler{App: a, Logger: logger}
}

// Run loops until ctx is cancelled and then returns nil. The widget list and
// the schedule are re-read from settings on every cycle.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}
		s.App.RenderOnce(ctx, s.App.Widgets())

		wait := s.next(s.App.now())
		s.Logger.Printf("next render in %s", wait.Round(time.Second))
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			s.Logger.Printf("stopping: %v", ctx.Err())
			return nil
		case <-timer.C:
		}
	}
}

func (s *Scheduler) next(now time.Time) time.Duration {
	if s.delay != nil {
		return s.delay(now)
	}
	spec := s.App.Settings.String("refresh.cron", "")
	interval := s.App.Settings.Int("refresh.interval_seconds", 28800)
	d, err := NextDelay(spec, interval, now)
	if err != nil {
		s.Logger.Printf("refresh.cron %q ignored: %v", spec, err)
	}
	return d
}

// NextDelay returns how long to wait after now. A non-empty cron spec wins
// over the interval; an invalid spec falls back to the interval and is
// reported.
func NextDelay(cronSpec string, intervalSeconds int, now time.Time) (time.Duration, error) {
	interval := time.Duration(intervalSeconds) * time.Second
	if interval <= 0 {
		interval = FallbackInterval
	}
	cronSpec = strings.TrimSpace(cronSpec)
	if cronSpec == "" {
		return interval, nil
	}
	expr, err := cronexpr.Parse(cronSpec)
	if err != nil {
		return interval, err
	}
	next := expr.Next(now)
	if next.IsZero() {
		return interval, nil
	}
	return next.Sub(now), nil
}
