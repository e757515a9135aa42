package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/mohammad-safakhou/smartdisplay/internal/panel"
	"github.com/mohammad-safakhou/smartdisplay/internal/render"
	"github.com/mohammad-safakhou/smartdisplay/internal/settings"
)

func TestSchedulerStopsOnCancel(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := failingSources()
	cal := src.Calendar.(*fakeCalendar)
	cal.hook = func(n int32) {
		if n == 3 {
			cancel()
		}
	}
	a := newTestApp(t, src)
	s := NewScheduler(a, quiet())
	s.delay = func(time.Time) time.Duration { return 5 * time.Millisecond }

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop after cancel")
	}
	if got := cal.calls.Load(); got != 3 {
		t.Fatalf("rendered %d times, want 3", got)
	}
}

func TestSchedulerReturnsImmediatelyWhenCancelled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	src := failingSources()
	a := newTestApp(t, src)
	if err := NewScheduler(a, quiet()).Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if n := src.Calendar.(*fakeCalendar).calls.Load(); n != 0 {
		t.Fatalf("rendered %d times after cancel", n)
	}
}

// stalledBrowser blocks every screenshot until its context ends.
type stalledBrowser struct {
	once    sync.Once
	started chan struct{}
}

func (b *stalledBrowser) Screenshot(ctx context.Context, _ string, _, _ int) ([]byte, error) {
	b.once.Do(func() { close(b.started) })
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestSchedulerDropsFrameCancelledMidRender(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	store, err := settings.Open(dir, quiet())
	if err != nil {
		t.Fatalf("settings.Open: %v", err)
	}
	if err := store.Set("display.mode", "html"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	browser := &stalledBrowser{started: make(chan struct{})}
	r := render.New(store, render.Options{Screenshotter: browser, Logger: quiet()})
	preview := filepath.Join(dir, "preview.png")
	a := New(store, failingSources(), r, panel.NewSink(nil, store, preview, quiet()), quiet())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- NewScheduler(a, quiet()).Run(ctx) }()

	select {
	case <-browser.started:
	case <-time.After(5 * time.Second):
		t.Fatal("render never reached the browser")
	}
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop after cancel")
	}
	if _, err := os.Stat(preview); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("a frame was shown after cancel (stat err = %v)", err)
	}
}

func TestNextDelay(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 10, 9, 2, 30, 0, time.UTC)
	tests := []struct {
		name     string
		cron     string
		interval int
		want     time.Duration
		wantErr  bool
	}{
		{name: "interval", interval: 60, want: time.Minute},
		{name: "zero interval", interval: 0, want: FallbackInterval},
		{name: "negative interval", interval: -5, want: FallbackInterval},
		{name: "cron wins", cron: "*/5 * * * *", interval: 3600, want: 2*time.Minute + 30*time.Second},
		{name: "bad cron", cron: "every tuesday", interval: 120, want: 2 * time.Minute, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextDelay(tt.cron, tt.interval, now)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Fatalf("NextDelay = %s, want %s", got, tt.want)
			}
		})
	}
}
