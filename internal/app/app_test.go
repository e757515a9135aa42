package app

import (
	"context"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mohammad-safakhou/smartdisplay/internal/panel"
	"github.com/mohammad-safakhou/smartdisplay/internal/render"
	"github.com/mohammad-safakhou/smartdisplay/internal/settings"
	"github.com/mohammad-safakhou/smartdisplay/internal/sources"
	"github.com/mohammad-safakhou/smartdisplay/internal/sources/calendar"
	"github.com/mohammad-safakhou/smartdisplay/internal/sources/market"
	"github.com/mohammad-safakhou/smartdisplay/internal/sources/news"
	"github.com/mohammad-safakhou/smartdisplay/internal/sources/weather"
	"github.com/mohammad-safakhou/smartdisplay/models"
)

var errDown = errors.New("upstream down")

type fakeCalendar struct {
	res   sources.Result[[]calendar.Event]
	calls atomic.Int32
	hook  func(n int32)
}

func (f *fakeCalendar) Events(context.Context, calendar.Options) sources.Result[[]calendar.Event] {
	n := f.calls.Add(1)
	if f.hook != nil {
		f.hook(n)
	}
	return f.res
}

type fakeNews struct{ res sources.Result[[]string] }

func (f fakeNews) Headlines(context.Context, news.Options) sources.Result[[]string] { return f.res }

type fakeMarket struct {
	quote   sources.Result[market.Quote]
	history sources.Result[[]models.Point]
}

func (f fakeMarket) Quote(context.Context, market.Options) sources.Result[market.Quote] {
	return f.quote
}

func (f fakeMarket) History(context.Context, market.Options, int) sources.Result[[]models.Point] {
	return f.history
}

type fakeWeather struct{ res sources.Result[weather.Now] }

func (f fakeWeather) Fetch(context.Context, weather.Options) sources.Result[weather.Now] {
	return f.res
}

func quiet() *log.Logger { return log.New(io.Discard, "", 0) }

func newTestApp(t *testing.T, src Sources) *App {
	t.Helper()
	dir := t.TempDir()
	store, err := settings.Open(dir, quiet())
	if err != nil {
		t.Fatalf("settings.Open: %v", err)
	}
	if err := store.Set("data.calendar.timezone", "UTC"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := store.Set("display.mode", "pil"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	r := render.New(store, render.Options{Logger: quiet()})
	sink := panel.NewSink(nil, store, filepath.Join(dir, "preview.png"), quiet())
	a := New(store, src, r, sink, quiet())
	a.Now = func() time.Time { return time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC) }
	return a
}

func failingSources() Sources {
	return Sources{
		Calendar: &fakeCalendar{res: sources.Failed[[]calendar.Event](errDown)},
		News:     fakeNews{res: sources.Failed[[]string](errDown)},
		Market:   fakeMarket{quote: sources.Failed[market.Quote](errDown)},
		Weather:  fakeWeather{res: sources.Failed[weather.Now](errDown)},
	}
}

func TestBuildContextPlaceholdersOnFailure(t *testing.T) {
	t.Parallel()
	a := newTestApp(t, failingSources())
	mc := a.BuildContext(context.Background())

	if mc.Now != "Tue 10 Mar • 09:00" {
		t.Fatalf("Now = %q", mc.Now)
	}
	if mc.Agenda == nil || len(mc.Agenda) != 0 {
		t.Fatalf("agenda = %#v, want empty", mc.Agenda)
	}
	if mc.Headlines == nil || len(mc.Headlines) != 0 {
		t.Fatalf("headlines = %#v, want empty", mc.Headlines)
	}
	m := mc.Market
	if m.Symbol != "VWCE" || m.Price != "-" || m.ChangePct != 0 || len(m.History) != 0 {
		t.Fatalf("market = %+v", m)
	}
	w := mc.Weather
	if w.Temp != "-" || w.Condition != "" || w.Icon != "☁" || w.High != "" || w.Low != "" || len(w.Hourly) != 0 {
		t.Fatalf("weather = %+v", w)
	}
}

func TestBuildContextFormatsValues(t *testing.T) {
	t.Parallel()
	start := time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)
	var events []calendar.Event
	for i := 0; i < 8; i++ {
		s := start.Add(time.Duration(i) * time.Hour)
		events = append(events, calendar.Event{Start: s, End: s.Add(time.Hour), Title: "Event", Location: "Room"})
	}
	hi, lo := 13.2, 6.4
	src := Sources{
		Calendar: &fakeCalendar{res: sources.OK(events)},
		News:     fakeNews{res: sources.OK([]string{"One", "Two"})},
		Market: fakeMarket{
			quote:   sources.OK(market.Quote{Symbol: "VWCE", Price: 102.35, ChangePct: 0.4249}),
			history: sources.OK([]models.Point{{Label: "0", Value: 98.8}, {Label: "1", Value: 99.6}}),
		},
		Weather: fakeWeather{res: sources.OK(weather.Now{
			TempC: 11.6, Condition: "Rain", Icon: "🌧", High: &hi, Low: &lo,
			Hourly: []models.Point{{Label: "10:00", Value: 9}},
		})},
	}
	a := newTestApp(t, src)
	mc := a.BuildContext(context.Background())

	if len(mc.Agenda) != models.MaxAgendaEntries {
		t.Fatalf("agenda has %d entries, want %d", len(mc.Agenda), models.MaxAgendaEntries)
	}
	if mc.Agenda[0].Time != "09:30" || mc.Agenda[5].Time != "14:30" {
		t.Fatalf("agenda times = %q .. %q", mc.Agenda[0].Time, mc.Agenda[5].Time)
	}
	if len(mc.Headlines) != 2 {
		t.Fatalf("headlines = %v", mc.Headlines)
	}
	if mc.Market.Price != "102.35" || mc.Market.ChangePct != 0.42 || len(mc.Market.History) != 2 {
		t.Fatalf("market = %+v", mc.Market)
	}
	w := mc.Weather
	if w.Temp != "12°C" || w.High != "13°" || w.Low != "6°" || w.Icon != "🌧" || len(w.Hourly) != 1 {
		t.Fatalf("weather = %+v", w)
	}

	if err := a.Settings.Set("data.calendar.clock", "12h"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	mc = a.BuildContext(context.Background())
	if mc.Agenda[4].Time != "1:30 PM" {
		t.Fatalf("12h agenda time = %q", mc.Agenda[4].Time)
	}
}

func TestBuildContextHeaderUsesCalendarTimezone(t *testing.T) {
	t.Parallel()
	a := newTestApp(t, failingSources())
	if err := a.Settings.Set("data.calendar.timezone", "Europe/Amsterdam"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	// 09:00 UTC in March is 10:00 CET.
	if got := a.BuildContext(context.Background()).Now; got != "Tue 10 Mar • 10:00" {
		t.Fatalf("Now = %q", got)
	}
}

func TestRenderOnceWritesPreview(t *testing.T) {
	t.Parallel()
	a := newTestApp(t, failingSources())
	a.RenderOnce(context.Background(), a.Widgets())
	if _, err := os.Stat(a.Sink.PreviewPath()); err != nil {
		t.Fatalf("preview not written: %v", err)
	}
}

func TestWidgetsFromSettings(t *testing.T) {
	t.Parallel()
	a := newTestApp(t, failingSources())
	if got := a.Widgets(); len(got) != 3 || got[0] != "agenda" || got[2] != "market" {
		t.Fatalf("Widgets() = %v", got)
	}
	if err := a.Settings.Set("layout.enabled_widgets", "news, weather"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := a.Widgets(); len(got) != 2 || got[1] != "weather" {
		t.Fatalf("Widgets() = %v", got)
	}
}
