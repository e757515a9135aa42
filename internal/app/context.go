package app

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/mohammad-safakhou/smartdisplay/internal/sources"
	"github.com/mohammad-safakhou/smartdisplay/internal/sources/calendar"
	"github.com/mohammad-safakhou/smartdisplay/internal/sources/market"
	"github.com/mohammad-safakhou/smartdisplay/internal/sources/news"
	"github.com/mohammad-safakhou/smartdisplay/internal/sources/weather"
	"github.com/mohammad-safakhou/smartdisplay/internal/telemetry"
	"github.com/mohammad-safakhou/smartdisplay/models"
)

// TimestampLayout formats the header timestamp, e.g. "Tue 10 Mar • 09:00".
const TimestampLayout = "Mon 02 Jan • 15:04"

type CalendarSource interface {
	Events(ctx context.Context, opts calendar.Options) sources.Result[[]calendar.Event]
}

type NewsSource interface {
	Headlines(ctx context.Context, opts news.Options) sources.Result[[]string]
}

type MarketSource interface {
	Quote(ctx context.Context, opts market.Options) sources.Result[market.Quote]
	History(ctx context.Context, opts market.Options, days int) sources.Result[[]models.Point]
}

type WeatherSource interface {
	Fetch(ctx context.Context, opts weather.Options) sources.Result[weather.Now]
}

// Sources groups the collaborators a render reads from.
type Sources struct {
	Calendar CalendarSource
	News     NewsSource
	Market   MarketSource
	Weather  WeatherSource
}

// NewSources wires the HTTP-backed collaborators around one client.
func NewSources(http *sources.HTTPClient) Sources {
	return Sources{
		Calendar: calendar.New(http),
		News:     news.New(http),
		Market:   market.New(http),
		Weather:  weather.New(http),
	}
}

// BuildContext queries every collaborator and assembles the render context.
// Collaborator failures become placeholders; this never fails.
func (a *App) BuildContext(ctx context.Context) models.Context {
	loc := a.location()
	now := a.now().In(loc)

	var (
		wg        sync.WaitGroup
		events    sources.Result[[]calendar.Event]
		headlines sources.Result[[]string]
		quote     sources.Result[market.Quote]
		history   sources.Result[[]models.Point]
		wx        sources.Result[weather.Now]
	)
	marketOpts := market.Options{
		Symbol:      a.Settings.String("data.market.symbol", "VWCE"),
		Provider:    a.Settings.String("data.market.provider", market.ProviderMock),
		HistoryDays: a.Settings.Int("data.market.history_days", market.DefaultHistoryDays),
	}

	wg.Add(4)
	go func() {
		defer wg.Done()
		events = a.Sources.Calendar.Events(ctx, calendar.Options{
			URL:           a.Settings.String("data.calendar.ics_url", ""),
			LookaheadDays: a.Settings.Int("data.calendar.lookahead_days", 3),
			Timezone:      loc.String(),
		})
	}()
	go func() {
		defer wg.Done()
		headlines = a.Sources.News.Headlines(ctx, news.Options{
			URL:   a.Settings.String("data.news.rss_url", ""),
			Limit: a.Settings.Int("data.news.limit", 3),
		})
	}()
	go func() {
		defer wg.Done()
		quote = a.Sources.Market.Quote(ctx, marketOpts)
		if quote.Ok() {
			history = a.Sources.Market.History(ctx, marketOpts, marketOpts.HistoryDays)
		}
	}()
	go func() {
		defer wg.Done()
		wx = a.Sources.Weather.Fetch(ctx, weather.Options{
			Lat: a.Settings.Float("data.weather.lat", 52.3676),
			Lon: a.Settings.Float("data.weather.lon", 4.9041),
		})
	}()
	wg.Wait()

	a.observe("calendar", events.Status, events.Err)
	a.observe("news", headlines.Status, headlines.Err)
	a.observe("market", quote.Status, quote.Err)
	a.observe("weather", wx.Status, wx.Err)

	return models.Context{
		Now:       now.Format(TimestampLayout),
		Agenda:    a.agenda(events.Or(nil)),
		Headlines: headlines.Or([]string{}),
		Market:    marketSummary(marketOpts.Symbol, quote, history),
		Weather:   weatherSummary(wx),
	}
}

func (a *App) observe(source string, status sources.Status, err error) {
	telemetry.ObserveSource(source, status.String())
	if status == sources.StatusFailed {
		a.Logger.Printf("%s unavailable, using placeholder: %v", source, err)
	}
}

func (a *App) agenda(events []calendar.Event) []models.AgendaEntry {
	layout := "15:04"
	if strings.EqualFold(a.Settings.String("data.calendar.clock", "24h"), "12h") {
		layout = "3:04 PM"
	}
	out := make([]models.AgendaEntry, 0, min(len(events), models.MaxAgendaEntries))
	for _, e := range events {
		if len(out) == models.MaxAgendaEntries {
			break
		}
		out = append(out, models.AgendaEntry{
			Time:     e.Start.Format(layout),
			Title:    e.Title,
			Location: e.Location,
		})
	}
	return out
}

func marketSummary(symbol string, quote sources.Result[market.Quote], history sources.Result[[]models.Point]) models.MarketSummary {
	if !quote.Ok() {
		return models.MarketSummary{Symbol: symbol, Price: models.Placeholder, History: []models.Point{}}
	}
	return models.MarketSummary{
		Symbol:    quote.Value.Symbol,
		Price:     fmt.Sprintf("%.2f", quote.Value.Price),
		ChangePct: round2(quote.Value.ChangePct),
		History:   history.Or([]models.Point{}),
	}
}

func weatherSummary(wx sources.Result[weather.Now]) models.WeatherSummary {
	if !wx.Ok() {
		return models.WeatherSummary{
			Temp:   models.Placeholder,
			Icon:   models.PlaceholderIcon,
			Hourly: []models.Point{},
		}
	}
	w := wx.Value
	out := models.WeatherSummary{
		Temp:      fmt.Sprintf("%.0f°C", w.TempC),
		Condition: w.Condition,
		Icon:      w.Icon,
		Hourly:    w.Hourly,
	}
	if w.High != nil {
		out.High = fmt.Sprintf("%.0f°", *w.High)
	}
	if w.Low != nil {
		out.Low = fmt.Sprintf("%.0f°", *w.Low)
	}
	if out.Hourly == nil {
		out.Hourly = []models.Point{}
	}
	return out
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func (a *App) location() *time.Location {
	name := a.Settings.String("data.calendar.timezone", "")
	if name == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.Local
	}
	return loc
}
