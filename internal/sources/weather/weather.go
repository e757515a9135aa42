// Package weather reads current conditions and a short forecast from
// Open-Meteo.
package weather

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/mohammad-safakhou/smartdisplay/internal/sources"
	"github.com/mohammad-safakhou/smartdisplay/models"
)

const openMeteoURL = "https://api.open-meteo.com/v1/forecast"

// Now is the current weather. High and Low are nil when the daily block is
// missing.
type Now struct {
	TempC     float64
	WindKph   float64
	Code      int
	Condition string
	Icon      string
	High      *float64
	Low       *float64
	Hourly    []models.Point
}

// Options selects the location.
type Options struct {
	Lat float64
	Lon float64
}

// Client fetches forecasts.
type Client struct {
	HTTP    *sources.HTTPClient
	BaseURL string
}

// New returns a Client using http for transport.
func New(http *sources.HTTPClient) *Client {
	return &Client{HTTP: http, BaseURL: openMeteoURL}
}

type forecast struct {
	Current struct {
		Time        string  `json:"time"`
		Temperature float64 `json:"temperature_2m"`
		WindSpeed   float64 `json:"wind_speed_10m"`
		WeatherCode int     `json:"weather_code"`
	} `json:"current"`
	Hourly struct {
		Time        []string  `json:"time"`
		Temperature []float64 `json:"temperature_2m"`
	} `json:"hourly"`
	Daily struct {
		Max []float64 `json:"temperature_2m_max"`
		Min []float64 `json:"temperature_2m_min"`
	} `json:"daily"`
}

// Fetch returns the conditions at opts.
func (c *Client) Fetch(ctx context.Context, opts Options) sources.Result[Now] {
	var f forecast
	if err := c.HTTP.GetJSON(ctx, c.url(opts), &f); err != nil {
		return sources.Failedf[Now]("weather fetch: %w", err)
	}
	icon, cond := Describe(f.Current.WeatherCode)
	now := Now{
		TempC:     f.Current.Temperature,
		WindKph:   f.Current.WindSpeed,
		Code:      f.Current.WeatherCode,
		Condition: cond,
		Icon:      icon,
	}
	if len(f.Daily.Max) > 0 {
		hi := f.Daily.Max[0]
		now.High = &hi
	}
	if len(f.Daily.Min) > 0 {
		lo := f.Daily.Min[0]
		now.Low = &lo
	}
	now.Hourly = upcoming(f.Current.Time, f.Hourly.Time, f.Hourly.Temperature)
	return sources.OK(now)
}

// openMeteoTime is the local, zone-less layout Open-Meteo uses with
// timezone=auto.
const openMeteoTime = "2006-01-02T15:04"

// upcoming returns up to MaxHourlyPoints hourly temperatures starting at the
// hour containing current. An unparseable current time starts at the first
// entry.
func upcoming(current string, times []string, temps []float64) []models.Point {
	n := min(len(times), len(temps))
	start := 0
	if cur, err := time.Parse(openMeteoTime, current); err == nil {
		hour := cur.Truncate(time.Hour)
		for start < n {
			ts, err := time.Parse(openMeteoTime, times[start])
			if err != nil || !ts.Before(hour) {
				break
			}
			start++
		}
	}
	end := min(n, start+models.MaxHourlyPoints)
	out := make([]models.Point, 0, end-start)
	for i := start; i < end; i++ {
		out = append(out, models.Point{Label: hourLabel(times[i]), Value: temps[i]})
	}
	return out
}

func (c *Client) url(opts Options) string {
	base := c.BaseURL
	if base == "" {
		base = openMeteoURL
	}
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(opts.Lat, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(opts.Lon, 'f', -1, 64))
	q.Set("current", "temperature_2m,wind_speed_10m,weather_code")
	q.Set("hourly", "temperature_2m")
	q.Set("daily", "temperature_2m_max,temperature_2m_min")
	q.Set("timezone", "auto")
	return fmt.Sprintf("%s?%s", base, q.Encode())
}

// hourLabel keeps the HH:MM tail of an ISO timestamp.
func hourLabel(ts string) string {
	r := []rune(ts)
	if len(r) <= 5 {
		return ts
	}
	return string(r[len(r)-5:])
}

type glyph struct {
	icon string
	text string
}

var codes = map[int]glyph{
	0:  {"☀", "Clear"},
	1:  {"🌤", "Mainly clear"},
	2:  {"⛅", "Partly cloudy"},
	3:  {"☁", "Cloudy"},
	45: {"🌫", "Fog"},
	48: {"🌫", "Fog"},
	51: {"🌦", "Light drizzle"},
	61: {"🌧", "Rain"},
	71: {"🌨", "Snow"},
	80: {"🌦", "Showers"},
	95: {"⛈", "Thunderstorm"},
}

// Describe maps a WMO weather code to an icon glyph and a condition text.
// Unknown codes read as cloudy.
func Describe(code int) (icon, text string) {
	if g, ok := codes[code]; ok {
		return g.icon, g.text
	}
	return "☁", "Cloudy"
}
