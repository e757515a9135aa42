package weather

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/mohammad-safakhou/smartdisplay/internal/sources"
)

func TestDescribe(t *testing.T) {
	t.Parallel()
	tests := []struct {
		code int
		icon string
		text string
	}{
		{0, "☀", "Clear"},
		{3, "☁", "Cloudy"},
		{48, "🌫", "Fog"},
		{61, "🌧", "Rain"},
		{95, "⛈", "Thunderstorm"},
		{999, "☁", "Cloudy"},
		{-1, "☁", "Cloudy"},
	}
	for _, tt := range tests {
		icon, text := Describe(tt.code)
		if icon != tt.icon || text != tt.text {
			t.Fatalf("Describe(%d) = (%q, %q), want (%q, %q)", tt.code, icon, text, tt.icon, tt.text)
		}
	}
}

const forecastJSON = `{
  "current": {"temperature_2m": 11.6, "wind_speed_10m": 14.2, "weather_code": 61},
  "hourly": {
    "time": ["2026-03-10T00:00","2026-03-10T01:00","2026-03-10T02:00","2026-03-10T03:00",
             "2026-03-10T04:00","2026-03-10T05:00","2026-03-10T06:00","2026-03-10T07:00"],
    "temperature_2m": [9.1, 8.8, 8.4, 8.0, 7.9, 7.7, 7.8, 8.5]
  },
  "daily": {"temperature_2m_max": [13.2], "temperature_2m_min": [6.4]}
}`

func TestFetch(t *testing.T) {
	t.Parallel()
	var gotLat string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLat = r.URL.Query().Get("latitude")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(forecastJSON))
	}))
	defer srv.Close()

	c := New(sources.NewHTTPClient(time.Second, 0, 0, nil, 0))
	c.BaseURL = srv.URL
	res := c.Fetch(context.Background(), Options{Lat: 52.3676, Lon: 4.9041})
	if !res.Ok() {
		t.Fatalf("Fetch: %v", res)
	}
	if gotLat != "52.3676" {
		t.Fatalf("latitude = %q", gotLat)
	}
	now := res.Value
	if now.Icon != "🌧" || now.Condition != "Rain" || now.TempC != 11.6 {
		t.Fatalf("now = %+v", now)
	}
	if now.High == nil || *now.High != 13.2 || now.Low == nil || *now.Low != 6.4 {
		t.Fatalf("hi/lo = %v/%v", now.High, now.Low)
	}
	if len(now.Hourly) != 6 {
		t.Fatalf("hourly has %d points, want 6", len(now.Hourly))
	}
	if now.Hourly[0].Label != "00:00" || now.Hourly[5].Label != "05:00" || now.Hourly[5].Value != 7.7 {
		t.Fatalf("hourly = %+v", now.Hourly)
	}
}

func TestFetchWithoutDaily(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"current": {"temperature_2m": 3, "weather_code": 999}}`))
	}))
	defer srv.Close()

	c := New(sources.NewHTTPClient(time.Second, 0, 0, nil, 0))
	c.BaseURL = srv.URL
	res := c.Fetch(context.Background(), Options{})
	if !res.Ok() {
		t.Fatalf("Fetch: %v", res)
	}
	if res.Value.High != nil || res.Value.Low != nil || len(res.Value.Hourly) != 0 {
		t.Fatalf("now = %+v", res.Value)
	}
	if res.Value.Condition != "Cloudy" {
		t.Fatalf("condition = %q", res.Value.Condition)
	}
}

func TestFetchServerError(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(sources.NewHTTPClient(time.Second, 0, 0, nil, 0))
	c.BaseURL = srv.URL
	if res := c.Fetch(context.Background(), Options{}); res.Status != sources.StatusFailed {
		t.Fatalf("status = %v, want failed", res.Status)
	}
}

func TestFetchHourlyStartsAtCurrentHour(t *testing.T) {
	t.Parallel()
	var times, temps []string
	for h := 0; h < 24; h++ {
		times = append(times, fmt.Sprintf(`"2026-03-10T%02d:00"`, h))
		temps = append(temps, strconv.Itoa(h))
	}
	hourly := `"hourly": {"time": [` + strings.Join(times, ",") + `], "temperature_2m": [` + strings.Join(temps, ",") + `]}`

	tests := []struct {
		name    string
		current string
		labels  []string
	}{
		{"afternoon", "2026-03-10T15:15", []string{"15:00", "16:00", "17:00", "18:00", "19:00", "20:00"}},
		{"on the hour", "2026-03-10T03:00", []string{"03:00", "04:00", "05:00", "06:00", "07:00", "08:00"}},
		{"late evening", "2026-03-10T21:45", []string{"21:00", "22:00", "23:00"}},
		{"missing time", "", []string{"00:00", "01:00", "02:00", "03:00", "04:00", "05:00"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := `{"current": {"time": "` + tt.current + `", "temperature_2m": 8, "weather_code": 3}, ` + hourly + `}`
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			}))
			defer srv.Close()

			c := New(sources.NewHTTPClient(time.Second, 0, 0, nil, 0))
			c.BaseURL = srv.URL
			res := c.Fetch(context.Background(), Options{})
			if !res.Ok() {
				t.Fatalf("Fetch: %v", res)
			}
			got := res.Value.Hourly
			if len(got) != len(tt.labels) {
				t.Fatalf("hourly = %+v, want labels %v", got, tt.labels)
			}
			for i, p := range got {
				if p.Label != tt.labels[i] {
					t.Fatalf("hourly[%d] = %+v, want label %s", i, p, tt.labels[i])
				}
			}
			if first, _ := strconv.Atoi(tt.labels[0][:2]); got[0].Value != float64(first) {
				t.Fatalf("hourly[0].Value = %v, want %d", got[0].Value, first)
			}
		})
	}
}
