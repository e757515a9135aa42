package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image/png"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mohammad-safakhou/smartdisplay/internal/app"
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

var errOffline = errors.New("offline")

type offline struct{}

func (offline) Events(context.Context, calendar.Options) sources.Result[[]calendar.Event] {
	return sources.Failed[[]calendar.Event](errOffline)
}

func (offline) Headlines(context.Context, news.Options) sources.Result[[]string] {
	return sources.Failed[[]string](errOffline)
}

func (offline) Quote(context.Context, market.Options) sources.Result[market.Quote] {
	return sources.Failed[market.Quote](errOffline)
}

func (offline) History(context.Context, market.Options, int) sources.Result[[]models.Point] {
	return sources.Failed[[]models.Point](errOffline)
}

func (offline) Fetch(context.Context, weather.Options) sources.Result[weather.Now] {
	return sources.Failed[weather.Now](errOffline)
}

func newTestServer(t *testing.T) (*Server, *settings.Store) {
	t.Helper()
	quiet := log.New(io.Discard, "", 0)
	dir := t.TempDir()
	store, err := settings.Open(dir, quiet)
	if err != nil {
		t.Fatalf("settings.Open: %v", err)
	}
	if err := store.Set("display.mode", "pil"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	src := app.Sources{Calendar: offline{}, News: offline{}, Market: offline{}, Weather: offline{}}
	r := render.New(store, render.Options{Logger: quiet})
	sink := panel.NewSink(nil, store, filepath.Join(dir, "preview.png"), quiet)
	return New(app.New(store, src, r, sink, quiet), quiet), store
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestGetSettings(t *testing.T) {
	t.Parallel()
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/api/settings", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	display, _ := got["display"].(map[string]any)
	if display["mode"] != "pil" || display["orientation"] != "portrait" {
		t.Fatalf("display = %v", display)
	}
	if !strings.HasPrefix(rec.Body.String(), `{"refresh":`) {
		t.Fatalf("settings not in default key order: %s", rec.Body.String()[:40])
	}
}

func TestPostSettingsMergesAndSaves(t *testing.T) {
	t.Parallel()
	s, store := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/api/settings", `{"display.orientation":"landscape","data.news.limit":"5","theme.new_key":"x"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	if strings.TrimSpace(rec.Body.String()) != `{"ok":true}` {
		t.Fatalf("body = %s", rec.Body.String())
	}
	if store.String("display.orientation", "") != "landscape" || store.Int("data.news.limit", 0) != 5 {
		t.Fatalf("settings not applied")
	}

	reloaded, err := settings.Open(filepath.Dir(filepath.Dir(store.Path())), log.New(io.Discard, "", 0))
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if reloaded.String("theme.new_key", "") != "x" {
		t.Fatalf("settings not persisted")
	}
}

func TestPostSettingsRejectsBadInput(t *testing.T) {
	t.Parallel()
	s, _ := newTestServer(t)
	tests := []struct {
		name string
		body string
	}{
		{"not json", `display.mode=pil`},
		{"array", `["display.mode"]`},
		{"empty key", `{"":"x"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/api/settings", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body["error"] == "" {
				t.Fatalf("error body = %s", rec.Body.String())
			}
		})
	}
}

func TestPreviewPNG(t *testing.T) {
	t.Parallel()
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/api/preview.png", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Fatalf("content type = %q", ct)
	}
	img, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 480 || b.Dy() != 800 {
		t.Fatalf("preview = %v, want 480x800", b)
	}
}

func TestRenderNowWithoutPanel(t *testing.T) {
	t.Parallel()
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/api/render", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["ok"] != true || body["target"] != "preview" {
		t.Fatalf("body = %v", body)
	}
}

func TestIndexAndHealth(t *testing.T) {
	t.Parallel()
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `name="display.orientation"`) {
		t.Fatalf("index: %d", rec.Code)
	}
	if rec := do(t, s, http.MethodGet, "/healthz", ""); rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("healthz: %d %q", rec.Code, rec.Body.String())
	}
	if rec := do(t, s, http.MethodGet, "/metrics", ""); rec.Code != http.StatusOK {
		t.Fatalf("metrics: %d", rec.Code)
	}
	rec = do(t, s, http.MethodGet, "/nope", "")
	if rec.Code != http.StatusNotFound || !strings.Contains(rec.Body.String(), `"error"`) {
		t.Fatalf("404 body = %d %s", rec.Code, rec.Body.String())
	}
}
