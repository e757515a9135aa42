package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/mohammad-safakhou/smartdisplay/config"
	"github.com/mohammad-safakhou/smartdisplay/internal/app"
	"github.com/mohammad-safakhou/smartdisplay/internal/panel"
	"github.com/mohammad-safakhou/smartdisplay/internal/render"
	"github.com/mohammad-safakhou/smartdisplay/internal/settings"
	"github.com/mohammad-safakhou/smartdisplay/internal/sources"
)

// deps is everything a command needs, built once per process.
type deps struct {
	cfg   *config.Config
	app   *app.App
	close func()
}

func logger(prefix string) *log.Logger {
	return log.New(log.Writer(), "["+prefix+"] ", log.LstdFlags)
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// bootstrap wires config, settings, collaborators, renderer and sink. Only
// an unusable settings location is fatal; a missing cache or panel degrades.
func bootstrap(ctx context.Context, cfgPath string) (*deps, error) {
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return nil, err
	}

	store, err := settings.Open(cfg.General.DataDir, logger("SETTINGS"))
	if err != nil {
		return nil, fmt.Errorf("open settings: %w", err)
	}

	var closers []func()
	srcLog := logger("SOURCES")
	var cache sources.Cache
	if r := cfg.Storage.Redis; r.Enabled() {
		client, err := sources.ConnRedis(ctx, r.Host, r.Port, r.Password, r.DB, r.Timeout)
		if err != nil {
			srcLog.Printf("fetch cache disabled: %v", err)
		} else {
			rc := sources.NewRedisCache(client, srcLog)
			cache = rc
			closers = append(closers, func() { _ = rc.Close() })
		}
	}
	httpc := sources.NewHTTPClient(cfg.Fetch.Timeout, cfg.Fetch.Retries, cfg.Fetch.Backoff, cache, cfg.Fetch.CacheTTL)

	renderer := render.New(store, render.Options{
		TemplatesDir:  underDataDir(cfg, cfg.Render.TemplatesDir),
		Screenshotter: render.Chrome{ExecPath: cfg.Render.ChromePath, Timeout: cfg.Render.Timeout},
		Logger:        logger("RENDER"),
	})

	panelLog := logger("PANEL")
	driver, err := panel.Open(cfg.Panel.Driver, panelLog)
	if err != nil {
		panelLog.Printf("panel unavailable, writing %s instead: %v", cfg.Panel.PreviewPath, err)
		driver = nil
	}
	sink := panel.NewSink(driver, store, underDataDir(cfg, cfg.Panel.PreviewPath), panelLog)
	closers = append(closers, func() { _ = sink.Close() })

	a := app.New(store, app.NewSources(httpc), renderer, sink, logger("APP"))
	return &deps{
		cfg: cfg,
		app: a,
		close: func() {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
		},
	}, nil
}

// underDataDir resolves a relative path against general.data_dir.
func underDataDir(cfg *config.Config, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(cfg.General.DataDir, p)
}

// listenAddr prefers the runtime config and falls back to server.host and
// server.port from the settings tree.
func (d *deps) listenAddr() string {
	if d.cfg.Server.Address != "" {
		return d.cfg.Server.Address
	}
	s := d.app.Settings
	return net.JoinHostPort(s.String("server.host", "0.0.0.0"), strconv.Itoa(s.Int("server.port", 8080)))
}
