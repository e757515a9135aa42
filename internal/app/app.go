// Package app ties the pieces together: it builds the render context from
// the collaborators, renders it and hands the frame to the sink, either
// once or on a schedule.
package app

import (
	"context"
	"image"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/mohammad-safakhou/smartdisplay/internal/panel"
	"github.com/mohammad-safakhou/smartdisplay/internal/render"
	"github.com/mohammad-safakhou/smartdisplay/internal/settings"
)

// DefaultWidgets is the widget-mode layout when settings name none.
var DefaultWidgets = []string{"agenda", "news", "market"}

// App renders frames from the current settings.
type App struct {
	Settings *settings.Store
	Sources  Sources
	Renderer *render.Renderer
	Sink     *panel.Sink
	Logger   *log.Logger
	Now      func() time.Time
}

// New returns an App. A nil logger logs with the [APP] prefix.
func New(store *settings.Store, src Sources, r *render.Renderer, sink *panel.Sink, logger *log.Logger) *App {
	if logger == nil {
		logger = log.New(log.Writer(), "[APP] ", log.LstdFlags)
	}
	return &App{Settings: store, Sources: src, Renderer: r, Sink: sink, Logger: logger, Now: time.Now}
}

func (a *App) now() time.Time {
	if a.Now == nil {
		return time.Now()
	}
	return a.Now()
}

// Widgets returns the enabled widget names in layout order.
func (a *App) Widgets() []string {
	return a.Settings.Strings("layout.enabled_widgets", DefaultWidgets)
}

// RenderImage builds a fresh context and renders it with widgets.
func (a *App) RenderImage(ctx context.Context, widgets []string) *image.RGBA {
	mc := a.BuildContext(ctx)
	return a.Renderer.Render(ctx, mc, widgets)
}

// RenderOnce renders and shows one frame. A frame whose render was cut
// short by ctx is dropped so the panel keeps the previous one.
func (a *App) RenderOnce(ctx context.Context, widgets []string) {
	id := uuid.NewString()
	start := time.Now()
	a.Logger.Printf("render %s: start mode=%s widgets=%v", id, a.Renderer.Mode(), widgets)
	img := a.RenderImage(ctx, widgets)
	if err := ctx.Err(); err != nil {
		a.Logger.Printf("render %s: discarded: %v", id, err)
		return
	}
	a.Sink.Show(img)
	a.Logger.Printf("render %s: shown %dx%d in %s", id, img.Bounds().Dx(), img.Bounds().Dy(), time.Since(start).Round(time.Millisecond))
}
