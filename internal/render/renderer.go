// Package render turns a render context into a canvas, either through an
// HTML template screenshotted by a headless browser or by drawing widgets
// directly.
package render

import (
	"bytes"
	"context"
	"image"
	"image/draw"
	"image/png"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/mohammad-safakhou/smartdisplay/internal/helpers"
	"github.com/mohammad-safakhou/smartdisplay/internal/render/widget"
	"github.com/mohammad-safakhou/smartdisplay/internal/telemetry"
	"github.com/mohammad-safakhou/smartdisplay/models"
)

const (
	ModeHTML    = "html"
	ModeWidgets = "pil"
)

// Options configure a Renderer. Zero values select the defaults.
type Options struct {
	TemplatesDir  string
	Screenshotter Screenshotter
	Widgets       widget.Registry
	Logger        *log.Logger
}

// Renderer produces one canvas per call. Calls are serialised.
type Renderer struct {
	mu       sync.Mutex
	settings Settings
	shooter  Screenshotter
	widgets  widget.Registry
	tplDir   string
	logger   *log.Logger

	fontPath string
	fonts    *widget.Fonts
}

// New builds a renderer reading display.* and theme.* from settings on
// every render.
func New(settings Settings, opts Options) *Renderer {
	r := &Renderer{
		settings: settings,
		shooter:  opts.Screenshotter,
		widgets:  opts.Widgets,
		tplDir:   opts.TemplatesDir,
		logger:   opts.Logger,
	}
	if r.shooter == nil {
		r.shooter = Chrome{}
	}
	if r.widgets == nil {
		r.widgets = widget.Default()
	}
	if r.logger == nil {
		r.logger = log.New(log.Writer(), "[RENDER] ", log.LstdFlags)
	}
	return r
}

// Mode returns the configured render mode.
func (r *Renderer) Mode() string {
	switch m := strings.ToLower(strings.TrimSpace(r.settings.String("display.mode", ModeHTML))); m {
	case "pil", "widgets", "widget":
		return ModeWidgets
	default:
		return ModeHTML
	}
}

// Size is the logical canvas for the configured orientation.
func (r *Renderer) Size() image.Point {
	return CanvasSize(r.settings.String("display.orientation", "portrait"))
}

// Render draws mc. It never fails: templated-mode problems produce a
// same-size diagnostic image instead.
func (r *Renderer) Render(ctx context.Context, mc models.Context, widgets []string) *image.RGBA {
	r.mu.Lock()
	defer r.mu.Unlock()

	start := time.Now()
	mode := r.Mode()
	size := r.Size()
	theme := ThemeFrom(r.settings)
	if c := theme.Contrast(); c < helpers.MinContrast {
		r.logger.Printf("theme text %s on %s has contrast %.1f:1, may be unreadable on e-paper", theme.Primary, theme.Background, c)
	}

	if mode == ModeWidgets {
		img := r.drawWidgets(size, theme, mc, widgets)
		telemetry.ObserveRender(mode, "ok", time.Since(start))
		return img
	}

	img, err := r.renderHTML(ctx, size, theme, mc)
	if err != nil {
		r.logger.Printf("html render failed, using diagnostic image: %v", err)
		telemetry.ObserveRender(mode, "fallback", time.Since(start))
		return ErrorImage(size, err)
	}
	telemetry.ObserveRender(mode, "ok", time.Since(start))
	return img
}

func (r *Renderer) renderHTML(ctx context.Context, size image.Point, theme Theme, mc models.Context) (*image.RGBA, error) {
	name := r.settings.String("display.template", DefaultTemplate)
	page, err := Page(r.tplDir, name, theme, mc)
	if err != nil {
		return nil, stageError(KindTemplate, err)
	}
	shot, err := r.shooter.Screenshot(ctx, page, size.X, size.Y)
	if err != nil {
		return nil, stageError(KindBrowser, err)
	}
	decoded, err := png.Decode(bytes.NewReader(shot))
	if err != nil {
		return nil, stageError(KindDecode, err)
	}
	return toCanvas(decoded, size), nil
}

// toCanvas converts img to RGBA at exactly size, resampling if the browser
// returned a different size (e.g. a device scale factor above 1).
func toCanvas(img image.Image, size image.Point) *image.RGBA {
	if b := img.Bounds(); b.Dx() != size.X || b.Dy() != size.Y {
		img = imaging.Resize(img, size.X, size.Y, imaging.Lanczos)
	}
	out := image.NewRGBA(image.Rectangle{Max: size})
	draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Src)
	return out
}

func (r *Renderer) drawWidgets(size image.Point, theme Theme, mc models.Context, names []string) *image.RGBA {
	canvas := NewCanvas(size, theme.BackgroundColor())
	style := theme.style(r.loadFonts(theme.Font))

	var ws []widget.Widget
	for _, name := range names {
		w, err := r.widgets.New(name, style)
		if err != nil {
			r.logger.Printf("skipping widget: %v", err)
			continue
		}
		ws = append(ws, w)
	}
	if len(ws) == 0 {
		return canvas
	}

	dc := gg.NewContextForRGBA(canvas)
	for i, band := range Bands(size, len(ws)) {
		dc.Push()
		dc.DrawRectangle(float64(band.Min.X), float64(band.Min.Y), float64(band.Dx()), float64(band.Dy()))
		dc.Clip()
		ws[i].Draw(dc, band, mc)
		dc.Pop()
	}
	return canvas
}

// loadFonts caches the parsed theme font; a font that cannot be loaded
// falls back to the bundled one.
func (r *Renderer) loadFonts(path string) *widget.Fonts {
	if r.fonts != nil && r.fontPath == path {
		return r.fonts
	}
	fonts, err := widget.LoadFonts(path)
	if err != nil {
		r.logger.Printf("theme font: %v", err)
		fonts, _ = widget.LoadFonts("")
	}
	r.fontPath, r.fonts = path, fonts
	return fonts
}
