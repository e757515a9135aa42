// Package widget draws the blocks of the widget-mode layout. Each widget
// owns one horizontal band of the canvas and draws the shared render
// context into it.
package widget

import (
	"fmt"
	"image"
	"image/color"
	"sort"
	"strings"

	"github.com/fogleman/gg"
	"github.com/mohammad-safakhou/smartdisplay/models"
)

// Widget draws into region of dc.
type Widget interface {
	Draw(dc *gg.Context, region image.Rectangle, mc models.Context)
}

// Style carries the theme colours and fonts every widget draws with.
type Style struct {
	Background color.Color
	Foreground color.Color
	Muted      color.Color
	Accent     color.Color
	Accent2    color.Color
	Fonts      *Fonts
}

// Constructor builds a widget for a style.
type Constructor func(Style) Widget

// Registry maps layout names to widget constructors.
type Registry map[string]Constructor

// Default returns the built-in widgets.
func Default() Registry {
	return Registry{
		"agenda":  func(s Style) Widget { return Agenda{Style: s} },
		"news":    func(s Style) Widget { return News{Style: s} },
		"market":  func(s Style) Widget { return Market{Style: s} },
		"weather": func(s Style) Widget { return Weather{Style: s} },
		"clock":   func(s Style) Widget { return Clock{Style: s} },
	}
}

// Has reports whether name is registered.
func (r Registry) Has(name string) bool {
	_, ok := r[normalizeName(name)]
	return ok
}

// New builds the widget called name.
func (r Registry) New(name string, s Style) (Widget, error) {
	ctor, ok := r[normalizeName(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownWidget, name)
	}
	return ctor(s), nil
}

// Names lists the registered widget names, sorted.
func (r Registry) Names() []string {
	out := make([]string, 0, len(r))
	for k := range r {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

const (
	padX        = 16
	headingSize = 22
	bodySize    = 18
	smallSize   = 14
)

// heading draws the band background and title, returning the y where body
// content starts.
func heading(dc *gg.Context, r image.Rectangle, s Style, title string) float64 {
	dc.SetColor(s.Background)
	dc.DrawRectangle(float64(r.Min.X), float64(r.Min.Y), float64(r.Dx()), float64(r.Dy()))
	dc.Fill()

	dc.SetFontFace(s.Fonts.Face(headingSize, true))
	dc.SetColor(s.Accent)
	dc.DrawStringAnchored(title, float64(r.Min.X+padX), float64(r.Min.Y+8), 0, 1)

	dc.SetColor(s.Muted)
	dc.SetLineWidth(1)
	y := float64(r.Min.Y) + 8 + headingSize + 6
	dc.DrawLine(float64(r.Min.X+padX), y, float64(r.Max.X-padX), y)
	dc.Stroke()
	return y + 10
}

// fit shortens s with an ellipsis until it is at most w pixels wide in the
// current face.
func fit(dc *gg.Context, s string, w float64) string {
	if w <= 0 {
		return ""
	}
	if tw, _ := dc.MeasureString(s); tw <= w {
		return s
	}
	r := []rune(s)
	for len(r) > 0 {
		r = r[:len(r)-1]
		cand := strings.TrimRight(string(r), " ") + "…"
		if tw, _ := dc.MeasureString(cand); tw <= w {
			return cand
		}
	}
	return ""
}
