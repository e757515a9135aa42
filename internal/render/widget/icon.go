package widget

import (
	"image/color"
	"math"

	"github.com/fogleman/gg"
)

// The bundled fonts carry no emoji, so weather glyphs are drawn as shapes.

type iconKind int

const (
	iconCloud iconKind = iota
	iconSun
	iconSunCloud
	iconFog
	iconRain
	iconSnow
	iconStorm
)

var iconKinds = map[string]iconKind{
	"☀": iconSun,
	"🌤": iconSunCloud,
	"⛅": iconSunCloud,
	"☁": iconCloud,
	"🌫": iconFog,
	"🌦": iconRain,
	"🌧": iconRain,
	"🌨": iconSnow,
	"⛈": iconStorm,
}

// drawIcon draws the glyph for icon in the size×size square at (x, y).
// Unknown glyphs draw a cloud.
func drawIcon(dc *gg.Context, icon string, x, y, size float64, fg, accent color.Color) {
	kind := iconKinds[icon]
	s := size
	dc.Push()
	defer dc.Pop()
	dc.SetLineWidth(math.Max(1.5, s/20))

	switch kind {
	case iconSun:
		sun(dc, x+s/2, y+s/2, s/2, accent)
	case iconSunCloud:
		sun(dc, x+s*0.35, y+s*0.35, s*0.33, accent)
		cloud(dc, x+s*0.15, y+s*0.35, s*0.85, fg)
	case iconFog:
		dc.SetColor(fg)
		for i := 0; i < 3; i++ {
			ly := y + s*(0.3+0.2*float64(i))
			dc.DrawLine(x+s*0.1, ly, x+s*0.9, ly)
		}
		dc.Stroke()
	case iconRain, iconSnow, iconStorm:
		cloud(dc, x, y, s, fg)
		dc.SetColor(accent)
		for i := 0; i < 3; i++ {
			dx := x + s*(0.3+0.2*float64(i))
			switch kind {
			case iconRain:
				dc.DrawLine(dx, y+s*0.72, dx-s*0.06, y+s*0.92)
				dc.Stroke()
			case iconSnow:
				dc.DrawCircle(dx, y+s*0.82, s*0.04)
				dc.Fill()
			}
		}
		if kind == iconStorm {
			dc.MoveTo(x+s*0.55, y+s*0.6)
			dc.LineTo(x+s*0.42, y+s*0.8)
			dc.LineTo(x+s*0.54, y+s*0.8)
			dc.LineTo(x+s*0.44, y+s)
			dc.Stroke()
		}
	default:
		cloud(dc, x, y, s, fg)
	}
}

func sun(dc *gg.Context, cx, cy, r float64, c color.Color) {
	dc.SetColor(c)
	dc.DrawCircle(cx, cy, r*0.5)
	dc.Fill()
	for i := 0; i < 8; i++ {
		a := float64(i) * math.Pi / 4
		dc.DrawLine(cx+math.Cos(a)*r*0.65, cy+math.Sin(a)*r*0.65, cx+math.Cos(a)*r*0.95, cy+math.Sin(a)*r*0.95)
	}
	dc.Stroke()
}

// cloud fills the upper two thirds of the s×s square at (x, y).
func cloud(dc *gg.Context, x, y, s float64, c color.Color) {
	dc.SetColor(c)
	dc.DrawCircle(x+s*0.35, y+s*0.45, s*0.18)
	dc.DrawCircle(x+s*0.58, y+s*0.38, s*0.22)
	dc.DrawRoundedRectangle(x+s*0.15, y+s*0.42, s*0.7, s*0.22, s*0.1)
	dc.Fill()
}
