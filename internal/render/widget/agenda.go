package widget

import (
	"image"

	"github.com/fogleman/gg"
	"github.com/mohammad-safakhou/smartdisplay/models"
)

// Agenda lists upcoming events, one per row.
type Agenda struct {
	Style Style
}

func (a Agenda) Draw(dc *gg.Context, r image.Rectangle, mc models.Context) {
	y := heading(dc, r, a.Style, "Agenda")
	x := float64(r.Min.X + padX)
	maxW := float64(r.Dx() - 2*padX)

	if len(mc.Agenda) == 0 {
		dc.SetFontFace(a.Style.Fonts.Face(bodySize, false))
		dc.SetColor(a.Style.Muted)
		dc.DrawStringAnchored("No upcoming events", x, y, 0, 1)
		return
	}

	const rowH = 28.0
	timeFace := a.Style.Fonts.Face(bodySize, true)
	bodyFace := a.Style.Fonts.Face(bodySize, false)
	for _, e := range mc.Agenda {
		if y+rowH > float64(r.Max.Y) {
			break
		}
		dc.SetFontFace(timeFace)
		dc.SetColor(a.Style.Accent)
		dc.DrawStringAnchored(e.Time, x, y, 0, 1)
		tw, _ := dc.MeasureString("00:00 PM")

		dc.SetFontFace(bodyFace)
		line := e.Title
		if e.Location != "" {
			line += "  ·  " + e.Location
		}
		dc.SetColor(a.Style.Foreground)
		dc.DrawStringAnchored(fit(dc, line, maxW-tw-12), x+tw+12, y, 0, 1)
		y += rowH
	}
}
