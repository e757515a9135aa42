package widget

import (
	"image"

	"github.com/fogleman/gg"
	"github.com/mohammad-safakhou/smartdisplay/models"
)

// News lists headlines as bullets, each cut to a single line.
type News struct {
	Style Style
}

func (n News) Draw(dc *gg.Context, r image.Rectangle, mc models.Context) {
	y := heading(dc, r, n.Style, "Top News")
	x := float64(r.Min.X + padX)
	maxW := float64(r.Dx() - 2*padX)

	dc.SetFontFace(n.Style.Fonts.Face(bodySize, false))
	if len(mc.Headlines) == 0 {
		dc.SetColor(n.Style.Muted)
		dc.DrawStringAnchored("No headlines", x, y, 0, 1)
		return
	}
	const rowH = 26.0
	dc.SetColor(n.Style.Foreground)
	for _, h := range mc.Headlines {
		if y+rowH > float64(r.Max.Y) {
			break
		}
		dc.DrawStringAnchored(fit(dc, "• "+h, maxW), x, y, 0, 1)
		y += rowH
	}
}
