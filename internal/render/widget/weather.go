package widget

import (
	"fmt"
	"image"

	"github.com/fogleman/gg"
	"github.com/mohammad-safakhou/smartdisplay/models"
)

const iconSize = 44

// Weather shows an icon, the current temperature and condition, the day's
// range and a row of hourly temperatures.
type Weather struct {
	Style Style
}

func (w Weather) Draw(dc *gg.Context, r image.Rectangle, mc models.Context) {
	y := heading(dc, r, w.Style, "Weather")
	x := float64(r.Min.X + padX)
	wx := mc.Weather

	if wx.Icon != "" {
		drawIcon(dc, wx.Icon, x, y, iconSize, w.Style.Foreground, w.Style.Accent)
		x += iconSize + 12
	}

	dc.SetFontFace(w.Style.Fonts.Face(36, true))
	dc.SetColor(w.Style.Foreground)
	dc.DrawStringAnchored(wx.Temp, x, y, 0, 1)
	tw, _ := dc.MeasureString(wx.Temp)

	dc.SetFontFace(w.Style.Fonts.Face(bodySize, false))
	dc.DrawStringAnchored(wx.Condition, x+tw+16, y+2, 0, 1)
	if wx.High != "" || wx.Low != "" {
		dc.SetColor(w.Style.Muted)
		dc.DrawStringAnchored(fmt.Sprintf("H %s  L %s", wx.High, wx.Low), x+tw+16, y+24, 0, 1)
	}

	if len(wx.Hourly) == 0 {
		return
	}
	rowY := y + 56
	if rowY+2*smallSize > float64(r.Max.Y) {
		return
	}
	x = float64(r.Min.X + padX)
	col := float64(r.Dx()-2*padX) / float64(len(wx.Hourly))
	dc.SetFontFace(w.Style.Fonts.Face(smallSize, false))
	for i, p := range wx.Hourly {
		cx := x + col*float64(i) + col/2
		dc.SetColor(w.Style.Muted)
		dc.DrawStringAnchored(p.Label, cx, rowY, 0.5, 1)
		dc.SetColor(w.Style.Foreground)
		dc.DrawStringAnchored(fmt.Sprintf("%.0f°", p.Value), cx, rowY+smallSize+6, 0.5, 1)
	}
}

// Clock is a header band with the render timestamp.
type Clock struct {
	Style Style
}

func (c Clock) Draw(dc *gg.Context, r image.Rectangle, mc models.Context) {
	dc.SetColor(c.Style.Background)
	dc.DrawRectangle(float64(r.Min.X), float64(r.Min.Y), float64(r.Dx()), float64(r.Dy()))
	dc.Fill()

	size := float64(r.Dy()) / 3
	if size > 48 {
		size = 48
	}
	if size < 12 {
		size = 12
	}
	dc.SetFontFace(c.Style.Fonts.Face(size, true))
	dc.SetColor(c.Style.Foreground)
	cx := float64(r.Min.X) + float64(r.Dx())/2
	cy := float64(r.Min.Y) + float64(r.Dy())/2
	dc.DrawStringAnchored(fit(dc, mc.Now, float64(r.Dx()-2*padX)), cx, cy, 0.5, 0.5)
}
