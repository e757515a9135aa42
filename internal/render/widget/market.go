package widget

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/fogleman/gg"
	"github.com/mohammad-safakhou/smartdisplay/models"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var errShortSeries = errors.New("series too short")

// Market shows the quote line and a sparkline of the price history.
type Market struct {
	Style Style
}

func (m Market) Draw(dc *gg.Context, r image.Rectangle, mc models.Context) {
	y := heading(dc, r, m.Style, "Market")
	x := float64(r.Min.X + padX)
	q := mc.Market

	dc.SetFontFace(m.Style.Fonts.Face(headingSize, true))
	dc.SetColor(m.Style.Foreground)
	label := q.Symbol + "  " + q.Price
	dc.DrawStringAnchored(label, x, y, 0, 1)
	lw, _ := dc.MeasureString(label)

	if q.Price != models.Placeholder {
		dc.SetFontFace(m.Style.Fonts.Face(bodySize, false))
		dc.SetColor(m.Style.Accent)
		if q.ChangePct < 0 {
			dc.SetColor(m.Style.Accent2)
		}
		dc.DrawStringAnchored(fmt.Sprintf("(%+.2f%%)", q.ChangePct), x+lw+12, y+4, 0, 1)
	}

	top := int(y) + headingSize + 12
	w, h := r.Dx()-2*padX, r.Max.Y-top-8
	img, err := Sparkline(q.History, w, h, m.Style.Accent, m.Style.Background)
	if err != nil {
		return
	}
	dc.DrawImage(img, r.Min.X+padX, top)
}

// Sparkline renders values as a bare line chart of w×h pixels: no axes, no
// grid, stroke on fill.
func Sparkline(points []models.Point, w, h int, stroke, fill color.Color) (image.Image, error) {
	if len(points) < 2 || w < 16 || h < 16 {
		return nil, errShortSeries
	}
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i] = float64(i)
		ys[i] = p.Value
	}
	graph := chart.Chart{
		Width:  w,
		Height: h,
		Background: chart.Style{
			Padding:   chart.Box{Top: 4, Left: 4, Right: 4, Bottom: 4},
			FillColor: toDrawing(fill),
		},
		Canvas: chart.Style{FillColor: toDrawing(fill)},
		XAxis:  chart.XAxis{Style: chart.Hidden()},
		YAxis:  chart.YAxis{Style: chart.Hidden()},
		Series: []chart.Series{
			chart.ContinuousSeries{
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: toDrawing(stroke),
					StrokeWidth: 2,
				},
			},
		},
	}
	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render sparkline: %w", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("decode sparkline: %w", err)
	}
	return img, nil
}

func toDrawing(c color.Color) drawing.Color {
	if c == nil {
		return drawing.ColorBlack
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return drawing.Color{R: n.R, G: n.G, B: n.B, A: n.A}
}
