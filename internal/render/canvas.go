package render

import (
	"image"
	"image/color"
	"image/draw"
	"strconv"
	"strings"
)

// Base landscape size of the panel. Portrait swaps the axes.
const (
	BaseWidth  = 800
	BaseHeight = 480
)

// CanvasSize returns the logical canvas for an orientation.
func CanvasSize(orientation string) image.Point {
	if IsPortrait(orientation) {
		return image.Pt(BaseHeight, BaseWidth)
	}
	return image.Pt(BaseWidth, BaseHeight)
}

// IsPortrait reports whether orientation selects portrait. Empty means
// portrait.
func IsPortrait(orientation string) bool {
	o := strings.ToLower(strings.TrimSpace(orientation))
	return o == "" || o == "portrait"
}

// NewCanvas returns a size canvas filled with bg.
func NewCanvas(size image.Point, bg color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rectangle{Max: size})
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	return img
}

// Bands splits size into n full-width horizontal bands of floor(H/n) pixels.
// Any remainder rows stay below the last band.
func Bands(size image.Point, n int) []image.Rectangle {
	if n < 1 {
		n = 1
	}
	h := size.Y / n
	out := make([]image.Rectangle, n)
	for i := range out {
		out[i] = image.Rect(0, i*h, size.X, (i+1)*h)
	}
	return out
}

// ParseHex parses #rgb or #rrggbb (the # is optional). It returns fallback
// when s is not a colour.
func ParseHex(s string, fallback color.Color) color.Color {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return fallback
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return fallback
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}
