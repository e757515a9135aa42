package helpers

import (
	"image/color"
	"math"
)

// MinContrast is the WCAG AA ratio for body text. E-paper greys are
// quantised hard, so palettes below it tend to lose text entirely.
const MinContrast = 4.5

// Contrast returns the WCAG contrast ratio between two colours, from 1
// (identical luminance) to 21 (black on white).
func Contrast(a, b color.Color) float64 {
	l1, l2 := luminance(a), luminance(b)
	if l1 < l2 {
		l1, l2 = l2, l1
	}
	return (l1 + 0.05) / (l2 + 0.05)
}

// Legible reports whether fg on bg reaches MinContrast.
func Legible(fg, bg color.Color) bool {
	return Contrast(fg, bg) >= MinContrast
}

func luminance(c color.Color) float64 {
	r, g, b, _ := c.RGBA()
	return 0.2126*channel(r) + 0.7152*channel(g) + 0.0722*channel(b)
}

func channel(v uint32) float64 {
	f := float64(v) / 0xffff
	if f <= 0.03928 {
		return f / 12.92
	}
	return math.Pow((f+0.055)/1.055, 2.4)
}
