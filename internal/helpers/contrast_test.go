package helpers

import (
	"image/color"
	"testing"
)

func TestContrast(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		fg, bg   color.Color
		min, max float64
		legible  bool
	}{
		{"black on white", color.Black, color.White, 20.9, 21.1, true},
		{"symmetric", color.White, color.Black, 20.9, 21.1, true},
		{"same colour", color.Gray{Y: 0x80}, color.Gray{Y: 0x80}, 1, 1.001, false},
		{"mid grey on white", color.RGBA{0x77, 0x77, 0x77, 0xff}, color.White, 4.4, 4.49, false},
		{"dark grey on white", color.RGBA{0x33, 0x33, 0x33, 0xff}, color.White, 12, 13, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Contrast(tt.fg, tt.bg)
			if got < tt.min || got > tt.max {
				t.Fatalf("Contrast = %.3f, want [%v, %v]", got, tt.min, tt.max)
			}
			if Legible(tt.fg, tt.bg) != tt.legible {
				t.Fatalf("Legible = %v, want %v", !tt.legible, tt.legible)
			}
		})
	}
}
