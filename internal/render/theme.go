package render

import (
	"fmt"
	"image/color"

	"github.com/mohammad-safakhou/smartdisplay/internal/helpers"
	"github.com/mohammad-safakhou/smartdisplay/internal/render/widget"
)

// Settings is the read side of the settings store the renderer needs.
type Settings interface {
	String(path, def string) string
}

// Theme is the colour scheme shared by both render modes.
type Theme struct {
	Background string
	Primary    string
	Muted      string
	Accent     string
	Accent2    string
	Font       string
}

// ThemeFrom reads theme.* from s.
func ThemeFrom(s Settings) Theme {
	return Theme{
		Background: s.String("theme.background", "#0b1220"),
		Primary:    s.String("theme.primary", "#F2F5F9"),
		Muted:      s.String("theme.muted", "#7D8CA3"),
		Accent:     s.String("theme.accent", "#3EC1D3"),
		Accent2:    s.String("theme.accent2", "#FF6B6B"),
		Font:       s.String("theme.font", ""),
	}
}

// CSSVars renders the theme as custom properties on :root.
func (t Theme) CSSVars() string {
	return fmt.Sprintf(":root{--bg:%s;--fg:%s;--muted:%s;--accent:%s;--accent2:%s;}",
		t.Background, t.Primary, t.Muted, t.Accent, t.Accent2)
}

// BackgroundColor parses the background, black when invalid.
func (t Theme) BackgroundColor() color.Color {
	return ParseHex(t.Background, color.Black)
}

// Contrast is the ratio between the primary text colour and the background.
func (t Theme) Contrast() float64 {
	return helpers.Contrast(ParseHex(t.Primary, color.White), t.BackgroundColor())
}

func (t Theme) style(fonts *widget.Fonts) widget.Style {
	return widget.Style{
		Background: t.BackgroundColor(),
		Foreground: ParseHex(t.Primary, color.White),
		Muted:      ParseHex(t.Muted, color.Gray{Y: 0x90}),
		Accent:     ParseHex(t.Accent, color.White),
		Accent2:    ParseHex(t.Accent2, color.White),
		Fonts:      fonts,
	}
}
