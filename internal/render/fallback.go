package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/mohammad-safakhou/smartdisplay/internal/helpers"
	"golang.org/x/image/font/basicfont"
)

// Failure stages of the templated path.
const (
	KindTemplate = "TemplateError"
	KindBrowser  = "BrowserError"
	KindDecode   = "DecodeError"
	KindTimeout  = "TimeoutError"
)

// Error is a templated-render failure tagged with the stage that failed.
type Error struct {
	Kind string
	Err  error
}

func (e *Error) Error() string { return e.Kind + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }

func stageError(kind string, err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) {
		kind = KindTimeout
	}
	return &Error{Kind: kind, Err: err}
}

const maxMessage = 300

var (
	errorBackground = color.RGBA{0x1b, 0x1f, 0x2a, 0xff}
	errorText       = color.RGBA{0xff, 0x6b, 0x6b, 0xff}
)

// ErrorImage draws a diagnostic frame of size describing err.
func ErrorImage(size image.Point, err error) *image.RGBA {
	kind := "Error"
	var re *Error
	if errors.As(err, &re) {
		kind = re.Kind
		err = re.Err
	}
	msg := ""
	if err != nil {
		msg = helpers.Truncate(err.Error(), maxMessage)
	}

	img := NewCanvas(size, errorBackground)
	dc := gg.NewContextForRGBA(img)
	dc.SetFontFace(basicfont.Face7x13)
	dc.SetColor(errorText)

	lines := []string{fmt.Sprintf("HTML render failed: %s", kind)}
	lines = append(lines, dc.WordWrap(msg, float64(size.X-32))...)
	lines = append(lines, "Install Chrome or switch display.mode to 'pil'")

	y := 16.0
	for _, l := range lines {
		if y > float64(size.Y-16) {
			break
		}
		dc.DrawStringAnchored(l, 16, y, 0, 1)
		y += 18
	}
	return img
}
