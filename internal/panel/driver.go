// Package panel delivers finished frames: to an e-paper panel when one is
// attached, otherwise to a PNG preview file.
package panel

import (
	"errors"
	"fmt"
	"image"
	"log"
	"strings"
)

// Driver is an attached display.
type Driver interface {
	// Bounds is the native pixel area of the panel.
	Bounds() image.Rectangle
	SetImage(img image.Image) error
	Show() error
	Close() error
}

const (
	DriverNone      = "none"
	DriverWaveshare = "waveshare2in13v4"
)

var ErrUnknownDriver = errors.New("unknown panel driver")

// Open attaches the named driver. "none" or "" returns a nil Driver and no
// error: the sink then writes previews.
func Open(name string, logger *log.Logger) (Driver, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", DriverNone:
		return nil, nil
	case DriverWaveshare:
		w, err := OpenWaveshare(logger)
		if err != nil {
			return nil, err
		}
		return w, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, name)
	}
}
