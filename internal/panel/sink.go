package panel

import (
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/mohammad-safakhou/smartdisplay/internal/render"
	"github.com/mohammad-safakhou/smartdisplay/internal/telemetry"
)

const DefaultPreviewPath = "preview.png"

// Settings is the read side of the settings store the sink needs.
type Settings interface {
	String(path, def string) string
}

// Sink hands frames to the driver, or writes them to the preview file when
// no driver is attached.
type Sink struct {
	driver      Driver
	settings    Settings
	previewPath string
	logger      *log.Logger
}

// NewSink builds a sink. driver may be nil.
func NewSink(driver Driver, settings Settings, previewPath string, logger *log.Logger) *Sink {
	if previewPath == "" {
		previewPath = DefaultPreviewPath
	}
	if logger == nil {
		logger = log.New(log.Writer(), "[PANEL] ", log.LstdFlags)
	}
	return &Sink{driver: driver, settings: settings, previewPath: previewPath, logger: logger}
}

// HasDriver reports whether a panel is attached.
func (s *Sink) HasDriver() bool { return s.driver != nil }

// PreviewPath is where frames go without a driver.
func (s *Sink) PreviewPath() string { return s.previewPath }

// Show delivers img. Failures are logged, never returned.
func (s *Sink) Show(img image.Image) {
	if s.driver == nil {
		if err := WritePNG(s.previewPath, img); err != nil {
			s.logger.Printf("write preview: %v", err)
			telemetry.ObserveFrame("error")
			return
		}
		telemetry.ObserveFrame("preview")
		return
	}
	frame := s.Prepare(img)
	if err := s.driver.SetImage(frame); err != nil {
		s.logger.Printf("set image: %v", err)
		telemetry.ObserveFrame("error")
		return
	}
	if err := s.driver.Show(); err != nil {
		s.logger.Printf("show: %v", err)
		telemetry.ObserveFrame("error")
		return
	}
	telemetry.ObserveFrame("panel")
}

// Prepare turns a logical canvas into the panel's native frame. The canvas
// is rotated 90° counter-clockwise when its orientation differs from the
// panel's (a portrait canvas on a landscape panel, or the reverse), then
// resized when the size still differs. Without a driver the panel is taken
// to be landscape.
func (s *Sink) Prepare(img image.Image) image.Image {
	orientation := "portrait"
	if s.settings != nil {
		orientation = s.settings.String("display.orientation", "portrait")
	}
	var native image.Rectangle
	if s.driver != nil {
		native = s.driver.Bounds()
	}
	panelPortrait := native.Dy() > native.Dx()
	if render.IsPortrait(orientation) != panelPortrait {
		img = imaging.Rotate90(img)
	}
	if s.driver == nil {
		return img
	}
	if b := img.Bounds(); b.Dx() != native.Dx() || b.Dy() != native.Dy() {
		img = imaging.Resize(img, native.Dx(), native.Dy(), imaging.Lanczos)
	}
	return img
}

// Close releases the driver.
func (s *Sink) Close() error {
	if s.driver == nil {
		return nil
	}
	return s.driver.Close()
}

// WritePNG encodes img to path through a temporary file in the same
// directory.
func WritePNG(path string, img image.Image) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create preview dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".preview-*.png")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	defer os.Remove(tmp.Name())
	if err := png.Encode(tmp, img); err != nil {
		tmp.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename preview: %w", err)
	}
	return nil
}
