package panel

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"
	"sync"

	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/devices/v3/waveshare2in13v4"
	"periph.io/x/host/v3"
)

var errNoFrame = errors.New("no frame set")

// Waveshare drives a Waveshare 2.13" v4 HAT over the default SPI port.
// The panel sleeps between refreshes.
type Waveshare struct {
	mu     sync.Mutex
	port   spi.PortCloser
	dev    *waveshare2in13v4.Dev
	frame  *image1bit.VerticalLSB
	asleep bool
	logger *log.Logger
}

// OpenWaveshare initialises the host, opens SPI and clears the panel.
func OpenWaveshare(logger *log.Logger) (*Waveshare, error) {
	if logger == nil {
		logger = log.New(log.Writer(), "[PANEL] ", log.LstdFlags)
	}
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("host init: %w", err)
	}
	port, err := spireg.Open("")
	if err != nil {
		return nil, fmt.Errorf("open spi: %w", err)
	}
	opts := waveshare2in13v4.EPD2in13v4
	dev, err := waveshare2in13v4.NewHat(port, &opts)
	if err != nil {
		port.Close()
		return nil, fmt.Errorf("open panel: %w", err)
	}
	if err := dev.Init(); err != nil {
		port.Close()
		return nil, fmt.Errorf("init panel: %w", err)
	}
	if err := dev.Clear(color.White); err != nil {
		logger.Printf("clear failed: %v", err)
	}
	logger.Printf("waveshare panel ready, bounds=%v", dev.Bounds())
	return &Waveshare{port: port, dev: dev, logger: logger}, nil
}

func (w *Waveshare) Bounds() image.Rectangle { return w.dev.Bounds() }

// SetImage stores img as a 1-bit frame for the next Show.
func (w *Waveshare) SetImage(img image.Image) error {
	frame := image1bit.NewVerticalLSB(w.dev.Bounds())
	draw.Draw(frame, frame.Bounds(), img, img.Bounds().Min, draw.Src)
	w.mu.Lock()
	w.frame = frame
	w.mu.Unlock()
	return nil
}

// Show wakes the panel if needed, pushes the frame and puts it back to sleep.
func (w *Waveshare) Show() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.frame == nil {
		return errNoFrame
	}
	if w.asleep {
		if err := w.dev.Init(); err != nil {
			return fmt.Errorf("wake panel: %w", err)
		}
		w.asleep = false
	}
	if err := w.dev.Draw(w.dev.Bounds(), w.frame, image.Point{}); err != nil {
		return fmt.Errorf("draw: %w", err)
	}
	if err := w.dev.Sleep(); err != nil {
		return fmt.Errorf("sleep: %w", err)
	}
	w.asleep = true
	return nil
}

func (w *Waveshare) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	err := w.dev.Halt()
	if cerr := w.port.Close(); err == nil {
		err = cerr
	}
	return err
}
