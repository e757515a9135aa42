package widget

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Fonts hands out sized faces of one regular and one bold font.
type Fonts struct {
	regular *opentype.Font
	bold    *opentype.Font

	mu    sync.Mutex
	faces map[faceKey]font.Face
}

type faceKey struct {
	size float64
	bold bool
}

// LoadFonts parses the TrueType/OpenType file at path, used for both weights.
// An empty path selects the bundled Go fonts.
func LoadFonts(path string) (*Fonts, error) {
	if path == "" {
		return goFonts(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", path, err)
	}
	return &Fonts{regular: f, bold: f, faces: map[faceKey]font.Face{}}, nil
}

var (
	goFontsOnce sync.Once
	goRegular   *opentype.Font
	goBold      *opentype.Font
)

func goFonts() *Fonts {
	goFontsOnce.Do(func() {
		// The embedded Go fonts are known-good; a parse failure leaves the
		// fields nil and Face falls back to basicfont.
		goRegular, _ = opentype.Parse(goregular.TTF)
		goBold, _ = opentype.Parse(gobold.TTF)
	})
	return &Fonts{regular: goRegular, bold: goBold, faces: map[faceKey]font.Face{}}
}

// Face returns a face at size points (72 DPI, so points equal pixels).
func (f *Fonts) Face(size float64, bold bool) font.Face {
	if f == nil {
		return basicfont.Face7x13
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	key := faceKey{size: size, bold: bold}
	if face, ok := f.faces[key]; ok {
		return face
	}
	src := f.regular
	if bold && f.bold != nil {
		src = f.bold
	}
	if src == nil {
		return basicfont.Face7x13
	}
	face, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return basicfont.Face7x13
	}
	f.faces[key] = face
	return face
}
