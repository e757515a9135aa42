package render

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mohammad-safakhou/smartdisplay/models"
)

//go:embed templates/*
var embedded embed.FS

const (
	DefaultTemplate = "display.html"
	stylesheet      = "styles.css"
)

var funcs = template.FuncMap{
	"sparkline": sparklinePoints,
	"signed":    func(v float64) string { return fmt.Sprintf("%+.2f", v) },
	"negative":  func(v float64) bool { return v < 0 },
}

// Page renders the full HTML document for mc: the stylesheet, the theme
// variables and the executed template. dir, when non-empty, is searched
// before the embedded templates.
func Page(dir, name string, theme Theme, mc models.Context) (string, error) {
	if name == "" {
		name = DefaultTemplate
	}
	// Template names come from user settings; keep them inside dir.
	name = filepath.Base(filepath.Clean("/" + name))

	src, err := readAsset(dir, name)
	if err != nil {
		return "", fmt.Errorf("load template %s: %w", name, err)
	}
	tpl, err := template.New(name).Funcs(funcs).Parse(string(src))
	if err != nil {
		return "", fmt.Errorf("parse template %s: %w", name, err)
	}
	var body bytes.Buffer
	if err := tpl.Execute(&body, mc); err != nil {
		return "", fmt.Errorf("execute template %s: %w", name, err)
	}
	css, err := readAsset(dir, stylesheet)
	if err != nil {
		return "", fmt.Errorf("load stylesheet: %w", err)
	}

	var b strings.Builder
	b.Grow(len(css) + body.Len() + 256)
	b.WriteString("<style>")
	b.Write(css)
	b.WriteString("</style><style>")
	b.WriteString(theme.CSSVars())
	b.WriteString("</style>")
	b.Write(body.Bytes())
	return b.String(), nil
}

func readAsset(dir, name string) ([]byte, error) {
	if dir != "" {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return embedded.ReadFile("templates/" + name)
}

// sparklinePoints maps a series onto an SVG polyline points attribute inside
// a w×h box, y growing downwards.
func sparklinePoints(series []models.Point, w, h float64) string {
	if len(series) < 2 {
		return ""
	}
	lo, hi := series[0].Value, series[0].Value
	for _, p := range series {
		lo = min(lo, p.Value)
		hi = max(hi, p.Value)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}
	step := w / float64(len(series)-1)
	var b strings.Builder
	for i, p := range series {
		if i > 0 {
			b.WriteByte(' ')
		}
		x := float64(i) * step
		y := h - (p.Value-lo)/span*h
		b.WriteString(strconv.FormatFloat(x, 'f', 1, 64))
		b.WriteByte(',')
		b.WriteString(strconv.FormatFloat(y, 'f', 1, 64))
	}
	return b.String()
}
