package server

import (
	"bytes"
	_ "embed"
	"image/png"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mohammad-safakhou/smartdisplay/internal/app"
)

// PreviewHandler renders on demand.
type PreviewHandler struct {
	App *app.App
}

func (h *PreviewHandler) Register(g *echo.Group) {
	g.GET("/preview.png", h.preview)
	g.POST("/render", h.render)
}

// preview renders the current settings and returns the canvas as PNG
// without touching the panel.
func (h *PreviewHandler) preview(c echo.Context) error {
	img := h.App.RenderImage(c.Request().Context(), h.App.Widgets())
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	c.Response().Header().Set("Cache-Control", "no-store")
	return c.Blob(http.StatusOK, "image/png", buf.Bytes())
}

// render runs one full cycle, panel included.
func (h *PreviewHandler) render(c echo.Context) error {
	h.App.RenderOnce(c.Request().Context(), h.App.Widgets())
	target := "preview"
	if h.App.Sink.HasDriver() {
		target = "panel"
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"ok": true, "target": target})
}

//go:embed static/index.html
var indexPage []byte

func index(c echo.Context) error {
	return c.HTMLBlob(http.StatusOK, indexPage)
}
