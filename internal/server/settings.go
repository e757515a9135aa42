package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mohammad-safakhou/smartdisplay/internal/settings"
)

// SettingsHandler reads and updates the settings tree.
type SettingsHandler struct {
	Store *settings.Store
}

func (h *SettingsHandler) Register(g *echo.Group) {
	g.GET("", h.get)
	g.POST("", h.update)
}

func (h *SettingsHandler) get(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Store.Snapshot())
}

// update takes a flat object of dotted key paths, e.g.
// {"display.mode": "pil"}, sets each and saves.
func (h *SettingsHandler) update(c echo.Context) error {
	// The settings page posts without a reliable content type; decode the
	// body as JSON regardless.
	var body map[string]any
	if err := json.NewDecoder(c.Request().Body).Decode(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON object: "+err.Error())
	}
	if err := h.Store.Apply(body); err != nil {
		if errors.Is(err, settings.ErrEmptyPath) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}
