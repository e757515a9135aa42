package models

import "errors"

// ErrUnknownWidget is returned when a layout names a widget that does not exist.
var ErrUnknownWidget = errors.New("unknown widget")

// Point is one labelled sample of a series (market history, hourly forecast).
type Point struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// AgendaEntry is one upcoming calendar event, already formatted for display.
type AgendaEntry struct {
	Time     string `json:"time"`
	Title    string `json:"title"`
	Location string `json:"location"`
}

// MarketSummary is the display form of a quote plus its recent history.
type MarketSummary struct {
	Symbol    string  `json:"symbol"`
	Price     string  `json:"price"`
	ChangePct float64 `json:"change_pct"`
	History   []Point `json:"history"`
}

// WeatherSummary is the display form of the current conditions.
type WeatherSummary struct {
	Temp      string  `json:"temp"`
	Condition string  `json:"cond"`
	Icon      string  `json:"icon"`
	High      string  `json:"hi"`
	Low       string  `json:"lo"`
	Hourly    []Point `json:"hourly"`
}

// Context is everything one render draws. It is rebuilt for every render
// and never stored.
type Context struct {
	Now       string         `json:"now_str"`
	Agenda    []AgendaEntry  `json:"agenda"`
	Headlines []string       `json:"headlines"`
	Market    MarketSummary  `json:"market"`
	Weather   WeatherSummary `json:"weather"`
}

const (
	MaxAgendaEntries = 6
	MaxHourlyPoints  = 6
	Placeholder      = "-"
	PlaceholderIcon  = "☁"
)
