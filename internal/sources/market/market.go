// Package market provides a quote and a short price history for one symbol.
//
// Two providers exist: "mock", a deterministic placeholder series, and
// "stooq", which reads daily closes from the free Stooq CSV endpoint.
package market

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/mohammad-safakhou/smartdisplay/internal/sources"
	"github.com/mohammad-safakhou/smartdisplay/models"
)

const (
	ProviderMock  = "mock"
	ProviderStooq = "stooq"

	DefaultHistoryDays = 30
	stooqURL           = "https://stooq.com/q/d/l/"
)

var (
	ErrEmptySymbol     = errors.New("empty symbol")
	ErrUnknownProvider = errors.New("unknown market provider")
	ErrNoData          = errors.New("no price data")
)

// Quote is the latest price and its change against the previous close.
type Quote struct {
	Symbol    string
	Price     float64
	ChangePct float64
}

// Options selects the symbol and provider.
type Options struct {
	Symbol      string
	Provider    string
	HistoryDays int
}

// Client fetches quotes.
type Client struct {
	HTTP *sources.HTTPClient
	// BaseURL overrides the Stooq endpoint.
	BaseURL string
}

// New returns a Client using http for transport.
func New(http *sources.HTTPClient) *Client {
	return &Client{HTTP: http, BaseURL: stooqURL}
}

// Quote returns the current price for opts.Symbol.
func (c *Client) Quote(ctx context.Context, opts Options) sources.Result[Quote] {
	symbol := strings.TrimSpace(opts.Symbol)
	if symbol == "" {
		return sources.Failed[Quote](ErrEmptySymbol)
	}
	switch provider(opts) {
	case ProviderMock:
		return sources.OK(Quote{Symbol: symbol, Price: 102.35, ChangePct: 0.42})
	case ProviderStooq:
		closes, err := c.stooqCloses(ctx, symbol)
		if err != nil {
			return sources.Failedf[Quote]("market quote %s: %w", symbol, err)
		}
		last := closes[len(closes)-1].Value
		q := Quote{Symbol: symbol, Price: last}
		if len(closes) > 1 {
			if prev := closes[len(closes)-2].Value; prev != 0 {
				q.ChangePct = (last - prev) / prev * 100
			}
		}
		return sources.OK(q)
	default:
		return sources.Failedf[Quote]("%w: %q", ErrUnknownProvider, opts.Provider)
	}
}

// History returns the last days closing values, oldest first.
func (c *Client) History(ctx context.Context, opts Options, days int) sources.Result[[]models.Point] {
	symbol := strings.TrimSpace(opts.Symbol)
	if symbol == "" {
		return sources.Failed[[]models.Point](ErrEmptySymbol)
	}
	if days <= 0 {
		days = DefaultHistoryDays
	}
	switch provider(opts) {
	case ProviderMock:
		return sources.OK(mockSeries(days))
	case ProviderStooq:
		closes, err := c.stooqCloses(ctx, symbol)
		if err != nil {
			return sources.Failedf[[]models.Point]("market history %s: %w", symbol, err)
		}
		if len(closes) > days {
			closes = closes[len(closes)-days:]
		}
		return sources.OK(closes)
	default:
		return sources.Failedf[[]models.Point]("%w: %q", ErrUnknownProvider, opts.Provider)
	}
}

func provider(opts Options) string {
	p := strings.ToLower(strings.TrimSpace(opts.Provider))
	if p == "" {
		return ProviderMock
	}
	return p
}

func mockSeries(days int) []models.Point {
	out := make([]models.Point, days)
	for i := range out {
		out[i] = models.Point{
			Label: strconv.Itoa(i),
			Value: 100 + float64(i)*0.2 + float64(i%5-2)*0.6,
		}
	}
	return out
}

func (c *Client) stooqCloses(ctx context.Context, symbol string) ([]models.Point, error) {
	base := c.BaseURL
	if base == "" {
		base = stooqURL
	}
	q := url.Values{}
	q.Set("s", strings.ToLower(symbol))
	q.Set("i", "d")
	body, err := c.HTTP.Get(ctx, base+"?"+q.Encode())
	if err != nil {
		return nil, err
	}
	return parseStooqCSV(body)
}

// parseStooqCSV reads Date,Open,High,Low,Close[,Volume] rows.
func parseStooqCSV(body []byte) ([]models.Point, error) {
	r := csv.NewReader(bytes.NewReader(body))
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoData
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	dateCol, closeCol := -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "date":
			dateCol = i
		case "close":
			closeCol = i
		}
	}
	if dateCol < 0 || closeCol < 0 {
		// Stooq answers unknown symbols with a plain "No data" line.
		return nil, ErrNoData
	}
	var out []models.Point
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if len(rec) <= closeCol || len(rec) <= dateCol {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(rec[closeCol]), 64)
		if err != nil {
			continue
		}
		out = append(out, models.Point{Label: strings.TrimSpace(rec[dateCol]), Value: v})
	}
	if len(out) == 0 {
		return nil, ErrNoData
	}
	return out, nil
}
