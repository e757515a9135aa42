// Package news reads headline titles from an RSS or Atom feed.
package news

import (
	"bytes"
	"context"
	"strings"

	"github.com/mmcdole/gofeed"
	"github.com/mohammad-safakhou/smartdisplay/internal/helpers"
	"github.com/mohammad-safakhou/smartdisplay/internal/sources"
)

// Options selects the feed and how many headlines to keep.
type Options struct {
	URL   string
	Limit int
}

// Client fetches feeds.
type Client struct {
	HTTP *sources.HTTPClient
}

// New returns a Client using http for transport.
func New(http *sources.HTTPClient) *Client {
	return &Client{HTTP: http}
}

// Headlines returns up to Limit non-empty titles in feed order.
func (c *Client) Headlines(ctx context.Context, opts Options) sources.Result[[]string] {
	if strings.TrimSpace(opts.URL) == "" || opts.Limit <= 0 {
		return sources.Empty[[]string]()
	}
	body, err := c.HTTP.Get(ctx, opts.URL)
	if err != nil {
		return sources.Failedf[[]string]("news fetch: %w", err)
	}
	feed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return sources.Failedf[[]string]("news parse: %w", err)
	}
	titles := make([]string, 0, opts.Limit)
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		title := helpers.PlainText(item.Title)
		if title == "" {
			continue
		}
		titles = append(titles, title)
		if len(titles) == opts.Limit {
			break
		}
	}
	return sources.OK(titles)
}
