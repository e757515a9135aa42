// Package calendar reads an ICS feed and returns the events that fall in a
// lookahead window.
package calendar

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
	_ "time/tzdata"

	ics "github.com/arran4/golang-ical"
	"github.com/mohammad-safakhou/smartdisplay/internal/sources"
)

// Event is one calendar entry, with times in the requested timezone.
type Event struct {
	Start    time.Time
	End      time.Time
	Title    string
	Location string
}

// Options selects the feed and the window.
type Options struct {
	URL           string
	LookaheadDays int
	Timezone      string
}

// Client fetches ICS feeds.
type Client struct {
	HTTP *sources.HTTPClient
	Now  func() time.Time
}

// New returns a Client using http for transport.
func New(http *sources.HTTPClient) *Client {
	return &Client{HTTP: http, Now: time.Now}
}

// Events returns events overlapping [now, now+lookahead], sorted by start.
// An empty URL yields Empty; transport or parse problems yield Failed.
func (c *Client) Events(ctx context.Context, opts Options) sources.Result[[]Event] {
	if strings.TrimSpace(opts.URL) == "" {
		return sources.Empty[[]Event]()
	}
	loc := location(opts.Timezone)
	body, err := c.HTTP.Get(ctx, opts.URL)
	if err != nil {
		return sources.Failedf[[]Event]("calendar fetch: %w", err)
	}
	cal, err := ics.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return sources.Failedf[[]Event]("calendar parse: %w", err)
	}

	now := c.now().In(loc)
	windowEnd := now.AddDate(0, 0, opts.LookaheadDays)
	var out []Event
	for _, ev := range cal.Events() {
		startProp := ev.GetProperty(ics.ComponentPropertyDtStart)
		if startProp == nil {
			continue
		}
		start, err := parseTime(startProp, loc)
		if err != nil {
			continue
		}
		end := start.Add(time.Hour)
		if endProp := ev.GetProperty(ics.ComponentPropertyDtEnd); endProp != nil {
			if t, err := parseTime(endProp, loc); err == nil {
				end = t
			}
		}
		if start.After(windowEnd) || end.Before(now) {
			continue
		}
		out = append(out, Event{
			Start:    start,
			End:      end,
			Title:    propValue(ev, ics.ComponentPropertySummary),
			Location: propValue(ev, ics.ComponentPropertyLocation),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return sources.OK(out)
}

func (c *Client) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func propValue(ev *ics.VEvent, prop ics.ComponentProperty) string {
	p := ev.GetProperty(prop)
	if p == nil {
		return ""
	}
	return unescapeText(strings.TrimSpace(p.Value))
}

var textUnescaper = strings.NewReplacer(`\,`, ",", `\;`, ";", `\n`, " ", `\N`, " ", `\\`, `\`)

func unescapeText(s string) string { return textUnescaper.Replace(s) }

// parseTime handles UTC ("...Z"), zoned (TZID=...), floating and date-only
// values. Floating and date-only values are read in loc.
func parseTime(p *ics.IANAProperty, loc *time.Location) (time.Time, error) {
	value := strings.TrimSpace(p.Value)
	if tzids := p.ICalParameters["TZID"]; len(tzids) > 0 {
		if zl, err := time.LoadLocation(tzids[0]); err == nil {
			t, err := parseLocal(value, zl)
			if err != nil {
				return time.Time{}, err
			}
			return t.In(loc), nil
		}
	}
	if strings.HasSuffix(value, "Z") {
		t, err := time.Parse("20060102T150405Z", value)
		if err != nil {
			return time.Time{}, err
		}
		return t.In(loc), nil
	}
	return parseLocal(value, loc)
}

func parseLocal(value string, loc *time.Location) (time.Time, error) {
	switch len(value) {
	case len("20060102"):
		return time.ParseInLocation("20060102", value, loc)
	case len("20060102T150405"):
		return time.ParseInLocation("20060102T150405", value, loc)
	default:
		return time.Time{}, fmt.Errorf("unsupported ics time %q", value)
	}
}

func location(name string) *time.Location {
	if strings.TrimSpace(name) == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.Local
	}
	return loc
}
