package render

import (
	"context"
	"encoding/base64"
	"errors"
	"time"

	"github.com/chromedp/chromedp"
)

// Screenshotter turns an HTML document into a PNG of exactly width×height
// CSS pixels.
type Screenshotter interface {
	Screenshot(ctx context.Context, html string, width, height int) ([]byte, error)
}

// Chrome drives a headless Chrome through chromedp. Each screenshot starts
// and stops its own browser process.
type Chrome struct {
	ExecPath string        // empty lets chromedp find the browser
	Timeout  time.Duration // navigation and capture
}

const DefaultRenderTimeout = 30 * time.Second

func (c Chrome) Screenshot(ctx context.Context, html string, width, height int) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.New("invalid viewport")
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultRenderTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.DisableGPU,
		chromedp.WindowSize(width, height),
	)
	if c.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(c.ExecPath))
	}
	actx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()
	bctx, cancelBrowser := chromedp.NewContext(actx)
	defer cancelBrowser()

	url := "data:text/html;charset=utf-8;base64," + base64.StdEncoding.EncodeToString([]byte(html))
	var buf []byte
	err := chromedp.Run(bctx,
		chromedp.EmulateViewport(int64(width), int64(height)),
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.CaptureScreenshot(&buf),
	)
	if err != nil {
		return nil, err
	}
	return buf, nil
}
