package sources

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mohammad-safakhou/smartdisplay/internal/telemetry"
)

const (
	DefaultTimeout = 10 * time.Second
	maxBodyBytes   = 8 << 20
	userAgent      = "smartdisplay/1.0"
)

// ErrEmptyURL is returned when a request is attempted without a URL.
var ErrEmptyURL = errors.New("empty url")

// HTTPClient performs bounded GET requests with retries and an optional
// response cache.
type HTTPClient struct {
	client   *http.Client
	retries  int
	backoff  time.Duration
	cache    Cache
	cacheTTL time.Duration
}

// NewHTTPClient builds a client. A zero timeout means DefaultTimeout; a nil
// cache disables caching.
func NewHTTPClient(timeout time.Duration, retries int, backoff time.Duration, cache Cache, cacheTTL time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if retries < 0 {
		retries = 0
	}
	if backoff == 0 {
		backoff = 300 * time.Millisecond
	}
	if cache == nil {
		cache = NoopCache{}
	}
	return &HTTPClient{
		client:   &http.Client{Timeout: timeout},
		retries:  retries,
		backoff:  backoff,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

// Get returns the response body of a GET request. Successful bodies are
// cached when a cache and a positive TTL are configured.
func (c *HTTPClient) Get(ctx context.Context, url string) ([]byte, error) {
	if url == "" {
		return nil, ErrEmptyURL
	}
	key := cacheKey(url)
	if c.cacheTTL > 0 {
		if body, ok := c.cache.Get(ctx, key); ok {
			telemetry.ObserveCache(true)
			return body, nil
		}
		telemetry.ObserveCache(false)
	}

	ctx, cancel := context.WithTimeout(ctx, c.client.Timeout)
	defer cancel()

	var lastErr error
	tries := c.retries + 1
	for attempt := 0; attempt < tries; attempt++ {
		body, retry, err := c.do(ctx, url)
		if err == nil {
			if c.cacheTTL > 0 {
				c.cache.Set(ctx, key, body, c.cacheTTL)
			}
			return body, nil
		}
		lastErr = err
		if !retry {
			break
		}
		if attempt < tries-1 {
			select {
			case <-time.After(c.backoff * time.Duration(1<<attempt)):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return nil, lastErr
}

func (c *HTTPClient) do(ctx context.Context, url string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("User-Agent", userAgent)
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, ctx.Err() == nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, true, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet := body
		if len(snippet) > 256 {
			snippet = snippet[:256]
		}
		// 4xx will not get better on retry.
		return nil, resp.StatusCode >= 500, fmt.Errorf("%s: %s", resp.Status, snippet)
	}
	return body, false, nil
}

// GetJSON decodes a JSON GET response into out.
func (c *HTTPClient) GetJSON(ctx context.Context, url string, out any) error {
	body, err := c.Get(ctx, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}

func cacheKey(url string) string {
	sum := sha1.Sum([]byte(url))
	return "smartdisplay:fetch:" + hex.EncodeToString(sum[:])
}
