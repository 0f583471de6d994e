package upstream

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/Domenick1991/farescope/config"
	"github.com/Domenick1991/farescope/internal/domain"
	"github.com/Domenick1991/farescope/internal/metrics"
	"golang.org/x/time/rate"
)

// maxBodyBytes caps how much of an upstream response is read.
const maxBodyBytes = 16 << 20

// PriceClient fetches the raw price calendar for a route and month.
type PriceClient struct {
	BaseURL string
	Headers map[string]string
	Client  *http.Client
	Limiter *rate.Limiter
	Metrics *metrics.Registry
}

func NewPriceClient(cfg config.UpstreamConfig, reg *metrics.Registry) *PriceClient {
	return &PriceClient{
		Metrics: reg,
		BaseURL: cfg.BaseURL,
		Headers: cfg.Headers,
		Client:  &http.Client{Timeout: cfg.Timeout()},
		Limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.Burst),
	}
}

// FetchPriceGrid returns the response body untouched. Any non-2xx status is
// returned as *Error carrying that status.
func (c *PriceClient) FetchPriceGrid(ctx context.Context, q domain.SearchQuery) ([]byte, error) {
	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			return nil, &Error{Message: "rate limiter", Err: err}
		}
	}

	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return nil, &Error{Message: "invalid base url", Err: err}
	}
	params := u.Query()
	params.Set("fromEntityId", q.FromEntityID)
	params.Set("toEntityId", q.ToEntityID)
	params.Set("yearMonth", q.YearMonth)
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &Error{Message: "build request", Err: err}
	}
	for k, v := range c.Headers {
		req.Header.Set(k, v)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.Client.Do(req)
	if err != nil {
		c.Metrics.ObserveUpstream(0, time.Since(start))
		return nil, &Error{Message: "request failed", Err: err}
	}
	c.Metrics.ObserveUpstream(resp.StatusCode, time.Since(start))
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// A non-success status wins over a body read error.
		return nil, &Error{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("%d %s for url: %s", resp.StatusCode, http.StatusText(resp.StatusCode), u.String()),
			Body:       truncate(string(body), 512),
		}
	}
	if err != nil {
		return nil, &Error{StatusCode: resp.StatusCode, Message: "read body", Err: err}
	}
	return body, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
