package browser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"sync"
	"time"

	"github.com/Domenick1991/farescope/config"
)

var ErrClosed = errors.New("browser session closed")

// Session is a short-lived browsing context owned by a single search.
type Session interface {
	Visit(ctx context.Context, url string) error
	Close() error
}

type Launcher interface {
	Launch(ctx context.Context) (Session, error)
}

// NewLauncher returns a no-op launcher when the browser is disabled.
func NewLauncher(cfg config.BrowserConfig) Launcher {
	if !cfg.Enabled {
		return NoopLauncher{}
	}
	return &HTTPLauncher{UserAgent: cfg.UserAgent, Timeout: cfg.Timeout()}
}

// HTTPLauncher opens sessions backed by a fresh cookie jar each, so no state
// leaks between searches.
type HTTPLauncher struct {
	UserAgent string
	Timeout   time.Duration
}

func (l *HTTPLauncher) Launch(_ context.Context) (Session, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}
	return &httpSession{
		client:    &http.Client{Jar: jar, Timeout: l.Timeout},
		userAgent: l.UserAgent,
	}, nil
}

type httpSession struct {
	client    *http.Client
	userAgent string

	mu     sync.Mutex
	closed bool
}

func (s *httpSession) Visit(ctx context.Context, url string) error {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return ErrClosed
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("visit %s: %w", url, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode >= 400 {
		return fmt.Errorf("visit %s: status %d", url, resp.StatusCode)
	}
	return nil
}

func (s *httpSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.client.CloseIdleConnections()
	return nil
}

type NoopLauncher struct{}

func (NoopLauncher) Launch(context.Context) (Session, error) {
	return noopSession{}, nil
}

type noopSession struct{}

func (noopSession) Visit(context.Context, string) error { return nil }
func (noopSession) Close() error                         { return nil }

// NoopSession stands in when a real session could not be launched.
func NoopSession() Session {
	return noopSession{}
}
