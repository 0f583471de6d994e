package browser

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Domenick1991/farescope/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLauncher(t *testing.T) {
	assert.IsType(t, NoopLauncher{}, NewLauncher(config.BrowserConfig{}))
	assert.IsType(t, &HTTPLauncher{}, NewLauncher(config.BrowserConfig{Enabled: true, TimeoutSeconds: 1}))
}

func TestHTTPSession_VisitKeepsCookies(t *testing.T) {
	var sawCookie bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "farescope-test", r.Header.Get("User-Agent"))
		if _, err := r.Cookie("session"); err == nil {
			sawCookie = true
		}
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "abc", Path: "/"})
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	l := &HTTPLauncher{UserAgent: "farescope-test", Timeout: time.Second}
	sess, err := l.Launch(context.Background())
	require.NoError(t, err)
	defer sess.Close()

	require.NoError(t, sess.Visit(context.Background(), server.URL))
	require.NoError(t, sess.Visit(context.Background(), server.URL))
	assert.True(t, sawCookie)
}

func TestHTTPSession_VisitErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	sess, err := (&HTTPLauncher{Timeout: time.Second}).Launch(context.Background())
	require.NoError(t, err)

	assert.Error(t, sess.Visit(context.Background(), server.URL))

	require.NoError(t, sess.Close())
	require.NoError(t, sess.Close())
	assert.ErrorIs(t, sess.Visit(context.Background(), server.URL), ErrClosed)
}

func TestNoopLauncher(t *testing.T) {
	sess, err := NoopLauncher{}.Launch(context.Background())
	require.NoError(t, err)
	assert.NoError(t, sess.Visit(context.Background(), "http://unused"))
	assert.NoError(t, sess.Close())
}
