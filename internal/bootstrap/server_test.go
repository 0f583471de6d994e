package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Domenick1991/farescope/config"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer_ExposesMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "farescope_test_total", Help: "test"})
	reg.MustRegister(counter)
	counter.Inc()

	srv := newServer(&config.Config{HTTP: config.HTTPConfig{Address: ":0"}}, gin.New(), reg)

	w := httptest.NewRecorder()
	srv.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "farescope_test_total 1")
}

func TestRun_StopsOnCancel(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, &config.Config{HTTP: config.HTTPConfig{Address: "127.0.0.1:0"}}, gin.New(), nil)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRun_ListenError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	err := Run(context.Background(), &config.Config{HTTP: config.HTTPConfig{Address: "bad-address"}}, gin.New(), nil)

	assert.Error(t, err)
}
