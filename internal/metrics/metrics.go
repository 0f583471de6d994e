package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds the Prometheus collectors of the service. All methods are
// safe on a nil *Registry so components can run without metrics.
type Registry struct {
	// HTTP Metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Upstream Metrics
	UpstreamRequestsTotal   *prometheus.CounterVec
	UpstreamRequestDuration prometheus.Histogram

	// Business Metrics
	SearchesTotal       *prometheus.CounterVec
	LegsStoredTotal     prometheus.Counter
	ChartRenderDuration prometheus.Histogram
	BrowserVisitsTotal  *prometheus.CounterVec
}

// NewRegistry registers every collector on reg. Pass prometheus.DefaultRegisterer
// in main and a fresh prometheus.NewRegistry() in tests.
func NewRegistry(reg prometheus.Registerer) *Registry {
	f := promauto.With(reg)
	return &Registry{
		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "farescope_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "farescope_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		UpstreamRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "farescope_upstream_requests_total",
				Help: "Price source requests by response status (0 for transport failures)",
			},
			[]string{"status_code"},
		),
		UpstreamRequestDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "farescope_upstream_request_duration_seconds",
				Help:    "Price source latency in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
		),
		SearchesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "farescope_searches_total",
				Help: "Completed searches by outcome",
			},
			[]string{"outcome"},
		),
		LegsStoredTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "farescope_legs_stored_total",
				Help: "Flight legs appended to the store",
			},
		),
		ChartRenderDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "farescope_chart_render_duration_seconds",
				Help:    "Chart render time in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
		),
		BrowserVisitsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "farescope_browser_visits_total",
				Help: "Best-effort source site visits by result",
			},
			[]string{"result"},
		),
	}
}

func (r *Registry) ObserveHTTP(endpoint, method string, status int, d time.Duration) {
	if r == nil {
		return
	}
	r.HTTPRequestsTotal.WithLabelValues(endpoint, method, strconv.Itoa(status)).Inc()
	r.HTTPRequestDuration.WithLabelValues(endpoint, method).Observe(d.Seconds())
}

func (r *Registry) ObserveUpstream(status int, d time.Duration) {
	if r == nil {
		return
	}
	r.UpstreamRequestsTotal.WithLabelValues(strconv.Itoa(status)).Inc()
	r.UpstreamRequestDuration.Observe(d.Seconds())
}

func (r *Registry) SearchFinished(outcome string) {
	if r == nil {
		return
	}
	r.SearchesTotal.WithLabelValues(outcome).Inc()
}

func (r *Registry) LegsStored(n int) {
	if r == nil {
		return
	}
	r.LegsStoredTotal.Add(float64(n))
}

func (r *Registry) ObserveChart(d time.Duration) {
	if r == nil {
		return
	}
	r.ChartRenderDuration.Observe(d.Seconds())
}

func (r *Registry) BrowserVisit(result string) {
	if r == nil {
		return
	}
	r.BrowserVisitsTotal.WithLabelValues(result).Inc()
}
