package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/farescope/internal/browser"
	"github.com/Domenick1991/farescope/internal/chart"
	"github.com/Domenick1991/farescope/internal/domain"
	"github.com/Domenick1991/farescope/internal/kafka"
	"github.com/Domenick1991/farescope/internal/logging"
	"github.com/Domenick1991/farescope/internal/metrics"
	"github.com/Domenick1991/farescope/internal/pricegrid"
	"github.com/Domenick1991/farescope/internal/repository"
	"github.com/Domenick1991/farescope/internal/service/stats"
	"github.com/Domenick1991/farescope/internal/upstream"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

type SearchUseCase interface {
	Search(ctx context.Context, q domain.SearchQuery) (*domain.SearchResult, error)
}

type PriceSource interface {
	FetchPriceGrid(ctx context.Context, q domain.SearchQuery) ([]byte, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, payload interface{}) error
}

type Option func(*SearchService)

// WithProducer publishes a search_completed event after every successful search.
func WithProducer(p Producer, topic string) Option {
	return func(s *SearchService) {
		s.producer = p
		s.topic = topic
	}
}

func WithBrowser(l browser.Launcher, startURL string) Option {
	return func(s *SearchService) {
		s.launcher = l
		s.startURL = startURL
	}
}

func WithMetrics(m *metrics.Registry) Option {
	return func(s *SearchService) {
		s.metrics = m
	}
}

// WithConcurrency bounds the number of searches running at once.
func WithConcurrency(n int64) Option {
	return func(s *SearchService) {
		if n > 0 {
			s.sem = semaphore.NewWeighted(n)
		}
	}
}

func WithChartTimeout(d time.Duration) Option {
	return func(s *SearchService) {
		if d > 0 {
			s.chartTimeout = d
		}
	}
}

type SearchService struct {
	source   PriceSource
	flights  repository.FlightRepository
	stats    stats.StatsUseCase
	renderer chart.Renderer

	launcher browser.Launcher
	startURL string
	producer Producer
	topic    string
	metrics  *metrics.Registry

	sem          *semaphore.Weighted
	chartTimeout time.Duration
}

func NewSearchService(source PriceSource, flights repository.FlightRepository, st stats.StatsUseCase, renderer chart.Renderer, opts ...Option) *SearchService {
	s := &SearchService{
		source:       source,
		flights:      flights,
		stats:        st,
		renderer:     renderer,
		launcher:     browser.NoopLauncher{},
		sem:          semaphore.NewWeighted(1),
		chartTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// run carries one search through its states.
type run struct {
	id    string
	query domain.SearchQuery
	state State
	log   *zap.SugaredLogger
}

func (r *run) advance(next State) {
	r.log.Debugw("search state", "from", r.state, "to", next)
	r.state = next
}

func (s *SearchService) Search(ctx context.Context, q domain.SearchQuery) (result *domain.SearchResult, err error) {
	q = normalize(q)
	r := &run{id: uuid.NewString(), query: q, state: StateReceived}
	r.log = logging.WithSearch(r.id)
	r.log.Infow("search received", "from", q.FromEntityID, "to", q.ToEntityID, "year_month", q.YearMonth)

	defer func() {
		if p := recover(); p != nil {
			err = unclassifiedError(r.state, fmt.Errorf("panic: %v", p))
			result = nil
		}
		if err != nil {
			se := AsError(err)
			r.log.Warnw("search failed", "stage", se.Stage, "kind", se.Kind, "status", se.Status, "error", se.Message)
			r.state = StateFailed
			s.metrics.SearchFinished(string(se.Kind))
			err = se
			return
		}
		s.metrics.SearchFinished("ok")
	}()

	if err := validate(q); err != nil {
		return nil, err
	}

	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, unclassifiedError(r.state, err)
	}
	defer s.sem.Release(1)

	session := s.openSession(ctx, r)
	defer func() {
		if err := session.Close(); err != nil {
			r.log.Warnw("browser session close failed", "error", err)
		}
	}()

	body, err := s.source.FetchPriceGrid(ctx, q)
	if err != nil {
		return nil, classifyFetch(r, err)
	}
	r.advance(StateFetched)

	options, err := pricegrid.Extract(body)
	if err != nil {
		return nil, decodeError(err)
	}
	r.advance(StateParsed)

	if len(options) == 0 {
		return nil, notFoundError()
	}

	stored, err := s.flights.InsertOptions(ctx, options)
	if err != nil {
		return nil, persistenceError(r.state, err)
	}
	s.metrics.LegsStored(stored)
	r.advance(StateStored)

	best := LeastPrice(options)
	s.visit(ctx, session, r)

	counts, err := s.stats.Refresh(ctx)
	if err != nil {
		return nil, unclassifiedError(r.state, err)
	}
	r.advance(StateAggregated)

	img, err := s.render(ctx, chart.NewChart(counts))
	if err != nil {
		return nil, unclassifiedError(r.state, err)
	}

	result = &domain.SearchResult{
		SearchID:    r.id,
		Query:       q,
		LeastPrice:  best.Price,
		Legs:        best.Legs,
		Options:     len(options),
		LegsStored:  stored,
		ImageBase64: chart.EncodeBase64(img),
		ImageURI:    chart.DataURI(s.renderer, img),
	}
	r.advance(StateRendered)

	s.publish(ctx, r, result)
	r.log.Infow("search completed", "least_price", best.Price, "options", len(options), "legs_stored", stored)
	return result, nil
}

// LeastPrice returns the cheapest option; ties keep the first one seen.
// options must not be empty.
func LeastPrice(options []domain.PriceOption) domain.PriceOption {
	best := options[0]
	for _, o := range options[1:] {
		if o.Price < best.Price {
			best = o
		}
	}
	return best
}

func normalize(q domain.SearchQuery) domain.SearchQuery {
	return domain.SearchQuery{
		FromEntityID: strings.TrimSpace(q.FromEntityID),
		ToEntityID:   strings.TrimSpace(q.ToEntityID),
		YearMonth:    strings.TrimSpace(q.YearMonth),
	}
}

func validate(q domain.SearchQuery) error {
	switch {
	case q.FromEntityID == "":
		return validationError("fromEntityId")
	case q.ToEntityID == "":
		return validationError("toEntityId")
	case q.YearMonth == "":
		return validationError("yearMonth")
	}
	return nil
}

func classifyFetch(r *run, err error) error {
	var ue *upstream.Error
	if errors.As(err, &ue) && ue.IsHTTP() {
		r.log.Warnw("upstream rejected search", "status", ue.StatusCode, "body", ue.Body)
		return upstreamHTTPError(ue.StatusCode, err)
	}
	return upstreamTransportError(err)
}

func (s *SearchService) openSession(ctx context.Context, r *run) browser.Session {
	session, err := s.launcher.Launch(ctx)
	if err != nil {
		r.log.Warnw("browser launch failed", "error", err)
		s.metrics.BrowserVisit("launch_failed")
		return browser.NoopSession()
	}
	return session
}

func (s *SearchService) visit(ctx context.Context, session browser.Session, r *run) {
	if s.startURL == "" {
		return
	}
	if err := session.Visit(ctx, s.startURL); err != nil {
		r.log.Warnw("browser visit failed", "url", s.startURL, "error", err)
		s.metrics.BrowserVisit("failed")
		return
	}
	s.metrics.BrowserVisit("ok")
}

type rendered struct {
	img []byte
	err error
}

func (s *SearchService) render(ctx context.Context, c chart.Chart) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.chartTimeout)
	defer cancel()

	start := time.Now()
	done := make(chan rendered, 1)
	go func() {
		img, err := s.renderer.Render(c)
		done <- rendered{img: img, err: err}
	}()

	select {
	case out := <-done:
		s.metrics.ObserveChart(time.Since(start))
		if out.err != nil {
			return nil, fmt.Errorf("render chart: %w", out.err)
		}
		return out.img, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("render chart: %w", ctx.Err())
	}
}

func (s *SearchService) publish(ctx context.Context, r *run, result *domain.SearchResult) {
	if s.producer == nil || s.topic == "" {
		return
	}
	dates := make([]string, 0, len(result.Legs))
	for _, leg := range result.Legs {
		dates = append(dates, leg.FlightDate)
	}
	event := kafka.SearchEvent{
		Type:         kafka.EventSearchCompleted,
		SearchID:     r.id,
		FromEntityID: r.query.FromEntityID,
		ToEntityID:   r.query.ToEntityID,
		YearMonth:    r.query.YearMonth,
		LeastPrice:   result.LeastPrice,
		FlightDates:  dates,
		LegsStored:   result.LegsStored,
		OccurredAt:   time.Now().UTC(),
	}
	if err := s.producer.Publish(ctx, s.topic, r.id, event); err != nil {
		r.log.Warnw("publishing search event failed", "error", err)
	}
}

var _ SearchUseCase = (*SearchService)(nil)
