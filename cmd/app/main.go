package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/farescope/api"
	"github.com/Domenick1991/farescope/config"
	"github.com/Domenick1991/farescope/internal/bootstrap"
	"github.com/Domenick1991/farescope/internal/browser"
	"github.com/Domenick1991/farescope/internal/cache"
	"github.com/Domenick1991/farescope/internal/chart"
	"github.com/Domenick1991/farescope/internal/kafka"
	"github.com/Domenick1991/farescope/internal/logging"
	"github.com/Domenick1991/farescope/internal/metrics"
	"github.com/Domenick1991/farescope/internal/repository"
	"github.com/Domenick1991/farescope/internal/service/search"
	"github.com/Domenick1991/farescope/internal/service/stats"
	"github.com/Domenick1991/farescope/internal/upstream"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	if err := logging.Init(cfg.Log.Env, cfg.Log.File); err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logging.Close()

	if cfg.Log.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	reg := metrics.NewRegistry(promRegistry)

	flightRepo, release, err := repository.Open(ctx, cfg.Database)
	if err != nil {
		logging.Fatal("open flight store", "driver", cfg.Database.Driver, "error", err)
	}
	defer release()

	statsCache := cache.New(cfg.Redis, cfg.Search.StatsTTL())
	defer statsCache.Close()

	statsService := stats.NewStatsService(flightRepo, statsCache)

	opts := []search.Option{
		search.WithMetrics(reg),
		search.WithConcurrency(cfg.Search.MaxConcurrent),
		search.WithChartTimeout(cfg.Search.ChartTimeout()),
		search.WithBrowser(browser.NewLauncher(cfg.Browser), cfg.Browser.StartURL),
	}
	if len(cfg.Kafka.Brokers) > 0 && cfg.Kafka.SearchTopic != "" {
		producer := kafka.NewProducer(cfg.Kafka.Brokers)
		defer producer.Close()
		if err := producer.CheckConnection(ctx); err != nil {
			logging.Warn("kafka unavailable, events may be lost", "error", err)
		}
		opts = append(opts, search.WithProducer(producer, cfg.Kafka.SearchTopic))
	}

	searchService := search.NewSearchService(
		upstream.NewPriceClient(cfg.Upstream, reg),
		flightRepo,
		statsService,
		chart.NewPNGRenderer(),
		opts...,
	)

	router, err := api.NewRouter(api.RouterDeps{
		Search:  searchService,
		Stats:   statsService,
		Checks:  map[string]api.Pinger{"store": flightRepo, "cache": statsCache},
		Metrics: reg,
		Log:     logging.L(),
	})
	if err != nil {
		logging.Fatal("build router", "error", err)
	}

	if err := bootstrap.Run(ctx, cfg, router, promRegistry); err != nil {
		logging.Fatal("server error", "error", err)
	}
}
