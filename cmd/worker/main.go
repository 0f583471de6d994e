package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/farescope/config"
	"github.com/Domenick1991/farescope/internal/cache"
	"github.com/Domenick1991/farescope/internal/kafka"
	"github.com/Domenick1991/farescope/internal/logging"
	"github.com/Domenick1991/farescope/internal/notify"
	"github.com/Domenick1991/farescope/internal/repository"
	"github.com/Domenick1991/farescope/internal/service/stats"
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	flightRepo, release, err := repository.Open(ctx, cfg.Database)
	if err != nil {
		logging.Fatal("open flight store", "driver", cfg.Database.Driver, "error", err)
	}
	defer release()

	statsCache := cache.New(cfg.Redis, cfg.Search.StatsTTL())
	defer statsCache.Close()
	statsService := stats.NewStatsService(flightRepo, statsCache)

	if len(cfg.Kafka.Brokers) > 0 && cfg.Kafka.SearchTopic != "" {
		consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.SearchTopic)
		defer consumer.Close()

		notifier := notify.NewNotifier(logging.L(), int64(cfg.Worker.NotifyBelowPrice))
		go func() {
			if err := consumer.ConsumeSearchEvents(ctx, notifier.Send); err != nil && ctx.Err() == nil {
				logging.Error("consumer stopped", "error", err)
			}
		}()
	} else {
		logging.Info("kafka not configured, running stats refresh only")
	}

	refreshTicker := time.NewTicker(time.Duration(cfg.Worker.StatsRefreshMinutes) * time.Minute)
	defer refreshTicker.Stop()

	for {
		select {
		case <-refreshTicker.C:
			counts, err := statsService.Refresh(ctx)
			if err != nil {
				logging.Error("refresh date counts", "error", err)
				continue
			}
			logging.Debug("refreshed date counts", "dates", len(counts))
		case <-ctx.Done():
			logging.Info("shutting down worker")
			return
		}
	}
}
