package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ValeriiaKyr/airport-api-service/config"
	"github.com/ValeriiaKyr/airport-api-service/internal/cache"
	"github.com/ValeriiaKyr/airport-api-service/internal/kafka"
	"github.com/ValeriiaKyr/airport-api-service/internal/logger"
	"github.com/ValeriiaKyr/airport-api-service/internal/notify"
	"github.com/ValeriiaKyr/airport-api-service/internal/repository"
	"github.com/ValeriiaKyr/airport-api-service/internal/service/flights"
	"github.com/go-co-op/gocron/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		logrus.Fatalf("init logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	g, gctx := errgroup.WithContext(ctx)

	if cfg.Redis.Addr != "" {
		redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Flights.CacheTTLSeconds)*time.Second)
		defer redisCache.Close()
		flightService := flights.NewFlightService(repository.NewFlightRepository(pool), redisCache, log)

		scheduler, err := gocron.NewScheduler()
		if err != nil {
			log.Fatalf("create scheduler: %v", err)
		}
		_, err = scheduler.NewJob(
			gocron.DurationJob(time.Duration(cfg.Worker.CacheRefreshMinutes)*time.Minute),
			gocron.NewTask(func() {
				if err := flightService.RefreshCache(gctx); err != nil {
					log.WithError(err).Warn("flights cache refresh failed")
				}
			}),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			log.Fatalf("schedule cache refresh: %v", err)
		}
		scheduler.Start()

		g.Go(func() error {
			<-gctx.Done()
			return scheduler.Shutdown()
		})
	}

	if len(cfg.Kafka.Brokers) > 0 && cfg.Kafka.NotificationsTopic != "" {
		consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic, log)
		defer consumer.Close()
		notifier := notify.NewNotifier(log)

		g.Go(func() error {
			return consumer.ConsumeOrders(gctx, notifier.Notify)
		})
	}

	log.Info("worker started")
	if err := g.Wait(); err != nil {
		log.WithError(err).Error("worker stopped")
		return
	}
	log.Info("worker stopped")
}
