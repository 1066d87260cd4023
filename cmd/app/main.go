package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ValeriiaKyr/airport-api-service/config"
	"github.com/ValeriiaKyr/airport-api-service/internal/auth"
	"github.com/ValeriiaKyr/airport-api-service/internal/bootstrap"
	"github.com/ValeriiaKyr/airport-api-service/internal/cache"
	"github.com/ValeriiaKyr/airport-api-service/internal/kafka"
	"github.com/ValeriiaKyr/airport-api-service/internal/logger"
	"github.com/ValeriiaKyr/airport-api-service/internal/repository"
	"github.com/ValeriiaKyr/airport-api-service/internal/service/catalog"
	"github.com/ValeriiaKyr/airport-api-service/internal/service/flights"
	"github.com/ValeriiaKyr/airport-api-service/internal/service/orders"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
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
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	if cfg.Database.Migrate {
		if err := repository.Migrate(ctx, pool); err != nil {
			log.Fatalf("migrate: %v", err)
		}
	}

	checks := []bootstrap.HealthCheck{pool.Ping}

	var (
		orderCache  orders.Cache
		flightCache flights.FlightCache
		catalogOpts = []catalog.CatalogServiceOption{catalog.WithLogger(log)}
	)
	if cfg.Redis.Addr != "" {
		redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Flights.CacheTTLSeconds)*time.Second)
		defer redisCache.Close()
		orderCache, flightCache = redisCache, redisCache
		catalogOpts = append(catalogOpts, catalog.WithFlightsCache(redisCache))
		checks = append(checks, redisCache.Ping)
	}

	var producer orders.Producer
	if len(cfg.Kafka.Brokers) > 0 {
		p := kafka.NewProducer(cfg.Kafka.Brokers, log)
		defer p.Close()
		producer = p
		checks = append(checks, p.CheckConnection)
	}

	flightService := flights.NewFlightService(repository.NewFlightRepository(pool), flightCache, log)
	orderService := orders.NewOrderService(
		repository.NewOrderRepository(pool),
		orderCache,
		producer,
		cfg.Kafka.OrdersTopic,
		time.Duration(cfg.Orders.SeatLockTTLSeconds)*time.Second,
		orders.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		orders.WithLogger(log),
	)
	catalogService := catalog.NewCatalogService(
		repository.NewAirportRepository(pool),
		repository.NewAirplaneRepository(pool),
		repository.NewCrewRepository(pool),
		repository.NewRouteRepository(pool),
		catalogOpts...,
	)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.AccessTTLMin)*time.Minute)
	router := bootstrap.NewRouter(cfg, log, tokens, bootstrap.Services{
		Flights: flightService,
		Orders:  orderService,
		Catalog: catalogService,
	}, checks...)

	if err := bootstrap.Run(ctx, cfg, router, log); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
