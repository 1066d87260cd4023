package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/ValeriiaKyr/airport-api-service/api"
	"github.com/ValeriiaKyr/airport-api-service/config"
	"github.com/ValeriiaKyr/airport-api-service/internal/auth"
	"github.com/ValeriiaKyr/airport-api-service/internal/middleware"
	"github.com/ValeriiaKyr/airport-api-service/internal/service/catalog"
	"github.com/ValeriiaKyr/airport-api-service/internal/service/flights"
	"github.com/ValeriiaKyr/airport-api-service/internal/service/orders"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/sync/errgroup"
)

type Services struct {
	Flights flights.FlightUseCase
	Orders  orders.OrderUseCase
	Catalog catalog.CatalogUseCase
}

// HealthCheck reports whether a backing dependency is reachable.
type HealthCheck func(ctx context.Context) error

func NewRouter(cfg *config.Config, log logrus.FieldLogger, tokens *auth.TokenManager, svc Services, checks ...HealthCheck) *gin.Engine {
	api.RegisterValidators()

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log), cors.New(corsConfig(cfg.HTTP.AllowedOrigins)))

	r.GET("/healthz", func(c *gin.Context) {
		for _, check := range checks {
			if err := check(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if cfg.HTTP.SwaggerDir != "" {
		r.StaticFile("/swagger/doc.json", filepath.Join(cfg.HTTP.SwaggerDir, "swagger.json"))
		r.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json"))))
	}

	v1 := r.Group("/api/v1",
		middleware.Timeout(time.Duration(cfg.HTTP.RequestTimeoutSeconds)*time.Second),
		middleware.JWTAuth(tokens),
	)
	admin := middleware.RequireRole(cfg.Auth.AdminRoleName)

	var orderLimits []gin.HandlerFunc
	if cfg.RateLimit.Enabled {
		limiter := middleware.NewUserRateLimiter(cfg.RateLimit.OrdersPerSecond, cfg.RateLimit.OrdersBurst)
		orderLimits = append(orderLimits, limiter.Middleware())
	}

	orderHandler := api.NewOrderHandler(svc.Orders)
	orderHandler.Register(v1.Group("/orders"), orderLimits...)
	orderHandler.RegisterTickets(v1.Group("/tickets"))
	api.NewFlightHandler(svc.Flights).Register(v1.Group("/flights"), admin)
	api.NewAirportHandler(svc.Catalog).Register(v1.Group("/airports"), admin)
	api.NewCrewHandler(svc.Catalog).Register(v1.Group("/crews"), admin)
	api.NewRouteHandler(svc.Catalog).Register(v1.Group("/routes"), admin)
	airplanes := api.NewAirplaneHandler(svc.Catalog)
	airplanes.Register(v1.Group("/airplanes"), admin)
	airplanes.RegisterTypes(v1.Group("/airplane-types"), admin)

	return r
}

func corsConfig(origins []string) cors.Config {
	c := cors.DefaultConfig()
	if len(origins) == 0 {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
	}
	c.AddAllowHeaders("Authorization")
	c.AddExposeHeaders(middleware.HeaderRequestID)
	return c
}

// Run serves handler until ctx is cancelled or the server fails, then shuts
// down gracefully.
func Run(ctx context.Context, cfg *config.Config, handler http.Handler, log logrus.FieldLogger) error {
	srv := &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.WithField("address", cfg.HTTP.Address).Info("http server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		log.Info("http server stopped")
		return nil
	})
	return g.Wait()
}
