package httpserver

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wildvision/observation-store-service/internal/auth"
	"github.com/wildvision/observation-store-service/internal/config"
	"github.com/wildvision/observation-store-service/internal/handlers"
	"github.com/wildvision/observation-store-service/internal/observability"
	"github.com/wildvision/observation-store-service/internal/observations"
	"github.com/wildvision/observation-store-service/internal/store"
)

// NewRouter wires public endpoints and the authenticated observation API.
// Public: /, /health, /ready, /metrics
// Authenticated via X-API-Key: everything under /api
func NewRouter(cfg config.Config, st store.Store, logger *slog.Logger, metrics *observability.Metrics) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	svc := observations.NewService(st, logger)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestMetrics(metrics))
	r.Use(requestTimeout(cfg.RequestTimeout))
	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{cfg.CORSOrigin},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{"Content-Type", "X-API-Key"},
		MaxAge:       12 * time.Hour,
	}))

	// Landing page enumerating the API surface.
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Welcome to the WildVision Observations Backend!",
			"endpoints": gin.H{
				"Add Observation":        "/api/add_observation (POST)",
				"Get All Observations":   "/api/get_observations (GET)",
				"Get Single Observation": "/api/get_observation/<id> (GET)",
				"Delete Observation":     "/api/delete_observation/<id> (DELETE)",
			},
		})
	})

	// Liveness: confirms the process is running.
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Readiness: confirms the collection is reachable.
	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()

		if err := st.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	// Prometheus scrape endpoint.
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.Use(auth.APIKeyMiddleware(cfg.APIKey))

	handlers.RegisterObservationRoutes(api, svc, metrics)

	return r
}

// requestTimeout puts a deadline on each request's context; store calls
// inherit it.
func requestTimeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// requestMetrics records per-request latency labeled by method, matched
// route, and status code.
func requestMetrics(m *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.RequestDuration.WithLabelValues(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
		).Observe(time.Since(start).Seconds())
	}
}
