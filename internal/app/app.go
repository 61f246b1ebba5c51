package app

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/smartplatform/gateway/cmd/server/docs" // swagger docs
	"github.com/smartplatform/gateway/internal/infra/config"
	"github.com/smartplatform/gateway/internal/utils/middleware"
)

// App is the credit-metered generation gateway.
type App struct {
	config  *config.Config
	deps    *Dependencies
	router  *gin.Engine
	cleanup func()
}

// New wires every dependency and builds the router.
func New(cfg *config.Config) (*App, error) {
	deps, cleanup, err := InitializeDependencies(cfg)
	if err != nil {
		return nil, fmt.Errorf("init dependencies: %w", err)
	}

	app := &App{
		config:  cfg,
		deps:    deps,
		cleanup: cleanup,
	}
	app.router = app.setupRouter()
	app.registerRoutes()

	deps.ZapLogger.Info("application initialized",
		zap.String("database_driver", cfg.Database.Driver),
		zap.Bool("redis", deps.Redis != nil),
		zap.Bool("asset_storage", cfg.Storage.Enabled()),
	)

	return app, nil
}

// setupRouter creates the gin engine and the global middleware chain.
func (a *App) setupRouter() *gin.Engine {
	// Set Gin mode based on environment
	if a.config.Log.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	corsCfg := middleware.DefaultCORSConfig()
	if len(a.config.CORS.AllowOrigins) > 0 {
		corsCfg.AllowOrigins = a.config.CORS.AllowOrigins
	}

	// Apply global middleware
	r.Use(middleware.Recovery(a.deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(a.deps.Logger))
	r.Use(middleware.Metrics(a.deps.Metrics))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(corsCfg))
	r.Use(middleware.BodyLimit(a.config.Server.MaxBodyBytes))

	if a.config.RateLimit.Enabled {
		r.Use(middleware.RateLimit(a.deps.RateLimiter, middleware.RateLimitConfig{
			Limit:  a.config.RateLimit.Limit,
			Window: a.config.RateLimit.Window,
			SkipFunc: func(c *gin.Context) bool {
				switch c.Request.URL.Path {
				case "/health", "/metrics":
					return true
				}
				return false
			},
			Logger: a.deps.Logger,
		}))
	}

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	// Prometheus scrape endpoint
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(a.deps.Registry, promhttp.HandlerOpts{})))

	// Swagger documentation endpoint
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))

	return r
}

// registerRoutes registers all API routes.
func (a *App) registerRoutes() {
	v1 := a.router.Group("/api/v1")

	a.deps.GenerationHandler.RegisterRoutes(v1)
	a.deps.LegalHandler.RegisterRoutes(v1)
}

// Router returns the HTTP router.
func (a *App) Router() *gin.Engine {
	return a.router
}

// Dependencies exposes the wired dependency graph.
func (a *App) Dependencies() *Dependencies {
	return a.deps
}

// Stop releases database, Redis and logger resources.
func (a *App) Stop() {
	if a.cleanup != nil {
		a.cleanup()
		a.cleanup = nil
	}
}
