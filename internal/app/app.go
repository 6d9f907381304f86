package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gitglyph/core/internal/config"
	"github.com/gitglyph/core/internal/middleware"
	"github.com/gitglyph/core/internal/modules/arweave"
	"github.com/gitglyph/core/internal/modules/gist"
	"github.com/gitglyph/core/internal/modules/mint"
	"github.com/gitglyph/core/internal/modules/workflow"
	pkgredis "github.com/gitglyph/core/internal/pkg/redis"
	"go.uber.org/zap"
)

// App holds all application dependencies.
type App struct {
	cfg      *config.AppConfig
	router   *gin.Engine
	rc       *pkgredis.Client
	chain    *mint.ChainClient
	registry *workflow.Registry
	logger   *zap.Logger
	cancel   context.CancelFunc
}

// New initializes the application: config, Redis, services, routes.
func New(logger *zap.Logger, cfg *config.AppConfig) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	rc, err := pkgredis.Connect(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}

	if cfg.IsDev() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))
	router.Use(cors.New(corsConfig(cfg)))

	gistSvc := gist.NewService(cfg.GitHub, cfg.GistCacheTTL(), rc, logger)
	arweaveSvc := arweave.NewService(cfg.Arweave, logger)

	// The chain client is optional; without it mint attempts fail cleanly
	// and the rest of the service stays up.
	var chain *mint.ChainClient
	var exec *mint.Executor
	if cfg.Chain.RPCURL != "" {
		chain, err = mint.NewChainClient(cfg.Chain, logger)
		if err != nil {
			return nil, fmt.Errorf("chain: %w", err)
		}
		exec = mint.NewExecutor(chain, chain.Contract(), logger)
	} else {
		logger.Warn("chain rpc_url not configured, minting disabled")
	}

	registry := workflow.NewRegistry(
		publisherAdapter{svc: arweaveSvc},
		minterAdapter{exec: exec},
		logger,
	)

	ctx, cancel := context.WithCancel(context.Background())
	go registry.Run(ctx)

	app := &App{
		cfg:      cfg,
		router:   router,
		rc:       rc,
		chain:    chain,
		registry: registry,
		logger:   logger,
		cancel:   cancel,
	}
	app.registerRoutes(gistSvc, arweaveSvc)

	return app, nil
}

// Addr returns the listen address.
func (a *App) Addr() string { return fmt.Sprintf(":%d", a.cfg.Port) }

// Router returns the HTTP handler.
func (a *App) Router() http.Handler { return a.router }

// Shutdown stops background goroutines and closes outbound connections.
func (a *App) Shutdown() {
	a.cancel()
	if a.chain != nil {
		a.chain.Close()
	}
}

func corsConfig(cfg *config.AppConfig) cors.Config {
	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Cache-Control", "x-gg-cache"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) > 0 && !cfg.IsDev() {
		patterns := cfg.AllowedOrigins
		corsCfg.AllowOriginFunc = func(origin string) bool {
			host := extractOriginHost(origin)
			for _, pattern := range patterns {
				if matchOriginPattern(pattern, host) {
					return true
				}
			}
			return false
		}
	} else {
		corsCfg.AllowOriginFunc = func(origin string) bool { return true }
	}
	return corsCfg
}

var processStart = time.Now()
