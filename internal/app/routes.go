package app

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gitglyph/core/internal/middleware"
	"github.com/gitglyph/core/internal/modules/arweave"
	"github.com/gitglyph/core/internal/modules/gist"
	"github.com/gitglyph/core/internal/modules/health"
	"github.com/gitglyph/core/internal/modules/mint"
	"github.com/gitglyph/core/internal/modules/workflow"
	"github.com/gitglyph/core/internal/pkg/response"
)

const apiPrefix = "/api/v1"

func (a *App) registerRoutes(gistSvc *gist.Service, arweaveSvc *arweave.Service) {
	r := a.router

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	appInfo := gin.H{
		"name":     "gitglyph-core",
		"version":  "1.0.0",
		"homepage": "https://github.com/gitglyph/core",
	}

	api := r.Group(apiPrefix)
	api.Use(middleware.RateLimit(a.rc.Raw()))
	api.Use(middleware.HTTPCache(a.rc.Raw(), middleware.HTTPCacheOptions{
		TTL:                  a.cfg.GistCacheTTL(),
		StaleWhileRevalidate: 600,
		Disable:              a.cfg.IsDev(),
		SkipPaths:            httpCacheSkipPaths(apiPrefix),
	}))

	api.GET("", func(c *gin.Context) { c.PureJSON(http.StatusOK, appInfo) })
	api.GET("/info", func(c *gin.Context) { c.PureJSON(http.StatusOK, appInfo) })
	api.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"data": "pong"}) })
	api.GET("/uptime", func(c *gin.Context) {
		uptimeMs := time.Since(processStart).Milliseconds()
		c.JSON(http.StatusOK, gin.H{
			"timestamp": uptimeMs,
			"humanize":  humanizeDuration(time.Duration(uptimeMs) * time.Millisecond),
		})
	})

	health.RegisterRoutes(api, health.Checks{
		Redis:        a.rc,
		Sessions:     a.registry,
		ArweaveReady: arweaveSvc.Configured(),
		ChainReady:   a.chain != nil,
	})

	gist.NewHandler(gistSvc).RegisterRoutes(api)
	arweave.NewHandler(arweaveSvc).RegisterRoutes(api)
	workflow.NewHandler(a.registry, gistSvc).RegisterRoutes(api)

	var reader mint.Reader
	if a.chain != nil {
		reader = a.chain
	}
	mint.NewHandler(reader).RegisterRoutes(api)
}

// httpCacheSkipPaths lists endpoints whose responses must never be replayed
// from the shared cache.
func httpCacheSkipPaths(prefix string) []string {
	return []string{
		prefix + "/health",
		prefix + "/uptime",
		prefix + "/arweave",
		prefix + "/workflow",
		prefix + "/workflow/*",
	}
}
