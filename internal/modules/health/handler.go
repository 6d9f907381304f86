package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	pkgredis "github.com/gitglyph/core/internal/pkg/redis"
)

// SessionCounter reports the number of live workflow sessions.
type SessionCounter interface {
	Count() int
}

// Checks lists the collaborators the health endpoint inspects.
type Checks struct {
	Redis    *pkgredis.Client
	Sessions SessionCounter
	// ArweaveReady is true when a signing key is loaded.
	ArweaveReady bool
	// ChainReady is true when a chain RPC endpoint is configured.
	ChainReady bool
}

func RegisterRoutes(rg *gin.RouterGroup, checks Checks) {
	rg.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		redisOK := checks.Redis != nil && checks.Redis.Ping(ctx) == nil

		status := "ok"
		code := http.StatusOK
		if !redisOK {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		sessions := 0
		if checks.Sessions != nil {
			sessions = checks.Sessions.Count()
		}

		c.JSON(code, gin.H{
			"status":   status,
			"redis":    redisOK,
			"arweave":  checks.ArweaveReady,
			"chain":    checks.ChainReady,
			"sessions": sessions,
		})
	})
}
