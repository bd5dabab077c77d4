package api

import (
	"log/slog"
	"path"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cinfoposte/unwomen-jobs/app/cfg"
)

// NewServer builds the HTTP router. The feed is served both at /feed.xml
// and at the basename of the configured feed path, so published URLs keep
// working when the file name changes.
func NewServer(handler *Handler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger())

	r.GET("/feed.xml", handler.GetFeed)
	if alias := "/" + path.Base(cfg.Get().FeedPath); alias != "/feed.xml" {
		r.GET(alias, handler.GetFeed)
	}

	r.GET("/health", handler.GetHealth)
	r.GET("/stats", handler.GetStats)

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"service": "unwomen-jobs",
			"version": cfg.GetVersion(),
			"endpoints": gin.H{
				"feed":   "/feed.xml",
				"health": "/health",
				"stats":  "/stats",
			},
		})
	})

	r.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(204)
	})

	return r
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		slog.Debug("HTTP request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"client", c.ClientIP())
	}
}
