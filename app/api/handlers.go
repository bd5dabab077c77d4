package api

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cinfoposte/unwomen-jobs/app/cfg"
)

// GetFeed serves the persisted feed file as-is. The file is the single
// source of truth; the handler never regenerates it.
func (h *Handler) GetFeed(c *gin.Context) {
	data, err := os.ReadFile(h.store.Path())
	if err != nil {
		if os.IsNotExist(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Feed not generated yet"})
			return
		}
		slog.Error("Failed to read feed file", "path", h.store.Path(), "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	if info, err := os.Stat(h.store.Path()); err == nil {
		c.Header("Last-Modified", info.ModTime().UTC().Format(http.TimeFormat))
	}

	c.Data(http.StatusOK, "application/rss+xml; charset=utf-8", data)
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := gin.H{
		"status":    "ok",
		"version":   cfg.GetVersion(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if info, err := os.Stat(h.store.Path()); err == nil {
		health["feed_size"] = info.Size()
		health["feed_updated_at"] = info.ModTime().UTC().Format(time.RFC3339)
	} else {
		health["feed_size"] = 0
	}

	c.JSON(http.StatusOK, health)
}

// GetStats reports the counters of the most recent refresh run.
func (h *Handler) GetStats(c *gin.Context) {
	status := h.status.Get()
	if status.LastRunAt.IsZero() {
		c.JSON(http.StatusOK, gin.H{"message": "No refresh has run yet"})
		return
	}

	c.JSON(http.StatusOK, status)
}
