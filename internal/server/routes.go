// Package server exposes health, Prometheus metrics and the latest batch
// result while psalistings runs on a schedule.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/guarzo/psalistings/internal/pipeline"
)

// RunSource reports the most recent batch result
type RunSource interface {
	Last() (*pipeline.RunResult, error)
	Runs() int
}

// SetupRouter builds the router
func SetupRouter(runs RunSource) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/runs/latest", func(c *gin.Context) {
		last, err := runs.Last()
		if last == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "no runs yet"})
			return
		}

		status := http.StatusOK
		if err != nil {
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{
			"runs":   runs.Runs(),
			"latest": last,
		})
	})

	return router
}
