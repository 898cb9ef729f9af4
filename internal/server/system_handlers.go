package server

import (
	"net/http"

	"pointledger/internal/api"
	"pointledger/internal/events"
	"pointledger/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200 {object} api.HealthResponse
// @Router       /health [get]
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, api.HealthResponse{Status: "ok"})
}

// @Summary      Transaction event queue length
// @Tags         system
// @Produce      json
// @Success      200 {object} map[string]int64
// @Router       /queue-length [get]
func QueueLength(publisher *events.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		var length int64
		if publisher != nil {
			length = publisher.QueueLength(c.Request.Context())
		}
		metrics.EventQueueLength.Set(float64(length))
		c.JSON(http.StatusOK, gin.H{"queue_length": length})
	}
}

// @Summary      Prometheus metrics
// @Description  Exposes Prometheus metrics in text format
// @Tags         system
// @Produce      text/plain
// @Success      200 {string} string
// @Router       /metrics [get]
func Metrics() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
