package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wijk-raffle/kupon-backend/internal/services"
	"github.com/wijk-raffle/kupon-backend/internal/utils"
)

// StatisticsHandler serves the dashboard totals and the health check
type StatisticsHandler struct {
	statisticsService *services.StatisticsService
	pingers           map[string]func(context.Context) error
}

// NewStatisticsHandler creates a new StatisticsHandler. pingers are checked
// by the health endpoint, keyed by dependency name.
func NewStatisticsHandler(statisticsService *services.StatisticsService, pingers map[string]func(context.Context) error) *StatisticsHandler {
	return &StatisticsHandler{statisticsService: statisticsService, pingers: pingers}
}

// GetStatistics handles GET /statistics
func (h *StatisticsHandler) GetStatistics(c *gin.Context) {
	stats, err := h.statisticsService.GetStatistics(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"statistics":     stats,
		"pemasukanLabel": utils.FormatRupiah(stats.TotalPemasukan),
	})
}

// Health handles GET /health
func (h *StatisticsHandler) Health(c *gin.Context) {
	checks := gin.H{}
	healthy := true
	for name, ping := range h.pingers {
		if err := ping(c.Request.Context()); err != nil {
			checks[name] = err.Error()
			healthy = false
			continue
		}
		checks[name] = "ok"
	}

	status := http.StatusOK
	state := "ok"
	if !healthy {
		status = http.StatusServiceUnavailable
		state = "degraded"
	}
	c.JSON(status, gin.H{"status": state, "checks": checks})
}
