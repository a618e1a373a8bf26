package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lbhackney-it/apprenticeships-api/internal/service"
	"github.com/lbhackney-it/apprenticeships-api/pkg/response"
)

// AnalyticsHandler exposes dashboard-ready analytics endpoints.
type AnalyticsHandler struct {
	analytics *service.AnalyticsService
}

// NewAnalyticsHandler constructs the analytics handler.
func NewAnalyticsHandler(analytics *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

// Summary godoc
// @Summary Apprentice counts and levy totals
// @Tags Analytics
// @Produce json
// @Success 200 {object} models.AnalyticsSummary
// @Router /Analytics/summary [get]
func (h *AnalyticsHandler) Summary(c *gin.Context) {
	summary, err := h.analytics.Summary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary)
}
