package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studyflow/studyplan-api/internal/service"
	"github.com/studyflow/studyplan-api/pkg/response"
)

// MetricsHandler exposes the Prometheus endpoint and a JSON status snapshot.
type MetricsHandler struct {
	metrics *service.MetricsService
}

// NewMetricsHandler constructs the handler.
func NewMetricsHandler(metrics *service.MetricsService) *MetricsHandler {
	return &MetricsHandler{metrics: metrics}
}

// Prometheus serves the scrape endpoint.
func (h *MetricsHandler) Prometheus(c *gin.Context) {
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

// Status godoc
// @Summary Engine activity snapshot
// @Tags System
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /status [get]
func (h *MetricsHandler) Status(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.metrics.Snapshot())
}
