package rest

import (
	"net/http"

	"appMatch/pkg/metrics"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

// MetricsHandler serves the JSON metrics summary backing the ops
// dashboard. The prometheus scrape endpoint lives on /metrics.
type MetricsHandler struct {
	collector *metrics.Collector
}

func NewMetricsHandler(collector *metrics.Collector) *MetricsHandler {
	return &MetricsHandler{collector: collector}
}

func (h *MetricsHandler) GetSummary(c echo.Context) error {
	return c.JSON(http.StatusOK, fres.Response.StatusOK(h.collector.GetSummary()))
}
