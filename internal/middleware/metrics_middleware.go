package middleware

import (
	"net/http"
	"strconv"
	"time"

	"appMatch/pkg/metrics"

	"github.com/labstack/echo/v4"
)

// Metrics records per-request counters and latency into both the
// prometheus collectors and the injected JSON-summary collector.
func Metrics(collector *metrics.Collector) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				} else {
					status = http.StatusInternalServerError
				}
			}

			endpoint := c.Path()
			elapsed := time.Since(start)

			metrics.HTTPRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
			collector.RecordRequest(endpoint, status, float64(elapsed.Milliseconds()))

			return err
		}
	}
}
