package middleware

import (
	"time"

	"appMatch/pkg/logger"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const HeaderCorrelationID = "X-Correlation-ID"

// CorrelationID tags every request with a correlation id, echoing a
// caller-supplied one or minting a fresh UUID, and logs request
// completion with it.
func CorrelationID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cid := c.Request().Header.Get(HeaderCorrelationID)
			if cid == "" {
				cid = uuid.NewString()
			}
			c.Set("correlation_id", cid)
			c.Response().Header().Set(HeaderCorrelationID, cid)

			start := time.Now()
			err := next(c)

			logger.Info("request completed",
				"method", c.Request().Method,
				"path", c.Path(),
				"status", c.Response().Status,
				"latency_ms", time.Since(start).Milliseconds(),
				"correlation_id", cid,
			)

			return err
		}
	}
}
