package middleware

import (
	"fmt"
	"net/http"

	"appMatch/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ErrorHandler renders errors that escaped the handlers (route
// misses, panics surfaced by Recover) as the same JSON message shape
// the handlers use.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "internal server error"
	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		message = fmt.Sprintf("%v", he.Message)
	}

	if code >= http.StatusInternalServerError {
		logger.Error("request failed", "error", err, "path", c.Path())
	}

	if jsonErr := c.JSON(code, echo.Map{"message": message}); jsonErr != nil {
		logger.Error("failed to write error response", "error", jsonErr)
	}
}
