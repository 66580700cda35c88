package router

import (
	"appMatch/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetupRecommendationRoutes(api *echo.Group, similarity *rest.SimilarityHandler, predict *rest.PredictHandler) {
	api.POST("/find-similar", similarity.FindSimilar)
	api.POST("/predict", predict.Predict)
}

func SetupMetricsRoutes(api *echo.Group, handler *rest.MetricsHandler, adminAuth echo.MiddlewareFunc) {
	m := api.Group("/metrics", adminAuth)
	m.GET("/summary", handler.GetSummary)
}
