package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"appMatch/domain"
	"appMatch/pkg/logger"
	"appMatch/pkg/metrics"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	PredictHandler struct {
		validate  *validator.Validate
		perf      PerformanceProvider
		predictor PredictorService
		collector *metrics.Collector
	}

	// PerformanceProvider serves the aggregated historical stats.
	PerformanceProvider interface {
		Stats(ctx context.Context) (map[string]domain.PerfStats, error)
	}

	// PredictorService scores an app from its neighbors' history.
	PredictorService interface {
		Predict(features domain.AppFeatures, neighbors []domain.Neighbor, perf map[string]domain.PerfStats) (domain.Prediction, error)
	}

	NeighborPayload struct {
		AppID      string  `json:"app_id" validate:"required"`
		Similarity float64 `json:"similarity"`
	}

	PredictRequest struct {
		App       AppFeaturesPayload `json:"app" validate:"required"`
		Neighbors []NeighborPayload  `json:"neighbors" validate:"required,min=1,dive"`
		ABArm     string             `json:"ab_arm" validate:"required,oneof=v1 v2"`
	}

	PredictResponse struct {
		ABArm      string            `json:"ab_arm"`
		Prediction domain.Prediction `json:"prediction"`
		LatencyMS  int64             `json:"latency_ms"`
	}
)

func NewPredictHandler(perf PerformanceProvider, predictor PredictorService, collector *metrics.Collector) *PredictHandler {
	return &PredictHandler{
		validate:  validator.New(),
		perf:      perf,
		predictor: predictor,
		collector: collector,
	}
}

// Predict handles POST /api/v1/predict. Missing historical data and
// unexpected scoring failures degrade to safe results instead of
// failing the request; only malformed input is rejected.
func (h *PredictHandler) Predict(c echo.Context) error {
	start := time.Now()

	var req PredictRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	metrics.ABAssignmentsTotal.WithLabelValues("predict", req.ABArm).Inc()
	h.collector.RecordABAssignment("predict", req.ABArm)

	perf, err := h.perf.Stats(c.Request().Context())
	if err != nil {
		logger.Warn("historical performance unavailable, predicting without it", "error", err)
		perf = map[string]domain.PerfStats{}
	}

	neighbors := make([]domain.Neighbor, 0, len(req.Neighbors))
	for _, n := range req.Neighbors {
		neighbors = append(neighbors, domain.Neighbor{AppID: n.AppID, Similarity: n.Similarity})
	}

	prediction, err := h.safePredict(req.App.toDomain(), neighbors, perf)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		logger.Error("prediction failed, serving default", "error", err)
		h.collector.RecordError("prediction")
		prediction = domain.DefaultPrediction()
	}

	return c.JSON(http.StatusOK, PredictResponse{
		ABArm:      req.ABArm,
		Prediction: prediction,
		LatencyMS:  time.Since(start).Milliseconds(),
	})
}

// safePredict converts a scoring panic into an error so the caller
// can substitute the default prediction.
func (h *PredictHandler) safePredict(
	features domain.AppFeatures,
	neighbors []domain.Neighbor,
	perf map[string]domain.PerfStats,
) (prediction domain.Prediction, err error) {

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("prediction panicked: %v", r)
		}
	}()

	return h.predictor.Predict(features, neighbors, perf)
}
