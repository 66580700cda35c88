package rest

import (
	"context"
	"errors"
	"net/http"

	"appMatch/domain"
	"appMatch/pkg/logger"
	"appMatch/pkg/metrics"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	SimilarityHandler struct {
		validate    *validator.Validate
		arms        ArmPicker
		vectorizer  Vectorizer
		retrieval   RetrievalService
		collector   *metrics.Collector
		defaultTopK int
	}

	// ArmPicker assigns an A/B arm for a request identity.
	ArmPicker interface {
		PickArm(partnerID, appID string) string
	}

	// Vectorizer embeds app features into the arm's vector space.
	Vectorizer interface {
		Vectorize(features domain.AppFeatures, arm string) []float64
	}

	// RetrievalService ranks indexed apps against a query vector.
	RetrievalService interface {
		TopKNeighbors(ctx context.Context, queryVec []float64, k int, filters map[string][]string, arm string) ([]domain.Neighbor, error)
	}

	AppFeaturesPayload struct {
		Name     string   `json:"name" validate:"required"`
		Category string   `json:"category" validate:"required"`
		Region   string   `json:"region"`
		Pricing  string   `json:"pricing"`
		Features []string `json:"features"`
	}

	FindSimilarRequest struct {
		App       AppFeaturesPayload  `json:"app" validate:"required"`
		Filters   map[string][]string `json:"filters"`
		TopK      *int                `json:"top_k" validate:"omitempty,gte=1,lte=100"`
		PartnerID string              `json:"partner_id"`
		AppID     string              `json:"app_id"`
	}

	FindSimilarResponse struct {
		Neighbors []domain.Neighbor `json:"neighbors"`
		ABArm     string            `json:"ab_arm"`
	}
)

func (p AppFeaturesPayload) toDomain() domain.AppFeatures {
	return domain.AppFeatures{
		Name:     p.Name,
		Category: p.Category,
		Region:   p.Region,
		Pricing:  p.Pricing,
		Features: p.Features,
	}
}

func NewSimilarityHandler(
	arms ArmPicker,
	vectorizer Vectorizer,
	retrieval RetrievalService,
	collector *metrics.Collector,
	defaultTopK int,
) *SimilarityHandler {
	return &SimilarityHandler{
		validate:    validator.New(),
		arms:        arms,
		vectorizer:  vectorizer,
		retrieval:   retrieval,
		collector:   collector,
		defaultTopK: defaultTopK,
	}
}

// FindSimilar handles POST /api/v1/find-similar: assign an arm, embed
// the request's app features and return the top-k nearest indexed
// apps. An empty neighbor list is an ordinary success.
func (h *SimilarityHandler) FindSimilar(c echo.Context) error {
	var req FindSimilarRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	topK := h.defaultTopK
	if req.TopK != nil {
		topK = *req.TopK
	}

	arm := h.arms.PickArm(req.PartnerID, req.AppID)
	metrics.ABAssignmentsTotal.WithLabelValues("find-similar", arm).Inc()
	h.collector.RecordABAssignment("find-similar", arm)

	queryVec := h.vectorizer.Vectorize(req.App.toDomain(), arm)

	neighbors, err := h.retrieval.TopKNeighbors(c.Request().Context(), queryVec, topK, req.Filters, arm)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		logger.Error("neighbor retrieval failed", "error", err, "arm", arm)
		h.collector.RecordError("retrieval")
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	if neighbors == nil {
		neighbors = []domain.Neighbor{}
	}

	return c.JSON(http.StatusOK, FindSimilarResponse{
		Neighbors: neighbors,
		ABArm:     arm,
	})
}
