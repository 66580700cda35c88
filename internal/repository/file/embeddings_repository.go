package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"appMatch/domain"
)

// EmbeddingsRepository reads a per-arm embedding index from a local
// JSON file: an object keyed by app_id whose values may be any of
// the shapes the store's normalizer accepts.
type EmbeddingsRepository struct {
	pathV1 string
	pathV2 string
}

func NewEmbeddingsRepository(pathV1, pathV2 string) *EmbeddingsRepository {
	return &EmbeddingsRepository{pathV1: pathV1, pathV2: pathV2}
}

func (r *EmbeddingsRepository) LoadRawIndex(ctx context.Context, arm string) (map[string]json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	path := r.pathV1
	if arm == domain.ArmV2 {
		path = r.pathV2
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read embeddings file %s: %w", path, err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse embeddings file %s: %w", path, err)
	}

	return raw, nil
}
