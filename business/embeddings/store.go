package embeddings

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"appMatch/domain"
	"appMatch/pkg/logger"
)

// IndexSource loads the raw, not-yet-normalized records backing one
// arm's index.
type IndexSource interface {
	LoadRawIndex(ctx context.Context, arm string) (map[string]json.RawMessage, error)
}

// Store owns the two per-arm embedding indices. Each index is loaded
// at most once per process and treated as read-only afterwards; the
// mutex makes the first load single-flight under concurrent access.
// A failed load is returned to the caller and NOT memoized, so a
// later request can retry.
type Store struct {
	source IndexSource

	mu      sync.Mutex
	indices map[string]*domain.EmbeddingIndex
}

func NewStore(source IndexSource) *Store {
	return &Store{
		source:  source,
		indices: make(map[string]*domain.EmbeddingIndex),
	}
}

// GetByArm returns the cached index for the arm, loading it on first
// use. An unavailable or empty index is an error: an empty result
// that looks like "rare but valid" would mask operational failures.
func (s *Store) GetByArm(ctx context.Context, arm string) (*domain.EmbeddingIndex, error) {
	if !domain.ValidArm(arm) {
		return nil, fmt.Errorf("%w: unknown arm %q", domain.ErrValidation, arm)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if idx, ok := s.indices[arm]; ok {
		return idx, nil
	}

	raw, err := s.source.LoadRawIndex(ctx, arm)
	if err != nil {
		return nil, fmt.Errorf("load %s embedding index: %w", arm, err)
	}

	idx, dropped := BuildIndex(raw)
	if dropped > 0 {
		droppedRecordsTotal.WithLabelValues(arm).Add(float64(dropped))
		logger.Warn("dropped malformed embedding records", "arm", arm, "dropped", dropped, "kept", idx.Len())
	}
	if idx.Len() == 0 {
		return nil, fmt.Errorf("embedding index for arm %s has no usable records", arm)
	}

	s.indices[arm] = idx
	logger.Info("embedding index loaded", "arm", arm, "records", idx.Len())

	return idx, nil
}
