package similarity

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"appMatch/domain"
	"appMatch/pkg/logger"
)

// IndexProvider resolves the read-only embedding index for an arm.
type IndexProvider interface {
	GetByArm(ctx context.Context, arm string) (*domain.EmbeddingIndex, error)
}

// MetadataSource loads the app catalog used to enrich neighbors.
type MetadataSource interface {
	LoadAppMetadata(ctx context.Context) (map[string]domain.AppMetadata, error)
}

// Service ranks all indexed apps against a query vector and returns
// the top-k matches, subject to metadata filters.
type Service struct {
	index      IndexProvider
	metaSource MetadataSource

	metaMu sync.Mutex
	meta   map[string]domain.AppMetadata
}

func NewService(index IndexProvider, metaSource MetadataSource) *Service {
	return &Service{
		index:      index,
		metaSource: metaSource,
	}
}

// TopKNeighbors returns at most k neighbors ordered by descending
// cosine similarity. Candidates whose similarity is not finite are
// skipped; ties keep the index traversal order. Zero surviving
// candidates is an empty result, not an error.
func (s *Service) TopKNeighbors(
	ctx context.Context,
	queryVec []float64,
	k int,
	filters map[string][]string,
	arm string,
) ([]domain.Neighbor, error) {

	if len(queryVec) == 0 {
		return nil, fmt.Errorf("%w: empty query vector", domain.ErrValidation)
	}
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", domain.ErrValidation, k)
	}
	if !domain.ValidArm(arm) {
		return nil, fmt.Errorf("%w: unknown arm %q", domain.ErrValidation, arm)
	}

	idx, err := s.index.GetByArm(ctx, arm)
	if err != nil {
		return nil, err
	}

	type candidate struct {
		appID string
		sim   float64
	}

	candidates := make([]candidate, 0, idx.Len())
	skipped := 0
	for _, appID := range idx.Order {
		rec := idx.Records[appID]
		if !passesFilters(rec.Meta, filters) {
			continue
		}

		q, v := reconcileDims(queryVec, rec.Vec)
		sim := Cosine(q, v)
		if math.IsNaN(sim) || math.IsInf(sim, 0) {
			skipped++
			continue
		}
		candidates = append(candidates, candidate{appID: appID, sim: sim})
	}

	if skipped > 0 {
		logger.Debug("skipped candidates with invalid similarity", "arm", arm, "skipped", skipped)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].sim > candidates[j].sim
	})

	if k > len(candidates) {
		k = len(candidates)
	}

	meta := s.appMetadata(ctx)

	neighbors := make([]domain.Neighbor, 0, k)
	for _, c := range candidates[:k] {
		n := domain.Neighbor{AppID: c.appID, Similarity: c.sim}
		if m, ok := meta[c.appID]; ok {
			n.AppName = m.Name
			n.Category = m.Category
		}
		neighbors = append(neighbors, n)
	}

	return neighbors, nil
}

// passesFilters checks every filter key with a non-empty accepted
// set: the candidate's stringified metadata value must be a member.
// Keys with an empty accepted set impose no constraint. A missing
// metadata value never matches a constrained key.
func passesFilters(meta map[string]string, filters map[string][]string) bool {
	for key, accepted := range filters {
		if len(accepted) == 0 {
			continue
		}
		value, ok := meta[key]
		if !ok {
			return false
		}
		found := false
		for _, want := range accepted {
			if value == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// appMetadata returns the catalog, loading it once on first use.
// Enrichment is best-effort: a failed load degrades to bare
// neighbors instead of failing the retrieval.
func (s *Service) appMetadata(ctx context.Context) map[string]domain.AppMetadata {
	s.metaMu.Lock()
	defer s.metaMu.Unlock()

	if s.meta != nil {
		return s.meta
	}
	if s.metaSource == nil {
		s.meta = map[string]domain.AppMetadata{}
		return s.meta
	}

	meta, err := s.metaSource.LoadAppMetadata(ctx)
	if err != nil {
		logger.Warn("app metadata unavailable, serving unenriched neighbors", "error", err)
		return map[string]domain.AppMetadata{}
	}

	s.meta = meta
	logger.Info("app metadata loaded", "apps", len(meta))
	return s.meta
}
