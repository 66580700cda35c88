package predictor

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"appMatch/domain"
)

const (
	// only the closest neighbors carry predictive signal
	topNeighbors = 5

	// CTR values are small; scale the weighted mean into a usable
	// score range before clamping
	ctrScale = 1000.0

	scoreFloor = 0.05
	scoreCeil  = 0.95

	minSimilaritySum = 0.1

	fallbackBase  = 0.5
	fallbackBoost = 0.4
)

// Predictor scores an app's expected performance from its nearest
// neighbors' historical CTR, weighted by similarity. Stateless; one
// instance serves all requests.
type Predictor struct{}

func New() *Predictor {
	return &Predictor{}
}

// Predict returns a score in [0,1] (3 decimals) plus inferred
// audience segments. Neighbors must be non-empty and already sorted
// by descending similarity. Apps without historical stats simply
// contribute nothing; if none of the top neighbors has usable
// history, a similarity-only heuristic takes over.
func (p *Predictor) Predict(
	features domain.AppFeatures,
	neighbors []domain.Neighbor,
	perf map[string]domain.PerfStats,
) (domain.Prediction, error) {

	if len(neighbors) == 0 {
		return domain.Prediction{}, fmt.Errorf("%w: neighbors must be non-empty", domain.ErrValidation)
	}

	top := neighbors
	if len(top) > topNeighbors {
		top = top[:topNeighbors]
	}

	var weightedCTR, simSum float64
	retained := 0
	for _, n := range top {
		stats, ok := perf[n.AppID]
		if !ok {
			continue
		}
		ctr := stats.CTR
		if math.IsNaN(ctr) || math.IsInf(ctr, 0) || ctr < 0 {
			continue
		}
		weightedCTR += ctr * n.Similarity
		simSum += n.Similarity
		retained++
	}

	var score float64
	if retained > 0 && simSum > 0 {
		raw := weightedCTR / math.Max(simSum, minSimilaritySum)
		score = clamp(raw*ctrScale, scoreFloor, scoreCeil)
	} else {
		fallbacksTotal.Inc()
		var avgSim float64
		for _, n := range top {
			avgSim += n.Similarity
		}
		avgSim /= float64(len(top))
		score = fallbackBase + fallbackBoost*avgSim
	}

	return domain.Prediction{
		Score:    math.Round(score*1000) / 1000,
		Segments: inferSegments(features),
	}, nil
}

// inferSegments derives audience labels from the app's category and
// feature list, defaulting to a catch-all when nothing matches.
func inferSegments(features domain.AppFeatures) []string {
	segments := make(map[string]struct{})

	category := strings.ToLower(features.Category)
	if strings.Contains(category, "game") {
		segments["gamers"] = struct{}{}
	}
	if strings.Contains(category, "fitness") {
		segments["fitness_lovers"] = struct{}{}
	}
	for _, feature := range features.Features {
		if feature == "sharing" {
			segments["social"] = struct{}{}
		}
	}
	if len(segments) == 0 {
		segments["tech-savvy"] = struct{}{}
	}

	out := make([]string, 0, len(segments))
	for s := range segments {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
