package embeddings

import (
	"hash/fnv"
	"math"
	"math/rand"
	"strings"

	"appMatch/domain"
)

const (
	dimV1 = 64
	dimV2 = 128

	// how strongly the category signal is mixed into the base
	// vector; the v2 model encodes category more aggressively
	categoryStrengthV1 = 0.3
	categoryStrengthV2 = 0.6

	normEpsilon = 1e-9
)

// Vectorize derives the deterministic pseudo-embedding for a query
// app. Pure: identical features and arm always produce a
// bit-identical, L2-normalized vector of the arm's dimensionality
// (64 for v1, 128 for v2).
func (s *Store) Vectorize(features domain.AppFeatures, arm string) []float64 {
	return Vectorize(features, arm)
}

func Vectorize(features domain.AppFeatures, arm string) []float64 {
	dim, strength := dimV1, categoryStrengthV1
	if arm == domain.ArmV2 {
		dim, strength = dimV2, categoryStrengthV2
	}

	rng := rand.New(rand.NewSource(seedFor(featureKey(features))))
	vec := make([]float64, dim)
	for i := range vec {
		vec[i] = rng.NormFloat64()
	}

	if features.Category != "" {
		catRNG := rand.New(rand.NewSource(seedFor("category:" + features.Category)))
		for i := range vec {
			vec[i] += strength * catRNG.NormFloat64()
		}
	}

	l2Normalize(vec)
	return vec
}

// featureKey is the canonical encoding of a feature record used for
// seeding; field order is fixed so the key is stable.
func featureKey(f domain.AppFeatures) string {
	return strings.Join([]string{
		f.Name, f.Category, f.Region, f.Pricing, strings.Join(f.Features, ","),
	}, "|")
}

func seedFor(key string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(key))
	return int64(h.Sum64())
}

func l2Normalize(vec []float64) {
	var sum float64
	for _, v := range vec {
		sum += v * v
	}
	norm := math.Sqrt(sum) + normEpsilon
	for i := range vec {
		vec[i] /= norm
	}
}
