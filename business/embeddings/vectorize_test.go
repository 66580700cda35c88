package embeddings

import (
	"math"
	"testing"

	"appMatch/domain"
)

func TestVectorizeIsPure(t *testing.T) {
	features := domain.AppFeatures{
		Name:     "Puzzle Blast",
		Category: "Games",
		Region:   "US",
		Pricing:  "free",
		Features: []string{"sharing", "leaderboards"},
	}

	for _, arm := range []string{domain.ArmV1, domain.ArmV2} {
		a := Vectorize(features, arm)
		b := Vectorize(features, arm)

		if len(a) != len(b) {
			t.Fatalf("arm %s: lengths differ %d vs %d", arm, len(a), len(b))
		}
		for i := range a {
			if a[i] != b[i] {
				t.Fatalf("arm %s: vectors differ at %d: %v vs %v", arm, i, a[i], b[i])
			}
		}
	}
}

func TestVectorizeDimensionality(t *testing.T) {
	features := domain.AppFeatures{Name: "anything"}

	if got := len(Vectorize(features, domain.ArmV1)); got != 64 {
		t.Errorf("v1 dimension = %d, want 64", got)
	}
	if got := len(Vectorize(features, domain.ArmV2)); got != 128 {
		t.Errorf("v2 dimension = %d, want 128", got)
	}
}

func TestVectorizeIsUnitNorm(t *testing.T) {
	cases := []domain.AppFeatures{
		{Name: "App A", Category: "Games"},
		{Name: "App B"},
		{},
	}

	for _, features := range cases {
		for _, arm := range []string{domain.ArmV1, domain.ArmV2} {
			vec := Vectorize(features, arm)
			var sum float64
			for _, v := range vec {
				sum += v * v
			}
			if norm := math.Sqrt(sum); math.Abs(norm-1) > 1e-6 {
				t.Errorf("arm %s features %+v: norm = %v, want 1", arm, features, norm)
			}
		}
	}
}

func TestVectorizeDistinguishesInputs(t *testing.T) {
	a := Vectorize(domain.AppFeatures{Name: "App A", Category: "Games"}, domain.ArmV1)
	b := Vectorize(domain.AppFeatures{Name: "App B", Category: "Games"}, domain.ArmV1)

	same := true
	for i := range a {
		if a[i] != b[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatal("different feature records produced identical vectors")
	}
}
