package domain

// Neighbor is one ranked similarity-search result. Built fresh per
// request, never persisted.
type Neighbor struct {
	AppID      string  `json:"app_id"`
	Similarity float64 `json:"similarity"`
	AppName    string  `json:"app_name,omitempty"`
	Category   string  `json:"category,omitempty"`
}

// EmbeddingRecord is the canonical per-app entry after shape
// normalization: exactly one finite vector plus optional metadata.
type EmbeddingRecord struct {
	Vec  []float64
	Meta map[string]string
}

// EmbeddingIndex maps app_id to its embedding record for one arm.
// Order fixes the traversal order so that equal-similarity ties rank
// deterministically across calls.
type EmbeddingIndex struct {
	Records map[string]EmbeddingRecord
	Order   []string
}

func (idx *EmbeddingIndex) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.Records)
}
