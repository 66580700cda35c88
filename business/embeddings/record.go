package embeddings

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"

	"appMatch/domain"
)

// Index sources deliver records in whatever shape the upstream
// pipeline produced. Four shapes are accepted:
//
//   - a 1-D numeric vector
//   - a 2-D numeric matrix (multiple event embeddings for one app,
//     collapsed to a single vector by row-wise mean)
//   - an object with a "vec" field plus an optional "meta" mapping
//   - a plain ordered sequence of numbers
//
// Everything else is rejected and the record is dropped by the store.

type recordEnvelope struct {
	Vec  json.RawMessage            `json:"vec"`
	Meta map[string]json.RawMessage `json:"meta"`
}

// NormalizeRecord collapses a raw record into exactly one finite
// vector plus optional string metadata, or reports why it cannot.
func NormalizeRecord(raw json.RawMessage) (domain.EmbeddingRecord, error) {
	if vec, err := decodeVector(raw); err == nil {
		return domain.EmbeddingRecord{Vec: vec}, nil
	}

	var env recordEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return domain.EmbeddingRecord{}, fmt.Errorf("unrecognized record shape: %w", err)
	}
	if env.Vec == nil {
		return domain.EmbeddingRecord{}, fmt.Errorf("record is missing vector field")
	}

	vec, err := decodeVector(env.Vec)
	if err != nil {
		return domain.EmbeddingRecord{}, fmt.Errorf("record vector field: %w", err)
	}

	rec := domain.EmbeddingRecord{Vec: vec}
	if len(env.Meta) > 0 {
		rec.Meta = make(map[string]string, len(env.Meta))
		for k, v := range env.Meta {
			rec.Meta[k] = stringifyMeta(v)
		}
	}
	return rec, nil
}

// decodeVector accepts a 1-D numeric array or a 2-D matrix, which is
// collapsed by averaging across rows. The result must be non-empty
// and all-finite.
func decodeVector(raw json.RawMessage) ([]float64, error) {
	var vec []float64
	if err := json.Unmarshal(raw, &vec); err == nil {
		return checkFinite(vec)
	}

	var matrix [][]float64
	if err := json.Unmarshal(raw, &matrix); err != nil {
		return nil, fmt.Errorf("neither 1-D vector nor 2-D matrix")
	}
	return checkFinite(collapseRows(matrix))
}

// collapseRows averages a matrix across its first axis. Ragged rows
// contribute only to the positions they cover.
func collapseRows(matrix [][]float64) []float64 {
	width := 0
	for _, row := range matrix {
		if len(row) > width {
			width = len(row)
		}
	}
	if width == 0 {
		return nil
	}

	out := make([]float64, width)
	counts := make([]int, width)
	for _, row := range matrix {
		for i, v := range row {
			out[i] += v
			counts[i]++
		}
	}
	for i := range out {
		if counts[i] > 0 {
			out[i] /= float64(counts[i])
		}
	}
	return out
}

func checkFinite(vec []float64) ([]float64, error) {
	if len(vec) == 0 {
		return nil, fmt.Errorf("empty vector")
	}
	for i, v := range vec {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("non-finite value at position %d", i)
		}
	}
	return vec, nil
}

// stringifyMeta renders a metadata value the way the filter layer
// compares it: strings verbatim, numbers without a trailing .0,
// anything else via its JSON form.
func stringifyMeta(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return string(raw)
}

// BuildIndex normalizes every raw record, dropping the malformed
// ones. Keys are sorted so the index traversal order, and therefore
// top-k tie-breaking, is deterministic.
func BuildIndex(raw map[string]json.RawMessage) (*domain.EmbeddingIndex, int) {
	idx := &domain.EmbeddingIndex{
		Records: make(map[string]domain.EmbeddingRecord, len(raw)),
		Order:   make([]string, 0, len(raw)),
	}

	dropped := 0
	for appID, rawRec := range raw {
		rec, err := NormalizeRecord(rawRec)
		if err != nil {
			dropped++
			continue
		}
		idx.Records[appID] = rec
		idx.Order = append(idx.Order, appID)
	}
	sort.Strings(idx.Order)

	return idx, dropped
}
