package domain

// Prediction is the performance estimate for an app given its
// nearest neighbors.
type Prediction struct {
	Score    float64  `json:"score"`
	Segments []string `json:"segments"`
}

// DefaultPrediction is served when prediction scoring fails
// unexpectedly; availability wins over precision here.
func DefaultPrediction() Prediction {
	return Prediction{Score: 0.5, Segments: []string{"unknown"}}
}
