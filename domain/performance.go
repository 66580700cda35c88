package domain

// PerformanceEvent is one raw historical ad-performance row before
// aggregation.
type PerformanceEvent struct {
	AppID       string  `json:"app_id"`
	Clicks      int64   `json:"clicks"`
	Impressions int64   `json:"impressions"`
	Revenue     float64 `json:"revenue"`
}

// PerfStats is the per-app aggregate over all historical events.
// CTR uses +1 smoothing on impressions.
type PerfStats struct {
	Clicks      int64   `json:"clicks"`
	Impressions int64   `json:"impressions"`
	EventCount  int     `json:"event_count"`
	MeanRevenue float64 `json:"mean_revenue"`
	CTR         float64 `json:"ctr"`
}
