package performance

import (
	"context"
	"fmt"
	"sync"

	"appMatch/domain"
	"appMatch/pkg/logger"
)

// EventSource yields the raw historical performance rows, one per
// recorded event. CSV and Postgres implementations live under
// internal/repository.
type EventSource interface {
	LoadPerformanceEvents(ctx context.Context) ([]domain.PerformanceEvent, error)
}

// Cache aggregates per-event rows into per-app stats exactly once
// and serves the result to every request thereafter. A failed load
// is not memoized so a later caller can retry.
type Cache struct {
	source EventSource

	mu    sync.Mutex
	stats map[string]domain.PerfStats
}

func NewCache(source EventSource) *Cache {
	return &Cache{source: source}
}

// Stats returns the aggregated per-app performance, loading on first
// use. Concurrent first access performs a single load.
func (c *Cache) Stats(ctx context.Context) (map[string]domain.PerfStats, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stats != nil {
		return c.stats, nil
	}

	events, err := c.source.LoadPerformanceEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("load historical performance: %w", err)
	}

	c.stats = Aggregate(events)
	logger.Info("historical performance loaded", "events", len(events), "apps", len(c.stats))

	return c.stats, nil
}

// Aggregate groups events by app_id: clicks and impressions are
// summed, revenue is averaged, and CTR uses +1 smoothing on
// impressions.
func Aggregate(events []domain.PerformanceEvent) map[string]domain.PerfStats {
	sums := make(map[string]*domain.PerfStats)
	revenue := make(map[string]float64)

	for _, ev := range events {
		st, ok := sums[ev.AppID]
		if !ok {
			st = &domain.PerfStats{}
			sums[ev.AppID] = st
		}
		st.Clicks += ev.Clicks
		st.Impressions += ev.Impressions
		st.EventCount++
		revenue[ev.AppID] += ev.Revenue
	}

	out := make(map[string]domain.PerfStats, len(sums))
	for appID, st := range sums {
		st.MeanRevenue = revenue[appID] / float64(st.EventCount)
		st.CTR = float64(st.Clicks) / float64(st.Impressions+1)
		out[appID] = *st
	}
	return out
}
