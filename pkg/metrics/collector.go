package metrics

import (
	"sync"
	"time"
)

// Collector keeps an in-memory summary of request activity for the
// JSON metrics endpoint. It complements the prometheus collectors;
// it is constructed once by the composition root and injected, never
// reached through package state.
type Collector struct {
	mu        sync.Mutex
	startTime time.Time

	requestCount      int64
	requestByEndpoint map[string]int64
	requestByStatus   map[int]int64

	latencyByEndpoint map[string]*latencyStats

	abAssignments           map[string]int64
	abAssignmentsByEndpoint map[string]map[string]int64

	errorCount  int64
	errorByType map[string]int64
}

type latencyStats struct {
	count   int64
	totalMS float64
	minMS   float64
	maxMS   float64
}

func NewCollector() *Collector {
	return &Collector{
		startTime:               time.Now(),
		requestByEndpoint:       make(map[string]int64),
		requestByStatus:         make(map[int]int64),
		latencyByEndpoint:       make(map[string]*latencyStats),
		abAssignments:           make(map[string]int64),
		abAssignmentsByEndpoint: make(map[string]map[string]int64),
		errorByType:             make(map[string]int64),
	}
}

func (c *Collector) RecordRequest(endpoint string, status int, latencyMS float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.requestCount++
	c.requestByEndpoint[endpoint]++
	c.requestByStatus[status]++

	stats, ok := c.latencyByEndpoint[endpoint]
	if !ok {
		stats = &latencyStats{minMS: latencyMS}
		c.latencyByEndpoint[endpoint] = stats
	}
	stats.count++
	stats.totalMS += latencyMS
	if latencyMS < stats.minMS {
		stats.minMS = latencyMS
	}
	if latencyMS > stats.maxMS {
		stats.maxMS = latencyMS
	}

	if status >= 400 {
		c.errorCount++
	}
}

func (c *Collector) RecordABAssignment(endpoint, arm string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.abAssignments[arm]++
	byArm, ok := c.abAssignmentsByEndpoint[endpoint]
	if !ok {
		byArm = make(map[string]int64)
		c.abAssignmentsByEndpoint[endpoint] = byArm
	}
	byArm[arm]++
}

func (c *Collector) RecordError(errorType string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.errorCount++
	c.errorByType[errorType]++
}

type LatencySummary struct {
	Count int64   `json:"count"`
	AvgMS float64 `json:"avg_ms"`
	MinMS float64 `json:"min_ms"`
	MaxMS float64 `json:"max_ms"`
}

type ABSummary struct {
	TotalAssignments int64                       `json:"total_assignments"`
	ByArm            map[string]int64            `json:"by_arm"`
	ByEndpoint       map[string]map[string]int64 `json:"by_endpoint"`
}

type Summary struct {
	UptimeSeconds float64                   `json:"uptime_seconds"`
	RequestsTotal int64                     `json:"requests_total"`
	ByEndpoint    map[string]int64          `json:"requests_by_endpoint"`
	ByStatus      map[int]int64             `json:"requests_by_status"`
	Latencies     map[string]LatencySummary `json:"latencies"`
	ABTests       ABSummary                 `json:"ab_tests"`
	ErrorsTotal   int64                     `json:"errors_total"`
	ErrorsByType  map[string]int64          `json:"errors_by_type"`
}

func (c *Collector) GetSummary() Summary {
	c.mu.Lock()
	defer c.mu.Unlock()

	latencies := make(map[string]LatencySummary, len(c.latencyByEndpoint))
	for endpoint, stats := range c.latencyByEndpoint {
		avg := 0.0
		if stats.count > 0 {
			avg = stats.totalMS / float64(stats.count)
		}
		latencies[endpoint] = LatencySummary{
			Count: stats.count,
			AvgMS: avg,
			MinMS: stats.minMS,
			MaxMS: stats.maxMS,
		}
	}

	var totalAssignments int64
	byArm := make(map[string]int64, len(c.abAssignments))
	for arm, n := range c.abAssignments {
		byArm[arm] = n
		totalAssignments += n
	}
	byEndpoint := make(map[string]map[string]int64, len(c.abAssignmentsByEndpoint))
	for endpoint, arms := range c.abAssignmentsByEndpoint {
		cp := make(map[string]int64, len(arms))
		for arm, n := range arms {
			cp[arm] = n
		}
		byEndpoint[endpoint] = cp
	}

	requests := make(map[string]int64, len(c.requestByEndpoint))
	for k, v := range c.requestByEndpoint {
		requests[k] = v
	}
	statuses := make(map[int]int64, len(c.requestByStatus))
	for k, v := range c.requestByStatus {
		statuses[k] = v
	}
	errs := make(map[string]int64, len(c.errorByType))
	for k, v := range c.errorByType {
		errs[k] = v
	}

	return Summary{
		UptimeSeconds: time.Since(c.startTime).Seconds(),
		RequestsTotal: c.requestCount,
		ByEndpoint:    requests,
		ByStatus:      statuses,
		Latencies:     latencies,
		ABTests: ABSummary{
			TotalAssignments: totalAssignments,
			ByArm:            byArm,
			ByEndpoint:       byEndpoint,
		},
		ErrorsTotal:  c.errorCount,
		ErrorsByType: errs,
	}
}
