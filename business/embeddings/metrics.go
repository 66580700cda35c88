package embeddings

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	droppedRecordsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "embedding_records_dropped_total",
			Help: "Count of embedding records dropped at load time because their shape could not be normalized.",
		},
		[]string{"arm"},
	)
)

func init() {
	prometheus.MustRegister(droppedRecordsTotal)
}
