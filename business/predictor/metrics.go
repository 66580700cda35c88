package predictor

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	fallbacksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "prediction_fallbacks_total",
			Help: "Predictions served by the similarity-only heuristic because no top neighbor had usable history.",
		},
	)
)

func init() {
	prometheus.MustRegister(fallbacksTotal)
}
