package session

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	sessionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chatctl",
			Subsystem: "session",
			Name:      "sessions_total",
			Help:      "Total generation sessions by outcome",
		},
		[]string{"outcome"},
	)

	tokensTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "chatctl",
			Subsystem: "session",
			Name:      "tokens_generated_total",
			Help:      "Total tokens produced across sessions",
		},
	)

	tokensPerSecond = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "chatctl",
			Subsystem: "session",
			Name:      "tokens_per_second",
			Help:      "Throughput of the most recent session",
		},
	)

	modelLoadSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "chatctl",
			Subsystem: "session",
			Name:      "model_load_seconds",
			Help:      "Duration of model acquisitions in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)
)

func init() {
	prometheus.MustRegister(sessionsTotal, tokensTotal, tokensPerSecond, modelLoadSeconds)
}

// tokensPerSec derives session throughput from the produced-token count.
func tokensPerSec(count int, elapsed time.Duration) float64 {
	secs := elapsed.Seconds()
	if secs <= 0 {
		return 0
	}
	return float64(count) / secs
}
