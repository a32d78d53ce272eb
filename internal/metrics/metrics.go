// Package metrics exposes Prometheus collectors for MatchSignals.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	predictions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "matchsignals_predictions_total",
		Help: "Predictions produced, by source.",
	}, []string{"source"})

	predictionDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "matchsignals_prediction_duration_seconds",
		Help:    "Time spent building one prediction.",
		Buckets: prometheus.ExponentialBuckets(0.25, 2, 8),
	})

	upstreamRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "matchsignals_upstream_requests_total",
		Help: "Calls to external providers, by provider and outcome.",
	}, []string{"provider", "outcome"})
)

func init() {
	prometheus.MustRegister(predictions, predictionDuration, upstreamRequests)
}

// ObservePrediction records one finished prediction.
func ObservePrediction(source string, elapsed time.Duration) {
	predictions.WithLabelValues(source).Inc()
	predictionDuration.Observe(elapsed.Seconds())
}

// ObserveUpstream records one call to provider. A nil err counts as ok.
func ObserveUpstream(provider string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	upstreamRequests.WithLabelValues(provider, outcome).Inc()
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
