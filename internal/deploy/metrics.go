package deploy

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	apiCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "modeldeploy",
			Name:      "api_calls_total",
			Help:      "Total number of SageMaker control-plane calls",
		},
		[]string{"operation", "outcome"},
	)

	apiCallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "modeldeploy",
			Name:      "api_call_duration_seconds",
			Help:      "Duration of SageMaker control-plane calls in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	entriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "modeldeploy",
			Name:      "entries_total",
			Help:      "Model entries processed, by outcome",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(apiCallsTotal, apiCallDuration, entriesTotal)
}

// outcomeLabel keeps the outcome label to a small fixed set.
func outcomeLabel(err error) string {
	if err == nil {
		return "success"
	}
	return string(Classify(err))
}

// WriteMetrics writes the default registry to path in the Prometheus text
// format, for pickup by a node exporter textfile collector.
func WriteMetrics(path string) error {
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
