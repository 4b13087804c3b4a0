package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Processor call outcomes
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

var (
	// Registry holds every collector exported on /metrics
	Registry = prometheus.NewRegistry()

	factory = promauto.With(Registry)

	ProcessorCalls = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "monthly_club",
		Name:      "processor_calls_total",
		Help:      "Payment processor API calls by operation and outcome.",
	}, []string{"operation", "outcome"})

	ProcessorCallDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "monthly_club",
		Name:      "processor_call_duration_seconds",
		Help:      "Latency of payment processor API calls.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation"})

	PersistenceInconsistencies = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "monthly_club",
		Name:      "provider_persistence_inconsistencies_total",
		Help:      "Processor objects created remotely whose id could not be persisted.",
	}, []string{"entity"})

	OrphanedObjects = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "monthly_club",
		Name:      "orphaned_processor_objects_total",
		Help:      "Processor objects recorded for cleanup.",
	}, []string{"kind"})

	OrphansSwept = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "monthly_club",
		Name:      "orphan_sweep_results_total",
		Help:      "Orphan cleanup attempts by kind and outcome.",
	}, []string{"kind", "outcome"})

	HTTPRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "monthly_club",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route and status.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// ObserveProcessorCall records the outcome and latency of one processor call
func ObserveProcessorCall(operation string, started time.Time, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	ProcessorCalls.WithLabelValues(operation, outcome).Inc()
	ProcessorCallDuration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
}

// Handler serves the registry in the Prometheus text format
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}
