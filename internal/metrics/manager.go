package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Detection outcomes
const (
	OutcomeRecords   = "records"    // at least one record created
	OutcomeNoRecords = "no_records" // nothing beaten
	OutcomeSkipped   = "skipped"    // identical performance already processed
	OutcomeError     = "error"
)

type Manager struct {
	// counters
	CounterRequests          *prometheus.CounterVec
	CounterDetectionRuns     *prometheus.CounterVec
	CounterRecordsCreated    *prometheus.CounterVec
	CounterRecordConflicts   prometheus.Counter
	CounterStrategyFallbacks *prometheus.CounterVec

	// histograms
	HistRequestDuration   *prometheus.HistogramVec
	HistDetectionDuration prometheus.Histogram
}

func NewTestManager() *Manager {
	return NewManager("liftlog", "test", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("liftlog", "test", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	return &Manager{
		CounterRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "request",
			Help:      "The total number of incoming requests",
		}, []string{"method", "route", "status"}),
		CounterDetectionRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "pr_detection_runs",
			Help:      "PR detection runs by trigger and outcome",
		}, []string{"trigger", "outcome"}),
		CounterRecordsCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "personal_records_created",
			Help:      "Personal records created by pr type",
		}, []string{"pr_type"}),
		CounterRecordConflicts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "personal_record_conflicts",
			Help:      "Record head swaps lost to a concurrent writer",
		}),
		CounterStrategyFallbacks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "strategy_fallbacks",
			Help:      "Exercises resolved to the regular strategy because their type is unknown",
		}, []string{"exercise_type"}),
		HistRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "request_duration_seconds",
			Help:      "Total duration of requests in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"method", "route"}),
		HistDetectionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "pr_detection_duration_seconds",
			Help:      "Duration of a PR detection run including lock wait",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 5},
		}),
	}
}
