// Package metrics owns the Prometheus collectors for the engine and the
// HTTP surface.
package metrics

import (
	"github.com/Worcesters/basicfit/internal/progression"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager holds every collector the server and the engine report to.
type Manager struct {
	// counters
	CounterRequests           *prometheus.CounterVec
	CounterRecommendations    *prometheus.CounterVec
	CounterRecords            *prometheus.CounterVec
	CounterSessions           prometheus.Counter
	CounterImportedSessions   prometheus.Counter
	CounterHandleRequestPanic prometheus.Counter

	// gauges
	GaugeRequests prometheus.Gauge

	// histograms
	HistRequestDuration prometheus.Histogram
}

// NewTestManager returns a Manager backed by a throwaway registry.
func NewTestManager() *Manager {
	return NewManager("basicfit", "test_server", prometheus.NewRegistry())
}

// NewTestManagerAndRegistry is NewTestManager that also hands back the
// registry, for tests that scrape it.
func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("basicfit", "test_server", reg), reg
}

// NewManager creates the collectors and registers them with reg.
func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	counterRequests := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request",
		Help:      "The total number of incoming requests",
	}, []string{"method", "status"})
	counterRecommendations := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "recommendations",
		Help:      "Weight recommendations served, by strategy",
	}, []string{"strategy"})
	counterRecords := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "personal_records",
		Help:      "Personal records detected in recorded sessions, by kind",
	}, []string{"kind"})
	counterSessions := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "sessions_recorded",
		Help:      "The total number of summarised and stored sessions",
	})
	counterImported := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "sessions_imported",
		Help:      "Sessions imported from Alpha Progression exports",
	})
	counterHandleRequestPanic := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "handle_request_panic",
		Help:      "The total number of serve request panics",
	})

	gaugeRequests := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "current_requests",
		Help:      "Current number of requests served",
	})

	histReqDuration := factory.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Buckets: []float64{
				0.0001, 0.0005, 0.001, 0.0025, 0.005,
				0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 5, 10,
			},
			Name: "request_duration_seconds",
			Help: "Total duration of requests in seconds",
		},
	)

	return &Manager{
		CounterRequests:           counterRequests,
		CounterRecommendations:    counterRecommendations,
		CounterRecords:            counterRecords,
		CounterSessions:           counterSessions,
		CounterImportedSessions:   counterImported,
		CounterHandleRequestPanic: counterHandleRequestPanic,
		GaugeRequests:             gaugeRequests,
		HistRequestDuration:       histReqDuration,
	}
}

// ObserveRecommendation counts one recommendation made with strategy.
func (m *Manager) ObserveRecommendation(strategy string) {
	m.CounterRecommendations.WithLabelValues(strategy).Inc()
}

// ObserveSession counts a stored session and the records it set.
func (m *Manager) ObserveSession(records []progression.RecordEvent) {
	m.CounterSessions.Inc()
	for _, r := range records {
		m.CounterRecords.WithLabelValues(string(r.Kind)).Inc()
	}
}

// ObserveImport counts sessions stored by an import.
func (m *Manager) ObserveImport(sessions int) {
	m.CounterImportedSessions.Add(float64(sessions))
}
