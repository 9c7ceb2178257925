// Package metrics holds the Prometheus collectors for session lifecycle and
// report activity. A nil *Metrics is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/constants"
)

type Metrics struct {
	SessionsStarted   prometheus.Counter
	SessionsStopped   prometheus.Counter
	SessionDuration   prometheus.Histogram
	Recoveries        *prometheus.CounterVec
	StaleDiscarded    *prometheus.CounterVec
	PersistenceErrors *prometheus.CounterVec
	BudgetRejections  prometheus.Counter
	ReportDuration    prometheus.Histogram
	HTTPRequests      *prometheus.CounterVec
}

// New creates the collectors and registers them with reg when reg is non-nil.
func New(reg prometheus.Registerer) *Metrics {
	ns := constants.AppName
	m := &Metrics{
		SessionsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "sessions_started_total",
			Help:      "Activity sessions opened.",
		}),
		SessionsStopped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "sessions_stopped_total",
			Help:      "Activity sessions closed.",
		}),
		SessionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "session_duration_seconds",
			Help:      "Duration of closed activity sessions.",
			Buckets:   []float64{60, 300, 900, 1800, 3600, 7200, 14400, 28800},
		}),
		Recoveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "recoveries_total",
			Help:      "Open-session recovery attempts by outcome.",
		}, []string{"result"}),
		StaleDiscarded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "stale_results_discarded_total",
			Help:      "Lifecycle results dropped because the viewed date changed while in flight.",
		}, []string{"op"}),
		PersistenceErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "persistence_errors_total",
			Help:      "Store failures by lifecycle operation.",
		}, []string{"op"}),
		BudgetRejections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "budget_rejections_total",
			Help:      "Plan writes rejected for exceeding the 24h budget.",
		}),
		ReportDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "report_build_seconds",
			Help:      "Time spent building reports.",
			Buckets:   prometheus.DefBuckets,
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "http_requests_total",
			Help:      "API requests by route and status code.",
		}, []string{"route", "code"}),
	}

	if reg != nil {
		reg.MustRegister(
			m.SessionsStarted,
			m.SessionsStopped,
			m.SessionDuration,
			m.Recoveries,
			m.StaleDiscarded,
			m.PersistenceErrors,
			m.BudgetRejections,
			m.ReportDuration,
			m.HTTPRequests,
		)
	}
	return m
}

func (m *Metrics) SessionStarted() {
	if m != nil {
		m.SessionsStarted.Inc()
	}
}

func (m *Metrics) SessionStopped(durationSeconds int64) {
	if m != nil {
		m.SessionsStopped.Inc()
		m.SessionDuration.Observe(float64(durationSeconds))
	}
}

// Recovered records a recovery outcome: adopted, none or skipped.
func (m *Metrics) Recovered(result string) {
	if m != nil {
		m.Recoveries.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) Discarded(op string) {
	if m != nil {
		m.StaleDiscarded.WithLabelValues(op).Inc()
	}
}

func (m *Metrics) PersistenceFailed(op string) {
	if m != nil {
		m.PersistenceErrors.WithLabelValues(op).Inc()
	}
}

func (m *Metrics) BudgetRejected() {
	if m != nil {
		m.BudgetRejections.Inc()
	}
}

// ObserveReport records the time since start.
func (m *Metrics) ObserveReport(start time.Time) {
	if m != nil {
		m.ReportDuration.Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) Request(route, code string) {
	if m != nil {
		m.HTTPRequests.WithLabelValues(route, code).Inc()
	}
}
