package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mcoot/rpsduel/internal/model"
)

const namespace = "rpsduel"

// Metrics holds the game collectors. A nil *Metrics records nothing.
type Metrics struct {
	MatchesStarted  *prometheus.CounterVec
	RoundsResolved  *prometheus.CounterVec
	FallbackActions prometheus.Counter
	QueueSize       prometheus.Gauge
	ActiveMatches   prometheus.Gauge
}

// New creates the collectors and registers them with reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		MatchesStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matches_started_total",
			Help:      "Match sessions started, by kind.",
		}, []string{"kind"}),
		RoundsResolved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rounds_resolved_total",
			Help:      "Rounds resolved, by outcome (tie or decisive).",
		}, []string{"outcome"}),
		FallbackActions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallback_actions_total",
			Help:      "Actions assigned at random because a player did not pick in time.",
		}),
		QueueSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "matchmaking_queue_size",
			Help:      "Players waiting for an opponent.",
		}),
		ActiveMatches: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_matches",
			Help:      "Match sessions currently running.",
		}),
	}

	reg.MustRegister(m.MatchesStarted, m.RoundsResolved, m.FallbackActions, m.QueueSize, m.ActiveMatches)
	return m
}

func (m *Metrics) MatchStarted(kind model.MatchKind) {
	if m == nil {
		return
	}
	m.MatchesStarted.WithLabelValues(string(kind)).Inc()
	m.ActiveMatches.Inc()
}

func (m *Metrics) MatchEnded() {
	if m == nil {
		return
	}
	m.ActiveMatches.Dec()
}

func (m *Metrics) RoundResolved(tie bool) {
	if m == nil {
		return
	}
	outcome := "decisive"
	if tie {
		outcome = "tie"
	}
	m.RoundsResolved.WithLabelValues(outcome).Inc()
}

func (m *Metrics) FallbackAction() {
	if m == nil {
		return
	}
	m.FallbackActions.Inc()
}

func (m *Metrics) SetQueueSize(n int) {
	if m == nil {
		return
	}
	m.QueueSize.Set(float64(n))
}
