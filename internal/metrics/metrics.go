package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/davidahmann/campusguard/internal/coordinator"
)

// Metrics holds the decision collectors for one registry.
type Metrics struct {
	decisions       *prometheus.CounterVec
	riskScore       prometheus.Histogram
	unrouted        *prometheus.CounterVec
	configReloads   *prometheus.CounterVec
	requestFailures *prometheus.CounterVec
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		decisions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "campusguard_decisions_total",
			Help: "Decisions by incident type and risk level",
		}, []string{"incident_type", "risk_level"}),

		riskScore: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "campusguard_risk_score",
			Help:    "Risk score per decision",
			Buckets: []float64{1, 2, 3, 4, 5, 6, 7, 8, 9},
		}),

		// Incidents with no policy key reach no authority.
		unrouted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "campusguard_unrouted_decisions_total",
			Help: "Decisions with an empty escalation chain, by risk level",
		}, []string{"risk_level"}),

		configReloads: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "campusguard_config_reloads_total",
			Help: "Campus config reload attempts by result",
		}, []string{"result"}),

		requestFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "campusguard_request_failures_total",
			Help: "Rejected or failed report requests by reason",
		}, []string{"reason"}),
	}
}

// ObserveDecision implements coordinator.Recorder.
func (m *Metrics) ObserveDecision(result coordinator.Result) {
	level := string(result.Audit.RiskLevel)
	m.decisions.WithLabelValues(string(result.Incident.IncidentType), level).Inc()
	m.riskScore.Observe(float64(result.Risk.Score))
	if len(result.Audit.EscalationChain) == 0 {
		m.unrouted.WithLabelValues(level).Inc()
	}
}

func (m *Metrics) ObserveReload(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.configReloads.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveRequestFailure(reason string) {
	m.requestFailures.WithLabelValues(reason).Inc()
}
