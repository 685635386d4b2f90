package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Telemetry tracks pipeline and oracle activity. A nil *Telemetry is a
// valid no-op receiver so tests can pass nil freely.
type Telemetry struct {
	runsTotal         *prometheus.CounterVec
	stageDuration     *prometheus.HistogramVec
	oracleCalls       *prometheus.CounterVec
	followupsTotal    *prometheus.CounterVec
	transportFailures prometheus.Counter
}

// NewTelemetry registers all collectors against the given registerer.
func NewTelemetry(reg prometheus.Registerer) *Telemetry {
	factory := promauto.With(reg)
	return &Telemetry{
		runsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "veritas_runs_total",
			Help: "Pipeline runs by terminal state.",
		}, []string{"state"}),
		stageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "veritas_stage_duration_seconds",
			Help:    "Wall time per pipeline stage.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
		}, []string{"stage", "outcome"}),
		oracleCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "veritas_oracle_calls_total",
			Help: "External oracle calls by kind and outcome.",
		}, []string{"oracle", "outcome"}),
		followupsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "veritas_followups_total",
			Help: "Follow-up requests by outcome.",
		}, []string{"outcome"}),
		transportFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "veritas_transport_failures_total",
			Help: "Event deliveries that failed at the transport.",
		}),
	}
}

func (t *Telemetry) RecordRun(state string) {
	if t == nil {
		return
	}
	t.runsTotal.WithLabelValues(state).Inc()
}

func (t *Telemetry) ObserveStage(stage string, d time.Duration, success bool) {
	if t == nil {
		return
	}
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	t.stageDuration.WithLabelValues(stage, outcome).Observe(d.Seconds())
}

func (t *Telemetry) RecordOracleCall(oracle string, err error) {
	if t == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	t.oracleCalls.WithLabelValues(oracle, outcome).Inc()
}

func (t *Telemetry) RecordFollowup(outcome string) {
	if t == nil {
		return
	}
	t.followupsTotal.WithLabelValues(outcome).Inc()
}

func (t *Telemetry) RecordTransportFailure() {
	if t == nil {
		return
	}
	t.transportFailures.Inc()
}
