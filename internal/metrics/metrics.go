package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ResultSuccess = "success"
	ResultFailure = "failure"
	ResultShared  = "shared"
)

// Metrics holds the session and account counters. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	TokenRefreshes    *prometheus.CounterVec
	AccountSwitches   *prometheus.CounterVec
	SnapshotEmissions prometheus.Counter
	RealtimeEvents    *prometheus.CounterVec
}

// New creates the counters and registers them on registry.
func New(registry prometheus.Registerer) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		TokenRefreshes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "entitykit_token_refresh_total",
				Help: "Token refresh attempts by result",
			},
			[]string{"result"},
		),
		AccountSwitches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "entitykit_account_switch_total",
				Help: "Account switches by result",
			},
			[]string{"result"},
		),
		SnapshotEmissions: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "entitykit_snapshot_emissions_total",
				Help: "Snapshots published to subscribers",
			},
		),
		RealtimeEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "entitykit_realtime_events_total",
				Help: "Realtime events handled by kind",
			},
			[]string{"kind"},
		),
	}
}

// NewRegistry returns a fresh registry with the counters registered on it.
func NewRegistry() (*prometheus.Registry, *Metrics) {
	reg := prometheus.NewRegistry()
	return reg, New(reg)
}

func (m *Metrics) RecordRefresh(result string) {
	if m == nil {
		return
	}
	m.TokenRefreshes.WithLabelValues(result).Inc()
}

func (m *Metrics) RecordAccountSwitch(err error) {
	if m == nil {
		return
	}
	m.AccountSwitches.WithLabelValues(resultFor(err)).Inc()
}

func (m *Metrics) RecordEmission() {
	if m == nil {
		return
	}
	m.SnapshotEmissions.Inc()
}

func (m *Metrics) RecordRealtimeEvent(kind string) {
	if m == nil {
		return
	}
	m.RealtimeEvents.WithLabelValues(kind).Inc()
}

func resultFor(err error) string {
	if err != nil {
		return ResultFailure
	}
	return ResultSuccess
}
