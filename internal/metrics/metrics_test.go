package metrics

import (
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountersRecord(t *testing.T) {
	t.Parallel()

	_, m := NewRegistry()

	m.RecordRefresh(ResultSuccess)
	m.RecordRefresh(ResultSuccess)
	m.RecordRefresh(ResultFailure)
	m.RecordAccountSwitch(nil)
	m.RecordAccountSwitch(errors.New("boom"))
	m.RecordEmission()
	m.RecordRealtimeEvent("session.update")

	assert.InDelta(t, 2, testutil.ToFloat64(m.TokenRefreshes.WithLabelValues(ResultSuccess)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.TokenRefreshes.WithLabelValues(ResultFailure)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.AccountSwitches.WithLabelValues(ResultSuccess)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.AccountSwitches.WithLabelValues(ResultFailure)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.SnapshotEmissions), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.RealtimeEvents.WithLabelValues("session.update")), 0)
}

func TestNilMetricsIsNoop(t *testing.T) {
	t.Parallel()

	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordRefresh(ResultSuccess)
		m.RecordAccountSwitch(nil)
		m.RecordEmission()
		m.RecordRealtimeEvent("x")
	})
}

func TestRegistryExposesMetricNames(t *testing.T) {
	t.Parallel()

	reg, m := NewRegistry()
	m.RecordEmission()

	expected := `
# HELP entitykit_snapshot_emissions_total Snapshots published to subscribers
# TYPE entitykit_snapshot_emissions_total counter
entitykit_snapshot_emissions_total 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "entitykit_snapshot_emissions_total"))
}
