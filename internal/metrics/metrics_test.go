package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geoveil/internal/types"
)

func TestPrometheusRecorder_RegistersAndCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := NewPrometheusRecorder(reg)

	rec.ObservationCreated(false)
	rec.ObservationCreated(true)
	rec.ObservationCreated(true)
	rec.TransitionAccepted(types.StatusReceived)
	rec.TransitionAccepted(types.StatusResolved)
	rec.TransitionRejected(types.ErrCodeTerminalState)
	rec.HeatmapBuilt(4, 2, 150*time.Millisecond)

	assert.InDelta(t, 1, testutil.ToFloat64(rec.created.WithLabelValues("false")), 1e-9)
	assert.InDelta(t, 2, testutil.ToFloat64(rec.created.WithLabelValues("true")), 1e-9)
	assert.InDelta(t, 1, testutil.ToFloat64(rec.accepted.WithLabelValues("received")), 1e-9)
	assert.InDelta(t, 1, testutil.ToFloat64(rec.accepted.WithLabelValues("resolved")), 1e-9)
	assert.InDelta(t, 1, testutil.ToFloat64(rec.rejected.WithLabelValues("lifecycle_terminal_state")), 1e-9)
	assert.InDelta(t, 4, testutil.ToFloat64(rec.cells), 1e-9)
	assert.InDelta(t, 2, testutil.ToFloat64(rec.suppressed), 1e-9)

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make(map[string]bool, len(families))
	for _, mf := range families {
		names[mf.GetName()] = true
	}
	assert.True(t, names["geoveil_observations_created_total"])
	assert.True(t, names["geoveil_transitions_accepted_total"])
	assert.True(t, names["geoveil_transitions_rejected_total"])
	assert.True(t, names["geoveil_heatmap_cells_suppressed_total"])
	assert.True(t, names["geoveil_heatmap_cells_emitted_total"])
	assert.True(t, names["geoveil_heatmap_build_seconds"])
}

func TestPrometheusRecorder_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewPrometheusRecorder(reg)
	assert.Panics(t, func() { NewPrometheusRecorder(reg) })
}

func TestNop_AcceptsEverything(t *testing.T) {
	var rec Recorder = Nop{}
	rec.ObservationCreated(true)
	rec.TransitionAccepted(types.StatusReceived)
	rec.TransitionRejected(types.ErrCodeIllegalTransition)
	rec.HeatmapBuilt(0, 0, 0)
}
