package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geoveil/internal/config"
	"geoveil/internal/metrics"
	"geoveil/internal/types"
)

func TestWriteMetrics_TextExposition(t *testing.T) {
	registry := prometheus.NewRegistry()
	recorder := metrics.NewPrometheusRecorder(registry)

	recorder.ObservationCreated(false)
	recorder.TransitionAccepted(types.StatusReceived)
	recorder.HeatmapBuilt(3, 1, 50*time.Millisecond)

	var buf bytes.Buffer
	require.NoError(t, writeMetrics(&buf, registry))

	out := buf.String()
	assert.Contains(t, out, "geoveil_observations_created_total")
	assert.Contains(t, out, `geoveil_transitions_accepted_total{status="received"} 1`)
	assert.Contains(t, out, "geoveil_heatmap_cells_emitted_total 3")
	assert.Contains(t, out, "geoveil_heatmap_cells_suppressed_total 1")
}

func TestWriteMetrics_EmptyRegistry(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeMetrics(&buf, prometheus.NewRegistry()))
	assert.Empty(t, buf.String())
}

func TestOpenStore_Memory(t *testing.T) {
	cfg := &config.Config{
		Store: config.StoreSettings{Backend: string(types.BackendMemory)},
	}

	repo, cleanup, err := openStore(context.Background(), cfg)
	require.NoError(t, err)
	defer cleanup()

	records, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestOpenStore_UnknownBackend(t *testing.T) {
	cfg := &config.Config{Store: config.StoreSettings{Backend: "cassandra"}}

	_, _, err := openStore(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cassandra")
}
