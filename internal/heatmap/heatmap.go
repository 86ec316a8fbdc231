// Package heatmap implements the aggregation pipeline: spatial binning of
// public coordinates, calibrated count noise, and k-anonymity suppression.
//
// The pipeline is stateless and recomputed from scratch on every call. Two
// calls over the same records may legitimately return different noised
// counts; the mechanism is randomized by design.
//
// The noise formula is a count-conditioned Laplace-style draw without a
// rigorous per-contributor sensitivity analysis. Treat epsilon and kMin as a
// heuristic anonymity control, not a provable differential-privacy
// guarantee.
package heatmap

import (
	"math"
	"sort"
	"time"

	"geoveil/internal/metrics"
	"geoveil/internal/types"
)

// DefaultCellSizeDegrees is the default grid resolution, roughly 1.1 km of
// latitude per cell.
const DefaultCellSizeDegrees = 0.01

// Builder aggregates record sets into suppressed heatmaps.
type Builder struct {
	rand     types.RandSource
	cellSize float64
	metrics  metrics.Recorder
}

// NewBuilder returns a Builder with the given randomness source and cell
// size in degrees. A non-positive cell size falls back to the default.
func NewBuilder(src types.RandSource, cellSizeDegrees float64, rec metrics.Recorder) *Builder {
	if cellSizeDegrees <= 0 {
		cellSizeDegrees = DefaultCellSizeDegrees
	}
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &Builder{rand: src, cellSize: cellSizeDegrees, metrics: rec}
}

type cellKey struct {
	lat float64
	lon float64
}

// Build bins the records' PUBLIC locations into grid cells, noises each
// populated cell's count, and drops every cell whose noised count falls
// below cfg.DPKMin. Dropped cells are absent from the result, not flagged.
func (b *Builder) Build(records []*types.ObservationRecord, cfg types.PrivacyConfig) ([]types.GridCell, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()

	counts := make(map[cellKey]int)
	for _, rec := range records {
		if rec == nil {
			continue
		}
		// Binning uses the public location only. The exact location must
		// never influence an aggregate view.
		key := cellKey{
			lat: snap(rec.PublicLocation.Lat, b.cellSize),
			lon: snap(rec.PublicLocation.Lon, b.cellSize),
		}
		counts[key]++
	}

	cells := make([]types.GridCell, 0, len(counts))
	suppressed := 0
	for key, raw := range counts {
		noised := noisedCount(raw, cfg.DPEpsilon, b.rand)
		if noised < cfg.DPKMin {
			suppressed++
			continue
		}
		cells = append(cells, types.GridCell{
			CellLat:     key.lat,
			CellLon:     key.lon,
			RawCount:    raw,
			NoisedCount: noised,
			Included:    true,
		})
	}

	// Map iteration order is random; sort for stable output.
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].CellLat != cells[j].CellLat {
			return cells[i].CellLat < cells[j].CellLat
		}
		return cells[i].CellLon < cells[j].CellLon
	})

	b.metrics.HeatmapBuilt(len(cells), suppressed, time.Since(start))
	return cells, nil
}

// snap discretizes a coordinate component onto the grid.
func snap(v, cellSize float64) float64 {
	return math.Round(v/cellSize) * cellSize
}
