package privacy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geoveil/internal/geo"
	"geoveil/internal/types"
)

var accra = types.Coordinate{Lat: 5.6037, Lon: -0.1870}

// seqSource replays a fixed sequence of draws, wrapping around.
type seqSource struct {
	values []float64
	i      int
}

func (s *seqSource) Float64() float64 {
	v := s.values[s.i%len(s.values)]
	s.i++
	return v
}

func TestRingSampler_DistanceWithinAnnulus(t *testing.T) {
	sampler := NewRingSampler(CryptoSource{})

	for i := 0; i < 500; i++ {
		point, err := sampler.Sample(accra, 150, 300)
		require.NoError(t, err)

		d := geo.DistanceMeters(accra, point)
		assert.GreaterOrEqual(t, d, 150.0-0.01)
		assert.LessOrEqual(t, d, 300.0+0.01)
	}
}

func TestRingSampler_DeterministicDraws(t *testing.T) {
	// bearing = 0 (north), distance = min + 0.5*(max-min) = 200.
	sampler := NewRingSampler(&seqSource{values: []float64{0, 0.5}})

	point, err := sampler.Sample(accra, 100, 300)
	require.NoError(t, err)

	assert.InDelta(t, 200, geo.DistanceMeters(accra, point), 0.01)
	assert.Greater(t, point.Lat, accra.Lat)
	assert.InDelta(t, accra.Lon, point.Lon, 1e-9)
}

func TestRingSampler_InvalidAnnulus(t *testing.T) {
	sampler := NewRingSampler(CryptoSource{})

	tests := []struct {
		name     string
		min, max float64
	}{
		{name: "zero min", min: 0, max: 100},
		{name: "negative min", min: -10, max: 100},
		{name: "min above max", min: 200, max: 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sampler.Sample(accra, tt.min, tt.max)
			require.Error(t, err)
			assert.True(t, types.HasCode(err, types.ErrCodeInvalidArgument))
		})
	}
}

func TestRingSampler_InvalidOrigin(t *testing.T) {
	sampler := NewRingSampler(CryptoSource{})
	_, err := sampler.Sample(types.Coordinate{Lat: 0, Lon: 181}, 100, 200)
	require.Error(t, err)
	assert.True(t, types.HasCode(err, types.ErrCodeInvalidLongitude))
}

func TestRingSampler_DegenerateAnnulus(t *testing.T) {
	// min == max pins the distance exactly.
	sampler := NewRingSampler(CryptoSource{})
	point, err := sampler.Sample(accra, 250, 250)
	require.NoError(t, err)
	assert.InDelta(t, 250, geo.DistanceMeters(accra, point), 0.01)
}

func TestCryptoSource_Range(t *testing.T) {
	src := CryptoSource{}
	for i := 0; i < 1000; i++ {
		v := src.Float64()
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}
