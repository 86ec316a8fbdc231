// Package privacy implements the coordinate obfuscation mechanism: the
// annulus ("ring") sampler that draws a public point around an exact one,
// and the policy that decides the blur radius.
package privacy

import (
	"fmt"
	"math"

	"geoveil/internal/geo"
	"geoveil/internal/types"
)

// RingSampler draws a candidate public point at a random bearing and a
// random distance inside an annulus around an exact point.
type RingSampler struct {
	rand types.RandSource
}

// NewRingSampler returns a sampler backed by the given randomness source.
func NewRingSampler(src types.RandSource) *RingSampler {
	return &RingSampler{rand: src}
}

// Sample returns a point whose geodesic distance from origin lies in
// [minRadiusMeters, maxRadiusMeters].
//
// The draw is uniform in bearing and uniform in linear distance, NOT uniform
// in area: points are denser near the inner radius than a true area-uniform
// annulus sample would produce. Callers depend on the distance-bound
// contract, not on the area distribution, so this distribution is kept as is.
func (s *RingSampler) Sample(origin types.Coordinate, minRadiusMeters, maxRadiusMeters float64) (types.Coordinate, error) {
	if err := origin.Validate(); err != nil {
		return types.Coordinate{}, err
	}
	if minRadiusMeters <= 0 || minRadiusMeters > maxRadiusMeters {
		return types.Coordinate{}, types.NewAppError(types.ErrCodeInvalidArgument,
			fmt.Sprintf("annulus [%.2f, %.2f] requires 0 < min <= max", minRadiusMeters, maxRadiusMeters), nil)
	}

	bearing := s.rand.Float64() * 2 * math.Pi
	distance := minRadiusMeters + s.rand.Float64()*(maxRadiusMeters-minRadiusMeters)
	return geo.Destination(origin, bearing, distance)
}
