package privacy

import (
	"geoveil/internal/types"
)

// Policy decides the effective blur radius for an observation and derives
// its public coordinate. DerivePublicLocation is invoked exactly once per
// observation, at creation time; the result is stored on the record and
// never recomputed.
type Policy struct {
	sampler *RingSampler
}

// NewPolicy returns a Policy using the given ring sampler.
func NewPolicy(sampler *RingSampler) *Policy {
	return &Policy{sampler: sampler}
}

// ResolveBlurRadius clamps the requested radius to [0, MaxBlurRadiusMeters]
// and, in sensitive mode, raises it to at least SensitiveBlurFloorMeters.
// Clamping here is deliberate policy, not silent error swallowing: the form
// collaborator offers a free slider and the engine owns the bounds.
func (p *Policy) ResolveBlurRadius(requested int, sensitiveMode bool) int {
	r := requested
	if r < 0 {
		r = 0
	}
	if r > types.MaxBlurRadiusMeters {
		r = types.MaxBlurRadiusMeters
	}
	if sensitiveMode && r < types.SensitiveBlurFloorMeters {
		r = types.SensitiveBlurFloorMeters
	}
	return r
}

// DerivePublicLocation returns the publicly-safe coordinate for exact under
// the given blur radius. A zero radius means no obfuscation and returns
// exact unchanged; otherwise the public point is drawn from the annulus
// [max(1, r/2), r] around exact.
func (p *Policy) DerivePublicLocation(exact types.Coordinate, blurRadiusMeters int) (types.Coordinate, error) {
	if err := exact.Validate(); err != nil {
		return types.Coordinate{}, err
	}
	if blurRadiusMeters == 0 {
		return exact, nil
	}

	minRadius := float64(blurRadiusMeters) * 0.5
	if minRadius < types.MinObfuscatedOffsetMeters {
		minRadius = types.MinObfuscatedOffsetMeters
	}
	return p.sampler.Sample(exact, minRadius, float64(blurRadiusMeters))
}
