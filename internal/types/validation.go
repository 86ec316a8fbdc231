package types

import "fmt"

// Validation constraint constants.
const (
	MinLat = -90.0
	MaxLat = 90.0
	MinLon = -180.0
	MaxLon = 180.0

	// MaxBlurRadiusMeters caps the obfuscation radius a reporter can request.
	MaxBlurRadiusMeters = 2000

	// SensitiveBlurFloorMeters is the mandatory minimum blur radius for
	// observations flagged as being near a sensitive location.
	SensitiveBlurFloorMeters = 500

	// MinObfuscatedOffsetMeters is the smallest distance a nonzero blur may
	// put between the exact and public point.
	MinObfuscatedOffsetMeters = 1.0
)

// Validate checks that the coordinate is a real point on the globe and that
// any reported accuracy is non-negative.
func (c Coordinate) Validate() error {
	if c.Lat < MinLat || c.Lat > MaxLat {
		return NewAppError(ErrCodeInvalidLatitude,
			fmt.Sprintf("latitude %.6f outside [%.0f, %.0f]", c.Lat, MinLat, MaxLat), nil)
	}
	if c.Lon < MinLon || c.Lon > MaxLon {
		return NewAppError(ErrCodeInvalidLongitude,
			fmt.Sprintf("longitude %.6f outside [%.0f, %.0f]", c.Lon, MinLon, MaxLon), nil)
	}
	if c.AccuracyMeters != nil && *c.AccuracyMeters < 0 {
		return NewAppError(ErrCodeInvalidAccuracy,
			fmt.Sprintf("accuracy %.2f must be >= 0", *c.AccuracyMeters), nil)
	}
	return nil
}

// Validate checks the aggregation policy parameters. The policy layer is
// expected to have already defaulted these; non-positive values are a caller
// contract violation, not something to silently repair here.
func (c PrivacyConfig) Validate() error {
	if c.DPEpsilon <= 0 {
		return NewAppError(ErrCodeInvalidPrivacyConfig,
			fmt.Sprintf("epsilon %.4f must be > 0", c.DPEpsilon), nil)
	}
	if c.DPKMin < 1 {
		return NewAppError(ErrCodeInvalidPrivacyConfig,
			fmt.Sprintf("k-anonymity minimum %d must be >= 1", c.DPKMin), nil)
	}
	return nil
}

// Validate checks the structural invariants of a stored record. Repositories
// run this on load to catch corrupted rows before they reach the service.
func (r *ObservationRecord) Validate() error {
	if r.ID == "" {
		return NewAppError(ErrCodeInvalidArgument, "record id is empty", nil)
	}
	if err := r.ExactLocation.Validate(); err != nil {
		return err
	}
	if err := r.PublicLocation.Validate(); err != nil {
		return err
	}
	if r.BlurRadiusMeters < 0 || r.BlurRadiusMeters > MaxBlurRadiusMeters {
		return NewAppError(ErrCodeInvalidArgument,
			fmt.Sprintf("blur radius %d outside [0, %d]", r.BlurRadiusMeters, MaxBlurRadiusMeters), nil)
	}
	if !r.Status.Valid() {
		return NewAppError(ErrCodeInvalidArgument,
			fmt.Sprintf("unknown status %q", r.Status), nil)
	}
	if len(r.History) == 0 {
		return NewAppError(ErrCodeInvalidArgument, "history is empty", nil)
	}
	if r.History[0].Status != StatusSubmitted {
		return NewAppError(ErrCodeInvalidArgument, "history does not start with submitted", nil)
	}
	if last := r.History[len(r.History)-1].Status; last != r.Status {
		return NewAppError(ErrCodeInvalidArgument,
			fmt.Sprintf("history tail %q does not match status %q", last, r.Status), nil)
	}
	return nil
}
