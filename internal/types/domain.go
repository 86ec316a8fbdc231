package types

import (
	"math"
	"time"
)

// Coordinate represents a geographic point with an optional GPS accuracy.
// It is an immutable value type: operations return new Coordinates.
type Coordinate struct {
	Lat float64 `json:"lat" db:"lat"`
	Lon float64 `json:"lon" db:"lon"`

	// AccuracyMeters is the reported GPS accuracy radius. Nil means unknown.
	// It is informational only and never influences obfuscation.
	AccuracyMeters *float64 `json:"accuracy_meters,omitempty" db:"accuracy_meters"`
}

// Equal reports whether two coordinates name the same point. Accuracy is
// metadata and does not participate in equality. Longitudes -180 and +180
// name the same meridian and compare equal.
func (c Coordinate) Equal(other Coordinate) bool {
	if c.Lat != other.Lat {
		return false
	}
	if c.Lon == other.Lon {
		return true
	}
	return math.Abs(c.Lon) == 180 && math.Abs(other.Lon) == 180
}

// StatusChange is a single entry in an observation's audit trail.
type StatusChange struct {
	Status Status    `json:"state"`
	At     time.Time `json:"at"`
}

// ObservationRecord is the core domain entity: one reporter observation with
// both its true and its publicly-safe coordinate.
//
// PublicLocation is derived exactly once, at creation time. Re-deriving it
// would silently move the record's public point between views, so it is
// stored and never recomputed.
type ObservationRecord struct {
	ID        string    `json:"id" db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// ExactLocation is the reporter's true position. It is never rendered as
	// a marker in public views; only MapView with privateView=true exposes it
	// as a point.
	ExactLocation Coordinate `json:"exact_location" db:"-"`

	// BlurRadiusMeters is the resolved obfuscation radius in [0, 2000].
	// Zero means no obfuscation.
	BlurRadiusMeters int `json:"blur_radius_meters" db:"blur_radius_meters"`

	// PublicLocation is the obfuscated coordinate. For a nonzero blur radius
	// its geodesic distance from ExactLocation lies in
	// [max(1, BlurRadiusMeters/2), BlurRadiusMeters].
	PublicLocation Coordinate `json:"public_location" db:"-"`

	Status  Status         `json:"status" db:"status"`
	History []StatusChange `json:"history" db:"history"`
}

// Clone returns a deep copy of the record. Repositories hand out clones so
// callers cannot mutate stored state.
func (r *ObservationRecord) Clone() *ObservationRecord {
	if r == nil {
		return nil
	}
	out := *r
	if r.ExactLocation.AccuracyMeters != nil {
		acc := *r.ExactLocation.AccuracyMeters
		out.ExactLocation.AccuracyMeters = &acc
	}
	if r.PublicLocation.AccuracyMeters != nil {
		acc := *r.PublicLocation.AccuracyMeters
		out.PublicLocation.AccuracyMeters = &acc
	}
	out.History = make([]StatusChange, len(r.History))
	copy(out.History, r.History)
	return &out
}

// GridCell is one populated cell of an aggregated heatmap. Cells are
// ephemeral: they are recomputed per query and never persisted.
//
// RawCount is the true occupancy and must never be serialized toward the
// aggregate view; only the noised count is disclosed.
type GridCell struct {
	CellLat     float64 `json:"cell_lat"`
	CellLon     float64 `json:"cell_lon"`
	RawCount    int     `json:"-"`
	NoisedCount int     `json:"noised_count"`
	Included    bool    `json:"-"`
}

// PrivacyConfig is the read-only policy input for record creation and
// heatmap aggregation, supplied by the configuration collaborator.
type PrivacyConfig struct {
	SensitiveMode bool    `json:"sensitive_mode"`
	DPEpsilon     float64 `json:"dp_epsilon"`
	DPKMin        int     `json:"dp_k_min"`
}

// MapView is the data-shaped contract handed to the map-rendering
// collaborator for a single record.
//
// In a private view, Point is the exact location and the circle is the GPS
// accuracy radius around it. In a public view, Point is the public location
// and the circle is the blur radius around the exact location for visual
// context; the exact point itself is never exposed as a renderable marker.
type MapView struct {
	RecordID           string     `json:"record_id"`
	Point              Coordinate `json:"point"`
	CircleCenter       Coordinate `json:"circle_center"`
	CircleRadiusMeters float64    `json:"circle_radius_meters"`
	Private            bool       `json:"private"`
}
