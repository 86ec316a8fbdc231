// Package geo implements great-circle distance and destination-point
// projection on a spherical Earth model. All functions are pure.
package geo

import (
	"fmt"
	"math"

	"geoveil/internal/types"
)

// EarthRadiusMeters is the mean Earth radius of the spherical model.
const EarthRadiusMeters = 6371000.0

func toRadians(deg float64) float64 { return deg * math.Pi / 180 }
func toDegrees(rad float64) float64 { return rad * 180 / math.Pi }

// DistanceMeters returns the great-circle (haversine) distance between two
// coordinates in meters. It is symmetric and zero iff a and b name the same
// point.
func DistanceMeters(a, b types.Coordinate) float64 {
	lat1 := toRadians(a.Lat)
	lat2 := toRadians(b.Lat)
	dLat := toRadians(b.Lat - a.Lat)
	dLon := toRadians(b.Lon - a.Lon)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon
	return 2 * EarthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(h)))
}

// Destination solves the direct geodesic problem: it returns the coordinate
// reached by travelling distanceMeters from origin along the given initial
// bearing. The bearing is taken modulo 2π; a negative distance is a caller
// contract violation.
func Destination(origin types.Coordinate, bearingRadians, distanceMeters float64) (types.Coordinate, error) {
	if err := origin.Validate(); err != nil {
		return types.Coordinate{}, err
	}
	if distanceMeters < 0 || math.IsNaN(distanceMeters) || math.IsInf(distanceMeters, 0) {
		return types.Coordinate{}, types.NewAppError(types.ErrCodeInvalidArgument,
			fmt.Sprintf("distance %.2f must be >= 0 and finite", distanceMeters), nil)
	}

	bearing := math.Mod(bearingRadians, 2*math.Pi)
	if bearing < 0 {
		bearing += 2 * math.Pi
	}

	lat1 := toRadians(origin.Lat)
	lon1 := toRadians(origin.Lon)
	delta := distanceMeters / EarthRadiusMeters

	lat2 := math.Asin(math.Sin(lat1)*math.Cos(delta) +
		math.Cos(lat1)*math.Sin(delta)*math.Cos(bearing))
	lon2 := lon1 + math.Atan2(
		math.Sin(bearing)*math.Sin(delta)*math.Cos(lat1),
		math.Cos(delta)-math.Sin(lat1)*math.Sin(lat2))

	return types.Coordinate{
		Lat: toDegrees(lat2),
		Lon: normalizeLonDegrees(toDegrees(lon2)),
	}, nil
}

// normalizeLonDegrees wraps a longitude into [-180, 180].
func normalizeLonDegrees(lon float64) float64 {
	lon = math.Mod(lon+180, 360)
	if lon < 0 {
		lon += 360
	}
	return lon - 180
}
