package geo

import "math"

const (
	earthRadiusM = 6371000.0
	// Average pedestrian speed in metres per second (5 km/h).
	walkingSpeedMPS = 1.3889
)

// Haversine calculates the great-circle distance in metres between two
// coordinates.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180.0
	dLon := (lon2 - lon1) * math.Pi / 180.0

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180.0)*math.Cos(lat2*math.Pi/180.0)*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusM * c
}

// WalkingDuration estimates how many seconds it takes to walk the given
// distance in metres at average pedestrian speed.
func WalkingDuration(distanceM float64) float64 {
	return math.Round(distanceM / walkingSpeedMPS)
}
