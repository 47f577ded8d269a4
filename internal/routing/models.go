package routing

import (
	"fmt"
	"strconv"
	"strings"
)

// Provider identifies the upstream directions service that produced a route.
type Provider string

const (
	ProviderOSRM Provider = "osrm"
	ProviderORS  Provider = "ors"
)

// Profile is the routing mode exposed on the public API.
type Profile string

const (
	ProfileCar  Profile = "car"
	ProfileWalk Profile = "walk"
)

// ParseProfile normalizes the user-supplied profile value. Provider-side
// spellings ("driving", "walking", "foot") are accepted as aliases.
func ParseProfile(raw string) (Profile, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "car", "driving":
		return ProfileCar, nil
	case "walk", "walking", "foot":
		return ProfileWalk, nil
	default:
		return "", fmt.Errorf("unknown profile: %q", raw)
	}
}

// GeoPoint is an immutable coordinate pair. Equality is exact.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether the point lies in the WGS84 coordinate ranges.
func (p GeoPoint) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}

// ParsePoint parses a "lat,lon" query parameter.
func ParsePoint(raw string) (GeoPoint, error) {
	parts := strings.Split(strings.TrimSpace(raw), ",")
	if len(parts) != 2 {
		return GeoPoint{}, fmt.Errorf("expected lat,lon pair, got %q", raw)
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return GeoPoint{}, fmt.Errorf("invalid latitude %q", parts[0])
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return GeoPoint{}, fmt.Errorf("invalid longitude %q", parts[1])
	}

	point := GeoPoint{Lat: lat, Lon: lon}
	if !point.Valid() {
		return GeoPoint{}, fmt.Errorf("coordinates out of range: %q", raw)
	}
	return point, nil
}

// Query identifies one routing attempt.
type Query struct {
	Start   GeoPoint `json:"start"`
	End     GeoPoint `json:"end"`
	Profile Profile  `json:"profile"`
}

// Maneuver is the provider-supplied turn descriptor for one step.
type Maneuver struct {
	Type     string `json:"type"`
	Modifier string `json:"modifier,omitempty"`
}

// Step is one turn-by-turn instruction, in traversal order.
type Step struct {
	Instruction     string    `json:"instruction"`
	DistanceMeters  float64   `json:"distance_meters"`
	DurationSeconds float64   `json:"duration_seconds"`
	RoadName        string    `json:"road_name"`
	Maneuver        *Maneuver `json:"maneuver,omitempty"`
}

// Geometry is an ordered sequence of (lon,lat) pairs.
type Geometry [][2]float64

// Route is the normalized result shared by every provider. Legacy aliases
// (distance, duration, fallback) mirror distance_meters/duration_seconds and
// the warnings flag for older clients.
type Route struct {
	Provider        Provider `json:"provider"`
	Profile         Profile  `json:"profile"`
	Geometry        Geometry `json:"geometry"`
	DistanceMeters  float64  `json:"distance_meters"`
	DurationSeconds float64  `json:"duration_seconds"`
	Steps           []Step   `json:"steps"`
	Warnings        []string `json:"warnings,omitempty"`

	Distance float64 `json:"distance"`
	Duration float64 `json:"duration"`
	Fallback bool    `json:"fallback"`
}

// osrmManeuver, osrmStep, osrmLeg and osrmRoute mirror the OSRM response
// shape. The ORS adapter converts its GeoJSON response into the same shape so
// that normalization has a single input type.
type osrmManeuver struct {
	Type        string `json:"type"`
	Modifier    string `json:"modifier"`
	Instruction string `json:"instruction"`
}

type osrmStep struct {
	Maneuver *osrmManeuver `json:"maneuver"`
	Name     string        `json:"name"`
	Distance float64       `json:"distance"`
	Duration float64       `json:"duration"`
}

type osrmLeg struct {
	Steps []osrmStep `json:"steps"`
}

type osrmGeometry struct {
	Coordinates [][2]float64 `json:"coordinates"`
}

type osrmRoute struct {
	Geometry osrmGeometry `json:"geometry"`
	Distance float64      `json:"distance"`
	Duration float64      `json:"duration"`
	Legs     []osrmLeg    `json:"legs"`
}

type osrmResponse struct {
	Code   string      `json:"code"`
	Routes []osrmRoute `json:"routes"`
}
