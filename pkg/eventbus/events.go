package eventbus

import "time"

// RouteCalculatedData is emitted after a route was successfully calculated,
// including routes served by a fallback profile.
type RouteCalculatedData struct {
	Provider     string    `json:"provider"`
	Profile      string    `json:"profile"`
	StartLat     float64   `json:"start_lat"`
	StartLon     float64   `json:"start_lon"`
	EndLat       float64   `json:"end_lat"`
	EndLon       float64   `json:"end_lon"`
	DistanceM    float64   `json:"distance_m"`
	DurationS    float64   `json:"duration_s"`
	Fallback     bool      `json:"fallback"`
	CalculatedAt time.Time `json:"calculated_at"`
}

// RouteFailedData is emitted when every provider in the fallback chain failed.
type RouteFailedData struct {
	Profile  string    `json:"profile"`
	StartLat float64   `json:"start_lat"`
	StartLon float64   `json:"start_lon"`
	EndLat   float64   `json:"end_lat"`
	EndLon   float64   `json:"end_lon"`
	FailedAt time.Time `json:"failed_at"`
}

// PlaceSavedData is emitted when a place is added to the saved list.
type PlaceSavedData struct {
	PlaceID   string    `json:"place_id"`
	Name      string    `json:"name"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	SavedAt   time.Time `json:"saved_at"`
}

// PlaceRemovedData is emitted when a saved place is removed.
type PlaceRemovedData struct {
	PlaceID   string    `json:"place_id"`
	RemovedAt time.Time `json:"removed_at"`
}

// GeocodeSearchedData is emitted after an upstream geocoding search completes.
type GeocodeSearchedData struct {
	Query       string    `json:"query"`
	ResultCount int       `json:"result_count"`
	CacheHit    bool      `json:"cache_hit"`
	SearchedAt  time.Time `json:"searched_at"`
}
