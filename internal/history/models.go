package history

import (
	"time"

	"github.com/google/uuid"
)

// maxRecent bounds the history to the most recent entries per client.
const maxRecent = 10

// Endpoint is one end of a recorded route, with the label the user saw.
// Zero is a valid coordinate, so only the range rules apply.
type Endpoint struct {
	Lat   float64 `json:"lat" validate:"latitude"`
	Lon   float64 `json:"lon" validate:"longitude"`
	Label string  `json:"label,omitempty" validate:"max=200"`
}

// RecentRoute is one entry in a client's recent routes list. The list is
// bounded and deduplicated by (start, end, profile): re-recording an
// identical route moves it to the front with a fresh timestamp.
type RecentRoute struct {
	ID              uuid.UUID `json:"id"`
	ClientID        uuid.UUID `json:"-"`
	Start           Endpoint  `json:"start"`
	End             Endpoint  `json:"end"`
	Profile         string    `json:"profile" validate:"required,route_profile"`
	DistanceMeters  float64   `json:"distance_meters" validate:"gte=0"`
	DurationSeconds float64   `json:"duration_seconds" validate:"gte=0"`
	CreatedAt       time.Time `json:"createdAt"`
}
