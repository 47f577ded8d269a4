package validation

// Request structs shared by the handlers, carrying the validation rules for
// the public API payloads.

// SavePlaceRequest is the body of POST /places. The id is optional and may
// originate from the geocoder. Zero is a valid coordinate, so lat/lon carry
// only the range rules.
type SavePlaceRequest struct {
	ID        string  `json:"id"`
	Name      string  `json:"name" validate:"required,min=1,max=200"`
	Latitude  float64 `json:"lat" validate:"latitude"`
	Longitude float64 `json:"lon" validate:"longitude"`
}

// POIRequest is the query of GET /poi. A limit above the service bound is
// clamped there, not rejected here.
type POIRequest struct {
	Category string `form:"category" validate:"required,poi_category"`
	Limit    int    `form:"limit" validate:"omitempty,gte=1"`
}
