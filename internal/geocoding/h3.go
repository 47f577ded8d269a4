package geocoding

import (
	"github.com/uber/h3-go/v4"
)

// h3ResolutionPlace indexes place candidates at ~175m cell edge, fine enough
// to distinguish addresses on the same street.
const h3ResolutionPlace = 9

// placeCell returns the H3 cell hex string for a coordinate, or "" when the
// coordinate cannot be indexed.
func placeCell(lat, lon float64) string {
	cell, err := h3.LatLngToCell(h3.NewLatLng(lat, lon), h3ResolutionPlace)
	if err != nil {
		return ""
	}
	return cell.String()
}
