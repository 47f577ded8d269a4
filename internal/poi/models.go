package poi

// Category is one of the closed set of POI groups the map can show.
type Category string

const (
	CategoryCafe       Category = "cafe"
	CategoryRestaurant Category = "restaurant"
	CategoryShop       Category = "shop"
	CategoryPharmacy   Category = "pharmacy"
	CategoryBank       Category = "bank"
	CategoryHotel      Category = "hotel"
)

// categoryQueries maps a public category to the Nominatim search term.
// "shop" deliberately queries supermarkets, which is what users expect the
// pin group to show.
var categoryQueries = map[Category]string{
	CategoryCafe:       "cafe",
	CategoryRestaurant: "restaurant",
	CategoryShop:       "supermarket",
	CategoryPharmacy:   "pharmacy",
	CategoryBank:       "bank",
	CategoryHotel:      "hotel",
}

// ValidCategory reports whether the category can be queried.
func ValidCategory(c Category) bool {
	_, ok := categoryQueries[c]
	return ok
}

// POI is one point of interest inside the city viewbox.
type POI struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Lat         float64  `json:"lat"`
	Lon         float64  `json:"lon"`
	Type        string   `json:"type"`
	Category    Category `json:"category"`
	Address     string   `json:"address,omitempty"`
	DisplayName string   `json:"displayName,omitempty"`
}

// nominatimPOI mirrors the upstream jsonv2 response item with name details.
type nominatimPOI struct {
	PlaceID     int64  `json:"place_id"`
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	Type        string `json:"type"`
	NameDetails *struct {
		Name string `json:"name"`
	} `json:"namedetails"`
	Address *struct {
		Road        string `json:"road"`
		HouseNumber string `json:"house_number"`
	} `json:"address"`
}
