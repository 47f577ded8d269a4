package geocoding

// Address carries the subset of Nominatim address details we expose.
type Address struct {
	Road    string `json:"road,omitempty"`
	City    string `json:"city,omitempty"`
	County  string `json:"county,omitempty"`
	State   string `json:"state,omitempty"`
	Country string `json:"country,omitempty"`
}

// Result is one ranked place candidate.
type Result struct {
	PlaceID     string   `json:"placeId"`
	DisplayName string   `json:"displayName"`
	Lat         float64  `json:"lat"`
	Lon         float64  `json:"lon"`
	Type        string   `json:"type"`
	Address     *Address `json:"address,omitempty"`
	H3Cell      string   `json:"h3_cell,omitempty"`
}

// nominatimPlace mirrors the upstream jsonv2 response item.
type nominatimPlace struct {
	PlaceID     int64  `json:"place_id"`
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	Type        string `json:"type"`
	Address     *struct {
		Road    string `json:"road"`
		City    string `json:"city"`
		Town    string `json:"town"`
		Village string `json:"village"`
		County  string `json:"county"`
		State   string `json:"state"`
		Country string `json:"country"`
	} `json:"address"`
}
