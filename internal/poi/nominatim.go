package poi

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/uzhroute/uzhroute/pkg/config"
	"github.com/uzhroute/uzhroute/pkg/httpclient"
)

// unnamedPlaceholder labels places that carry no usable name upstream.
const unnamedPlaceholder = "Без назви"

// nominatimClient queries the place search service for category pins.
type nominatimClient struct {
	client    *httpclient.Client
	userAgent string
	viewbox   string
}

func newNominatimClient(cfg config.GeocodingConfig, city config.CityConfig) *nominatimClient {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	return &nominatimClient{
		client:    httpclient.NewClient(cfg.NominatimBaseURL, timeout),
		userAgent: cfg.UserAgent,
		viewbox:   city.Viewbox,
	}
}

func (n *nominatimClient) FetchCategory(ctx context.Context, category Category, limit int) ([]POI, error) {
	params := url.Values{}
	params.Set("q", categoryQueries[category])
	params.Set("format", "jsonv2")
	params.Set("limit", strconv.Itoa(limit))
	params.Set("bounded", "1")
	params.Set("viewbox", n.viewbox)
	params.Set("addressdetails", "1")
	params.Set("namedetails", "1")
	params.Set("extratags", "1")
	params.Set("accept-language", "uk")

	body, err := n.client.Get(ctx, "/search?"+params.Encode(), map[string]string{"User-Agent": n.userAgent})
	if err != nil {
		return nil, err
	}

	var places []nominatimPOI
	if err := json.Unmarshal(body, &places); err != nil {
		return nil, err
	}

	pois := make([]POI, 0, len(places))
	for _, place := range places {
		lat, latErr := strconv.ParseFloat(place.Lat, 64)
		lon, lonErr := strconv.ParseFloat(place.Lon, 64)
		if latErr != nil || lonErr != nil {
			continue
		}

		poiType := place.Type
		if poiType == "" {
			poiType = string(category)
		}

		pois = append(pois, POI{
			ID:          strconv.FormatInt(place.PlaceID, 10),
			Name:        placeName(place),
			Lat:         lat,
			Lon:         lon,
			Type:        poiType,
			Category:    category,
			Address:     placeAddress(place),
			DisplayName: place.DisplayName,
		})
	}

	return pois, nil
}

func placeName(place nominatimPOI) string {
	if place.NameDetails != nil && place.NameDetails.Name != "" {
		return place.NameDetails.Name
	}
	if place.DisplayName != "" {
		return strings.TrimSpace(strings.SplitN(place.DisplayName, ",", 2)[0])
	}
	return unnamedPlaceholder
}

func placeAddress(place nominatimPOI) string {
	if place.Address == nil {
		return ""
	}
	parts := make([]string, 0, 2)
	if place.Address.Road != "" {
		parts = append(parts, place.Address.Road)
	}
	if place.Address.HouseNumber != "" {
		parts = append(parts, place.Address.HouseNumber)
	}
	return strings.Join(parts, " ")
}
