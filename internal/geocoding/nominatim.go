package geocoding

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"time"

	"github.com/uzhroute/uzhroute/pkg/config"
	"github.com/uzhroute/uzhroute/pkg/httpclient"
)

// nominatimClient queries the upstream place search service with the
// city-bounded viewbox applied to every request.
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

func (n *nominatimClient) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "jsonv2")
	params.Set("limit", strconv.Itoa(limit))
	params.Set("addressdetails", "1")
	params.Set("bounded", "1")
	params.Set("viewbox", n.viewbox)
	params.Set("accept-language", "uk,en")

	body, err := n.client.Get(ctx, "/search?"+params.Encode(), map[string]string{"User-Agent": n.userAgent})
	if err != nil {
		return nil, err
	}

	var places []nominatimPlace
	if err := json.Unmarshal(body, &places); err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(places))
	for _, place := range places {
		lat, latErr := strconv.ParseFloat(place.Lat, 64)
		lon, lonErr := strconv.ParseFloat(place.Lon, 64)
		if latErr != nil || lonErr != nil {
			continue
		}

		result := Result{
			PlaceID:     strconv.FormatInt(place.PlaceID, 10),
			DisplayName: place.DisplayName,
			Lat:         lat,
			Lon:         lon,
			Type:        place.Type,
			H3Cell:      placeCell(lat, lon),
		}

		if place.Address != nil {
			city := place.Address.City
			if city == "" {
				city = place.Address.Town
			}
			if city == "" {
				city = place.Address.Village
			}
			result.Address = &Address{
				Road:    place.Address.Road,
				City:    city,
				County:  place.Address.County,
				State:   place.Address.State,
				Country: place.Address.Country,
			}
		}

		results = append(results, result)
	}

	return results, nil
}
