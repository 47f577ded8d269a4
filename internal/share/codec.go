package share

import (
	"fmt"
	"net/url"

	"github.com/uzhroute/uzhroute/internal/routing"
)

// Query parameter keys for the share URL. "s"/"e" are the legacy spellings
// still accepted on decode.
const (
	paramStart       = "a"
	paramEnd         = "b"
	paramProfile     = "m"
	legacyParamStart = "s"
	legacyParamEnd   = "e"
)

// EncodeQuery turns a route query into its canonical share parameters.
func EncodeQuery(q routing.Query) url.Values {
	values := url.Values{}
	values.Set(paramStart, fmt.Sprintf("%g,%g", q.Start.Lat, q.Start.Lon))
	values.Set(paramEnd, fmt.Sprintf("%g,%g", q.End.Lat, q.End.Lon))
	values.Set(paramProfile, string(q.Profile))
	return values
}

// DecodeQuery reconstructs a route query from share parameters. A missing
// profile defaults to car.
func DecodeQuery(values url.Values) (routing.Query, error) {
	startRaw := values.Get(paramStart)
	if startRaw == "" {
		startRaw = values.Get(legacyParamStart)
	}
	endRaw := values.Get(paramEnd)
	if endRaw == "" {
		endRaw = values.Get(legacyParamEnd)
	}

	if startRaw == "" || endRaw == "" {
		return routing.Query{}, fmt.Errorf("start and end parameters are required")
	}

	start, err := routing.ParsePoint(startRaw)
	if err != nil {
		return routing.Query{}, fmt.Errorf("invalid start point: %w", err)
	}

	end, err := routing.ParsePoint(endRaw)
	if err != nil {
		return routing.Query{}, fmt.Errorf("invalid end point: %w", err)
	}

	profile, err := routing.ParseProfile(values.Get(paramProfile))
	if err != nil {
		return routing.Query{}, err
	}

	return routing.Query{Start: start, End: end, Profile: profile}, nil
}
