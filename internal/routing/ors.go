package routing

import (
	"context"
	"encoding/json"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/uzhroute/uzhroute/pkg/httpclient"
	"github.com/uzhroute/uzhroute/pkg/logger"
)

// orsDisabledSentinel opts the alternate service out even when a key is set.
const orsDisabledSentinel = "DISABLED"

type orsStep struct {
	Instruction string  `json:"instruction"`
	Type        int     `json:"type"`
	Name        string  `json:"name"`
	Distance    float64 `json:"distance"`
	Duration    float64 `json:"duration"`
}

type orsSegment struct {
	Steps []orsStep `json:"steps"`
}

type orsFeature struct {
	Geometry   osrmGeometry `json:"geometry"`
	Properties struct {
		Summary struct {
			Distance float64 `json:"distance"`
			Duration float64 `json:"duration"`
		} `json:"summary"`
		Segments []orsSegment `json:"segments"`
	} `json:"properties"`
}

type orsResponse struct {
	Features []orsFeature `json:"features"`
}

// orsAdapter wraps the OpenRouteService walking profile, used when the
// OSRM pedestrian attempts are exhausted and an API key is configured.
type orsAdapter struct {
	apiKey string
	client *httpclient.Client
}

func newORSAdapter(baseURL, apiKey string, timeout time.Duration) *orsAdapter {
	return &orsAdapter{
		apiKey: apiKey,
		client: httpclient.NewClient(baseURL, timeout),
	}
}

func (a *orsAdapter) Name() string {
	return "ors"
}

// Enabled reports whether the adapter may be called at all.
func (a *orsAdapter) Enabled() bool {
	return a.apiKey != "" && a.apiKey != orsDisabledSentinel
}

// FetchWalking requests a foot-walking route and converts the GeoJSON
// feature into the common OSRM route shape. Soft failure only, like the
// OSRM adapter.
func (a *orsAdapter) FetchWalking(ctx context.Context, start, end GeoPoint) (*osrmRoute, bool) {
	if !a.Enabled() {
		return nil, false
	}

	payload := map[string]interface{}{
		"coordinates": [][2]float64{
			{start.Lon, start.Lat},
			{end.Lon, end.Lat},
		},
		"format": "geojson",
	}

	path := "/v2/directions/foot-walking?api_key=" + url.QueryEscape(a.apiKey)
	body, err := a.client.Post(ctx, path, payload, nil)
	if err != nil {
		logger.WithContext(ctx).Debug("ors request failed", zap.Error(err))
		return nil, false
	}

	var resp orsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		logger.WithContext(ctx).Debug("ors response unparseable", zap.Error(err))
		return nil, false
	}

	if len(resp.Features) == 0 {
		return nil, false
	}

	return convertORSFeature(&resp.Features[0]), true
}

// convertORSFeature maps the ORS feature/segment/step shape onto the OSRM
// intermediate so that a single normalization path serves both providers.
func convertORSFeature(feature *orsFeature) *osrmRoute {
	route := &osrmRoute{
		Geometry: feature.Geometry,
		Distance: feature.Properties.Summary.Distance,
		Duration: feature.Properties.Summary.Duration,
	}

	if len(feature.Properties.Segments) > 0 {
		segment := feature.Properties.Segments[0]
		steps := make([]osrmStep, 0, len(segment.Steps))
		for _, s := range segment.Steps {
			steps = append(steps, osrmStep{
				Maneuver: &osrmManeuver{Instruction: s.Instruction},
				Name:     s.Name,
				Distance: s.Distance,
				Duration: s.Duration,
			})
		}
		route.Legs = []osrmLeg{{Steps: steps}}
	}

	return route
}
