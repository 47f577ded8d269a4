package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/uzhroute/uzhroute/pkg/httpclient"
	"github.com/uzhroute/uzhroute/pkg/logger"
)

// osrmAdapter wraps one OSRM-compatible directions server. A single server
// may answer to several profile names, so the profile is a call argument
// rather than adapter state.
type osrmAdapter struct {
	name      string
	client    *httpclient.Client
	userAgent string
}

func newOSRMAdapter(name, baseURL, userAgent string, timeout time.Duration) *osrmAdapter {
	return &osrmAdapter{
		name:      name,
		client:    httpclient.NewClient(baseURL, timeout),
		userAgent: userAgent,
	}
}

func (a *osrmAdapter) Name() string {
	return a.name
}

// FetchRoute issues one directions request. Every failure mode — transport
// error, non-2xx status, a code other than "Ok", an empty route list — is a
// soft failure: (nil, false). Errors never propagate to the caller.
func (a *osrmAdapter) FetchRoute(ctx context.Context, profileName string, start, end GeoPoint) (*osrmRoute, bool) {
	path := fmt.Sprintf(
		"/route/v1/%s/%f,%f;%f,%f?overview=full&geometries=geojson&steps=true",
		profileName,
		start.Lon, start.Lat,
		end.Lon, end.Lat,
	)

	body, err := a.client.Get(ctx, path, map[string]string{"User-Agent": a.userAgent})
	if err != nil {
		logger.WithContext(ctx).Debug("osrm request failed",
			zap.String("adapter", a.name),
			zap.String("profile", profileName),
			zap.Error(err),
		)
		return nil, false
	}

	var resp osrmResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		logger.WithContext(ctx).Debug("osrm response unparseable",
			zap.String("adapter", a.name),
			zap.String("profile", profileName),
			zap.Error(err),
		)
		return nil, false
	}

	if resp.Code != "Ok" || len(resp.Routes) == 0 {
		logger.WithContext(ctx).Debug("osrm returned no route",
			zap.String("adapter", a.name),
			zap.String("profile", profileName),
			zap.String("code", resp.Code),
		)
		return nil, false
	}

	return &resp.Routes[0], true
}
