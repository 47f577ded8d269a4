package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	os.Clearenv()

	cfg, err := Load("route-service")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "route-service", cfg.Server.ServiceName)
	assert.Equal(t, "https://router.project-osrm.org", cfg.Routing.OSRMBaseURL)
	assert.Equal(t, cfg.Routing.OSRMBaseURL, cfg.Routing.OSRMFootBaseURL)
	assert.Equal(t, 300, cfg.Routing.CacheTTLSeconds)
	assert.Equal(t, "https://nominatim.openstreetmap.org", cfg.Geocoding.NominatimBaseURL)
	assert.Equal(t, 5, cfg.Geocoding.ResultLimit)
	assert.Equal(t, "22.20,48.68,22.38,48.55", cfg.City.Viewbox)
	assert.InDelta(t, 48.6208, cfg.City.CenterLat, 1e-9)
	assert.InDelta(t, 22.2879, cfg.City.CenterLon, 1e-9)
	assert.Equal(t, 150, cfg.Session.DragDebounceMillis)
	assert.True(t, cfg.Session.KeepRouteOnError)
	assert.False(t, cfg.Transit.Enabled)
}

func TestLoadCustomValues(t *testing.T) {
	os.Clearenv()
	os.Setenv("OSRM_BASE_URL", "http://osrm.local")
	os.Setenv("OSRM_FOOT_BASE_URL", "http://osrm-foot.local")
	os.Setenv("ORS_API_KEY", "secret")
	os.Setenv("SESSION_DRAG_DEBOUNCE_MS", "250")
	os.Setenv("ROUTE_KEEP_LAST_ON_ERROR", "false")

	cfg, err := Load("route-service")
	require.NoError(t, err)

	assert.Equal(t, "http://osrm.local", cfg.Routing.OSRMBaseURL)
	assert.Equal(t, "http://osrm-foot.local", cfg.Routing.OSRMFootBaseURL)
	assert.True(t, cfg.Routing.ORSEnabled())
	assert.Equal(t, 250, cfg.Session.DragDebounceMillis)
	assert.False(t, cfg.Session.KeepRouteOnError)
}

func TestORSEnabled(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		enabled bool
	}{
		{"empty key", "", false},
		{"disabled sentinel", "DISABLED", false},
		{"real key", "abc123", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := RoutingConfig{ORSAPIKey: tt.key}
			assert.Equal(t, tt.enabled, cfg.ORSEnabled())
		})
	}
}

func TestLoadRejectsInvalidResultLimit(t *testing.T) {
	os.Clearenv()
	os.Setenv("GEOCODING_RESULT_LIMIT", "100")

	_, err := Load("route-service")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEOCODING_RESULT_LIMIT")
}

func TestCircuitBreakerSettingsFor(t *testing.T) {
	cfg := CircuitBreakerConfig{
		FailureThreshold: 5,
		SuccessThreshold: 1,
		TimeoutSeconds:   30,
		IntervalSeconds:  60,
		ServiceOverrides: map[string]CircuitBreakerSettings{
			"osrm": {FailureThreshold: 10},
		},
	}

	settings := cfg.SettingsFor("osrm")
	assert.Equal(t, 10, settings.FailureThreshold)
	assert.Equal(t, 30, settings.TimeoutSeconds)

	settings = cfg.SettingsFor("nominatim")
	assert.Equal(t, 5, settings.FailureThreshold)
}
