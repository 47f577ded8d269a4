package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePoint(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    GeoPoint
		wantErr bool
	}{
		{"city center", "48.6208,22.2879", GeoPoint{Lat: 48.6208, Lon: 22.2879}, false},
		{"with spaces", " 48.6208 , 22.2879 ", GeoPoint{Lat: 48.6208, Lon: 22.2879}, false},
		{"negative coordinates", "-33.8688,151.2093", GeoPoint{Lat: -33.8688, Lon: 151.2093}, false},
		{"missing component", "48.6208", GeoPoint{}, true},
		{"too many components", "48.6,22.2,11.1", GeoPoint{}, true},
		{"not numeric", "abc,def", GeoPoint{}, true},
		{"latitude out of range", "91,22.28", GeoPoint{}, true},
		{"longitude out of range", "48.62,181", GeoPoint{}, true},
		{"empty", "", GeoPoint{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePoint(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseProfile(t *testing.T) {
	for _, alias := range []string{"", "car", "driving", "Car", "DRIVING"} {
		profile, err := ParseProfile(alias)
		require.NoError(t, err, "alias %q", alias)
		assert.Equal(t, ProfileCar, profile)
	}

	for _, alias := range []string{"walk", "walking", "foot", "Walk"} {
		profile, err := ParseProfile(alias)
		require.NoError(t, err, "alias %q", alias)
		assert.Equal(t, ProfileWalk, profile)
	}

	_, err := ParseProfile("cycling")
	assert.Error(t, err)
}

func TestGeoPointValid(t *testing.T) {
	assert.True(t, GeoPoint{Lat: 48.6208, Lon: 22.2879}.Valid())
	assert.True(t, GeoPoint{Lat: -90, Lon: 180}.Valid())
	assert.False(t, GeoPoint{Lat: 90.0001, Lon: 0}.Valid())
	assert.False(t, GeoPoint{Lat: 0, Lon: -180.5}.Valid())
}
