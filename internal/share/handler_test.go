package share

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uzhroute/uzhroute/internal/routing"
	"github.com/uzhroute/uzhroute/pkg/common"
)

type fakeResolver struct {
	route *routing.Route
	err   error
	last  routing.Query
}

func (f *fakeResolver) Route(_ context.Context, q routing.Query) (*routing.Route, error) {
	f.last = q
	return f.route, f.err
}

func setupRouter(resolver routeResolver) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHandler(resolver).RegisterRoutes(router.Group("/api/v1"))
	return router
}

func sampleSharedRoute() *routing.Route {
	return &routing.Route{
		Provider: routing.ProviderOSRM,
		Profile:  routing.ProfileCar,
		Geometry: routing.Geometry{{22.2879, 48.6208}, {22.3051, 48.6217}},
	}
}

func TestExportGPX(t *testing.T) {
	resolver := &fakeResolver{route: sampleSharedRoute()}
	router := setupRouter(resolver)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/share/gpx?a=48.6208,22.2879&b=48.6217,22.3051&m=car", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/gpx+xml", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "route.gpx")
	assert.Contains(t, w.Body.String(), "<trkpt")
	assert.Equal(t, routing.ProfileCar, resolver.last.Profile)
}

func TestExportGPX_BadQuery(t *testing.T) {
	router := setupRouter(&fakeResolver{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/share/gpx?a=48.6208,22.2879", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportGPX_NoRoute(t *testing.T) {
	resolver := &fakeResolver{err: common.NewNotFoundError("no route found", nil)}
	router := setupRouter(resolver)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/share/gpx?a=48.6208,22.2879&b=48.6217,22.3051", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLink(t *testing.T) {
	router := setupRouter(&fakeResolver{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/share/link?s=48.6208,22.2879&e=48.6217,22.3051&m=walk", nil)
	req.Host = "maps.uzhhorod.ua"
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	// Legacy params are normalised to the canonical encoding.
	assert.Contains(t, body["url"], "maps.uzhhorod.ua")
	assert.Contains(t, body["url"], "a=48.6208%2C22.2879")
	assert.Contains(t, body["url"], "m=walk")
}
