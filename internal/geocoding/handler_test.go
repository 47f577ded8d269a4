package geocoding

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHandler(svc).RegisterRoutes(router.Group("/api/v1"))
	return router
}

func performRequest(router *gin.Engine, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestSearchHandler_MissingQuery(t *testing.T) {
	router := setupRouter(newTestGeocodingService(&fakeSearcher{}, nil))

	w := performRequest(router, "/api/v1/geocode")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchHandler_InvalidLimit(t *testing.T) {
	router := setupRouter(newTestGeocodingService(&fakeSearcher{}, nil))

	w := performRequest(router, "/api/v1/geocode?q=castle&limit=abc")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performRequest(router, "/api/v1/geocode?q=castle&limit=0")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchHandler_ReturnsResults(t *testing.T) {
	router := setupRouter(newTestGeocodingService(&fakeSearcher{results: sampleResults()}, nil))

	w := performRequest(router, "/api/v1/geocode?q=%D0%97%D0%B0%D0%BC%D0%BE%D0%BA")
	require.Equal(t, http.StatusOK, w.Code)

	var results []Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "Замок, Ужгород", results[0].DisplayName)
}

func TestSearchHandler_ShortQueryReturnsEmptyArray(t *testing.T) {
	router := setupRouter(newTestGeocodingService(&fakeSearcher{}, nil))

	w := performRequest(router, "/api/v1/geocode?q=a")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}
