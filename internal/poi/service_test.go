package poi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uzhroute/uzhroute/pkg/common"
)

type fakeFetcher struct {
	mu     sync.Mutex
	pois   []POI
	err    error
	calls  int
	limits []int
}

func (f *fakeFetcher) FetchCategory(_ context.Context, _ Category, limit int) ([]POI, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.limits = append(f.limits, limit)
	return f.pois, f.err
}

type memoryCache struct {
	mu   sync.Mutex
	data map[string][]POI
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string][]POI)}
}

func (m *memoryCache) Get(_ context.Context, key string, result interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cached, ok := m.data[key]
	if !ok {
		return errors.New("cache miss")
	}
	*(result.(*[]POI)) = cached
	return nil
}

func (m *memoryCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value.([]POI)
	return nil
}

func samplePOIs() []POI {
	return []POI{
		{ID: "101", Name: "Кавярня", Lat: 48.6211, Lon: 22.2954, Type: "cafe", Category: CategoryCafe},
	}
}

func newTestPOIService(upstream fetcher, store cacheStore) *Service {
	return &Service{upstream: upstream, cache: store, cacheTTL: 15 * time.Minute}
}

func TestByCategory_InvalidCategory(t *testing.T) {
	svc := newTestPOIService(&fakeFetcher{}, nil)

	_, err := svc.ByCategory(context.Background(), Category("museum"), 10)
	require.Error(t, err)

	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.Code)
}

func TestByCategory_LimitClamp(t *testing.T) {
	upstream := &fakeFetcher{pois: samplePOIs()}
	svc := newTestPOIService(upstream, nil)

	_, err := svc.ByCategory(context.Background(), CategoryCafe, 500)
	require.NoError(t, err)
	_, err = svc.ByCategory(context.Background(), CategoryCafe, 0)
	require.NoError(t, err)
	_, err = svc.ByCategory(context.Background(), CategoryCafe, 7)
	require.NoError(t, err)

	assert.Equal(t, []int{50, 50, 7}, upstream.limits)
}

func TestByCategory_CachesResults(t *testing.T) {
	upstream := &fakeFetcher{pois: samplePOIs()}
	svc := newTestPOIService(upstream, newMemoryCache())

	first, err := svc.ByCategory(context.Background(), CategoryCafe, 10)
	require.NoError(t, err)
	second, err := svc.ByCategory(context.Background(), CategoryCafe, 10)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, upstream.calls)
}

func TestByCategory_UpstreamFailure(t *testing.T) {
	upstream := &fakeFetcher{err: errors.New("timeout")}
	svc := newTestPOIService(upstream, nil)

	_, err := svc.ByCategory(context.Background(), CategoryPharmacy, 10)
	require.Error(t, err)

	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusBadGateway, appErr.Code)
}

func TestValidCategory(t *testing.T) {
	for _, c := range []Category{CategoryCafe, CategoryRestaurant, CategoryShop, CategoryPharmacy, CategoryBank, CategoryHotel} {
		assert.True(t, ValidCategory(c))
	}
	assert.False(t, ValidCategory(Category("museum")))
	assert.False(t, ValidCategory(Category("")))
}

func TestListHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHandler(newTestPOIService(&fakeFetcher{pois: samplePOIs()}, nil)).RegisterRoutes(router.Group("/api/v1"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/poi?category=cafe", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/poi?category=museum", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/poi?category=cafe&limit=-3", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
