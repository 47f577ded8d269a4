package geocoding

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/uzhroute/uzhroute/pkg/async"
	"github.com/uzhroute/uzhroute/pkg/cache"
	"github.com/uzhroute/uzhroute/pkg/config"
	"github.com/uzhroute/uzhroute/pkg/eventbus"
	"github.com/uzhroute/uzhroute/pkg/logger"
)

// searcher is the upstream place search contract.
type searcher interface {
	Search(ctx context.Context, query string, limit int) ([]Result, error)
}

// cacheStore is the subset of the cache manager the service needs.
type cacheStore interface {
	Get(ctx context.Context, key string, result interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// Service resolves free-text queries into ranked place candidates. It owns
// the query cache and the single in-flight upstream call: a new search
// cancels the previous one, and the cancelled search resolves to an empty
// result without error.
type Service struct {
	upstream searcher
	cache    cacheStore
	bus      *eventbus.Bus

	city     config.CityConfig
	limit    int
	cacheTTL time.Duration

	mu           sync.Mutex
	cancelActive context.CancelFunc
}

// NewService wires the Nominatim client from configuration. cacheManager and
// bus may be nil.
func NewService(cfg *config.Config, cacheManager *cache.Manager, bus *eventbus.Bus) *Service {
	s := &Service{
		upstream: newNominatimClient(cfg.Geocoding, cfg.City),
		bus:      bus,
		city:     cfg.City,
		limit:    cfg.Geocoding.ResultLimit,
		cacheTTL: time.Duration(cfg.Geocoding.CacheTTLSeconds) * time.Second,
	}
	if cacheManager != nil {
		s.cache = cacheManager
	}
	return s
}

// Search returns place candidates for a query, most relevant first. Failures
// and cancellations both yield an empty slice; the caller never sees an
// upstream error.
func (s *Service) Search(ctx context.Context, rawQuery string, limit int) []Result {
	query := normalizeQuery(rawQuery)
	if len([]rune(query)) < 2 {
		return []Result{}
	}

	if limit <= 0 || limit > 50 {
		limit = s.limit
	}

	if point, ok := parseCoordinateLiteral(query); ok {
		return []Result{point}
	}

	cacheKey := cache.Keys.Geocode(query)
	if s.cache != nil {
		var cached []Result
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil && len(cached) > 0 {
			s.publishSearched(ctx, query, len(cached), true)
			return cached
		}
	}

	searchCtx := s.supersede(ctx)
	defer s.clearActive(searchCtx)

	results, err := s.upstream.Search(searchCtx, s.withCityBias(query), limit)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return []Result{}
		}
		logger.WithContext(ctx).Warn("geocoding upstream failed", zap.Error(err))
		return []Result{}
	}

	// Empty answers are often transient upstream behaviour, so only
	// non-empty result sets are cached.
	if len(results) > 0 && s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, results, s.cacheTTL); err != nil {
			logger.WithContext(ctx).Debug("geocode cache write failed", zap.Error(err))
		}
	}

	s.publishSearched(ctx, query, len(results), false)
	return results
}

// supersede cancels any in-flight search and registers a new one.
func (s *Service) supersede(ctx context.Context) context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancelActive != nil {
		s.cancelActive()
	}

	searchCtx, cancel := context.WithCancel(ctx)
	s.cancelActive = cancel
	return searchCtx
}

// clearActive releases the cancel slot if this search is still the active one.
func (s *Service) clearActive(searchCtx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if searchCtx.Err() == nil && s.cancelActive != nil {
		s.cancelActive()
		s.cancelActive = nil
	}
}

// withCityBias appends the city qualifier unless the query already names the
// city in one of its known spellings.
func (s *Service) withCityBias(query string) string {
	lower := strings.ToLower(query)
	for _, variant := range s.city.NameVariants {
		if strings.Contains(lower, variant) {
			return query
		}
	}
	return query + s.city.BiasSuffix
}

func (s *Service) publishSearched(ctx context.Context, query string, resultCount int, cacheHit bool) {
	if s.bus == nil || !s.bus.Connected() {
		return
	}

	async.Go(ctx, "publish-geocode-searched", func(ctx context.Context) {
		event, err := eventbus.NewEvent(eventbus.SubjectGeocodeSearched, "geocoding", eventbus.GeocodeSearchedData{
			Query:       query,
			ResultCount: resultCount,
			CacheHit:    cacheHit,
			SearchedAt:  time.Now().UTC(),
		})
		if err != nil {
			return
		}
		_ = s.bus.Publish(ctx, eventbus.SubjectGeocodeSearched, event)
	})
}

// normalizeQuery trims and collapses internal whitespace.
func normalizeQuery(raw string) string {
	return strings.Join(strings.Fields(raw), " ")
}

// parseCoordinateLiteral short-circuits queries that are already a
// "lat,lon" pair inside the valid coordinate ranges.
func parseCoordinateLiteral(query string) (Result, bool) {
	parts := strings.Split(strings.ReplaceAll(query, " ", ""), ",")
	if len(parts) != 2 {
		return Result{}, false
	}

	lat, latErr := strconv.ParseFloat(parts[0], 64)
	lon, lonErr := strconv.ParseFloat(parts[1], 64)
	if latErr != nil || lonErr != nil {
		return Result{}, false
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return Result{}, false
	}

	return Result{
		DisplayName: query,
		Lat:         lat,
		Lon:         lon,
		Type:        "coordinate",
		H3Cell:      placeCell(lat, lon),
	}, true
}
