package poi

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/uzhroute/uzhroute/pkg/cache"
	"github.com/uzhroute/uzhroute/pkg/common"
	"github.com/uzhroute/uzhroute/pkg/config"
	"github.com/uzhroute/uzhroute/pkg/logger"
)

const maxLimit = 50

// fetcher is the upstream POI source contract.
type fetcher interface {
	FetchCategory(ctx context.Context, category Category, limit int) ([]POI, error)
}

// cacheStore is the subset of the cache manager the service needs.
type cacheStore interface {
	Get(ctx context.Context, key string, result interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// Service serves category pins with a shared cache in front of the upstream.
type Service struct {
	upstream fetcher
	cache    cacheStore
	cacheTTL time.Duration
}

// NewService wires the Nominatim POI source. cacheManager may be nil.
func NewService(cfg *config.Config, cacheManager *cache.Manager) *Service {
	s := &Service{
		upstream: newNominatimClient(cfg.Geocoding, cfg.City),
		cacheTTL: cache.TTL.POI(),
	}
	if cacheManager != nil {
		s.cache = cacheManager
	}
	return s
}

// ByCategory returns points of interest for one category, capped at the
// maximum pin count the map renders.
func (s *Service) ByCategory(ctx context.Context, category Category, limit int) ([]POI, error) {
	if !ValidCategory(category) {
		return nil, common.NewBadRequestError("invalid category", nil)
	}

	if limit <= 0 || limit > maxLimit {
		limit = maxLimit
	}

	key := cache.Keys.POI(string(category), limit)
	if s.cache != nil {
		var cached []POI
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return cached, nil
		}
	}

	pois, err := s.upstream.FetchCategory(ctx, category, limit)
	if err != nil {
		logger.WithContext(ctx).Warn("poi upstream failed",
			zap.String("category", string(category)),
			zap.Error(err),
		)
		return nil, common.NewUpstreamError("Не вдалося завантажити POI (Nominatim). Спробуйте пізніше.", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, pois, s.cacheTTL); err != nil {
			logger.WithContext(ctx).Debug("poi cache write failed", zap.Error(err))
		}
	}

	return pois, nil
}
