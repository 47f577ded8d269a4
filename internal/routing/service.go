package routing

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/uzhroute/uzhroute/pkg/async"
	"github.com/uzhroute/uzhroute/pkg/cache"
	"github.com/uzhroute/uzhroute/pkg/common"
	"github.com/uzhroute/uzhroute/pkg/config"
	"github.com/uzhroute/uzhroute/pkg/eventbus"
	"github.com/uzhroute/uzhroute/pkg/geo"
	"github.com/uzhroute/uzhroute/pkg/logger"
	"github.com/uzhroute/uzhroute/pkg/resilience"
)

// walkFallbackWarning is attached when a walking route had to be synthesized
// from a driving route.
const walkFallbackWarning = "Пішохідний профіль недоступний. Показано альтернативний маршрут."

var errProviderUnavailable = errors.New("provider unavailable")

// directionsAdapter is a single OSRM-compatible upstream. Adapters only
// signal soft failure; they never return errors.
type directionsAdapter interface {
	Name() string
	FetchRoute(ctx context.Context, profileName string, start, end GeoPoint) (*osrmRoute, bool)
}

// walkingAdapter is the key-gated alternate walking service.
type walkingAdapter interface {
	Name() string
	Enabled() bool
	FetchWalking(ctx context.Context, start, end GeoPoint) (*osrmRoute, bool)
}

// Service orchestrates the provider fallback chain and owns normalization.
// It is the only layer that turns exhausted fallbacks into a "no route"
// error.
type Service struct {
	car      directionsAdapter
	foot     directionsAdapter
	walking  walkingAdapter
	cache    *cache.Manager
	bus      *eventbus.Bus
	breakers map[string]*resilience.CircuitBreaker
	cacheTTL time.Duration
}

// NewService wires the adapters from configuration. cacheManager and bus may
// be nil; both concerns degrade to no-ops.
func NewService(cfg *config.Config, cacheManager *cache.Manager, bus *eventbus.Bus) *Service {
	timeout := time.Duration(cfg.Routing.TimeoutSeconds) * time.Second

	s := &Service{
		car:      newOSRMAdapter("osrm", cfg.Routing.OSRMBaseURL, cfg.Routing.UserAgent, timeout),
		foot:     newOSRMAdapter("osrm-foot", cfg.Routing.OSRMFootBaseURL, cfg.Routing.UserAgent, timeout),
		walking:  newORSAdapter(cfg.Routing.ORSBaseURL, cfg.Routing.ORSAPIKey, timeout),
		cache:    cacheManager,
		bus:      bus,
		breakers: make(map[string]*resilience.CircuitBreaker),
		cacheTTL: time.Duration(cfg.Routing.CacheTTLSeconds) * time.Second,
	}

	if cfg.Resilience.CircuitBreaker.Enabled {
		s.initCircuitBreakers(cfg.Resilience.CircuitBreaker)
	}

	return s
}

func (s *Service) initCircuitBreakers(cfg config.CircuitBreakerConfig) {
	for _, name := range []string{s.car.Name(), s.foot.Name(), s.walking.Name()} {
		settings := cfg.SettingsFor(name)
		s.breakers[name] = resilience.NewCircuitBreaker(
			resilience.BuildSettings(
				"routing-"+name,
				settings.IntervalSeconds,
				settings.TimeoutSeconds,
				uint32(settings.FailureThreshold),
				uint32(settings.SuccessThreshold),
			),
			nil,
		)
	}
}

// Route resolves a query through the provider chain. The returned error is
// either a not-found AppError when every attempt failed, or nil.
func (s *Service) Route(ctx context.Context, q Query) (*Route, error) {
	if s.cache != nil {
		key := cache.Keys.Route(q.Start.Lat, q.Start.Lon, q.End.Lat, q.End.Lon, string(q.Profile))
		var cached Route
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			routeCacheHitsTotal.WithLabelValues("hit").Inc()
			return &cached, nil
		}
		routeCacheHitsTotal.WithLabelValues("miss").Inc()
	}

	var route *Route
	if q.Profile == ProfileWalk {
		route = s.routeWalk(ctx, q)
	} else {
		route = s.routeCar(ctx, q)
	}

	if route == nil {
		routeRequestsTotal.WithLabelValues(string(q.Profile), "not_found").Inc()
		s.publishFailure(ctx, q)
		return nil, common.NewNotFoundError("no route found", nil)
	}

	routeRequestsTotal.WithLabelValues(string(q.Profile), "ok").Inc()
	s.storeInCache(ctx, q, route)
	s.publishSuccess(ctx, q, route)
	return route, nil
}

func (s *Service) routeCar(ctx context.Context, q Query) *Route {
	raw, ok := s.attempt(ctx, s.car, "driving", q)
	if !ok {
		return nil
	}
	return normalize(raw, ProviderOSRM, ProfileCar, nil)
}

// routeWalk walks the pedestrian chain in priority order: the dedicated
// pedestrian server under its three known profile names, then the alternate
// walking service, then a driving route with a recalculated walking time.
func (s *Service) routeWalk(ctx context.Context, q Query) *Route {
	for _, profileName := range []string{"walking", "foot", "driving"} {
		if raw, ok := s.attempt(ctx, s.foot, profileName, q); ok {
			return normalize(raw, ProviderOSRM, ProfileWalk, nil)
		}
	}

	if s.walking.Enabled() {
		if raw, ok := s.attemptWalking(ctx, q); ok {
			return normalize(raw, ProviderORS, ProfileWalk, nil)
		}
	}

	raw, ok := s.attempt(ctx, s.car, "driving", q)
	if !ok {
		return nil
	}

	routeFallbacksTotal.Inc()
	route := normalize(raw, ProviderOSRM, ProfileWalk, []string{walkFallbackWarning})
	route.DurationSeconds = geo.WalkingDuration(route.DistanceMeters)
	route.Duration = route.DurationSeconds
	return route
}

// attempt runs one adapter call, through its circuit breaker when one is
// configured. The soft-failure contract is preserved: the boolean is the
// only failure signal that leaves this method.
func (s *Service) attempt(ctx context.Context, adapter directionsAdapter, profileName string, q Query) (*osrmRoute, bool) {
	started := time.Now()
	raw, ok := s.guarded(ctx, adapter.Name(), func(ctx context.Context) (*osrmRoute, bool) {
		return adapter.FetchRoute(ctx, profileName, q.Start, q.End)
	})
	routeDurationSeconds.WithLabelValues(adapter.Name()).Observe(time.Since(started).Seconds())

	outcome := "ok"
	if !ok {
		outcome = "failed"
		logger.WithContext(ctx).Warn("routing provider failed",
			zap.String("adapter", adapter.Name()),
			zap.String("profile_name", profileName),
		)
	}
	routeProviderAttemptsTotal.WithLabelValues(adapter.Name(), profileName, outcome).Inc()
	return raw, ok
}

func (s *Service) attemptWalking(ctx context.Context, q Query) (*osrmRoute, bool) {
	started := time.Now()
	raw, ok := s.guarded(ctx, s.walking.Name(), func(ctx context.Context) (*osrmRoute, bool) {
		return s.walking.FetchWalking(ctx, q.Start, q.End)
	})
	routeDurationSeconds.WithLabelValues(s.walking.Name()).Observe(time.Since(started).Seconds())

	outcome := "ok"
	if !ok {
		outcome = "failed"
		logger.WithContext(ctx).Warn("routing provider failed",
			zap.String("adapter", s.walking.Name()),
			zap.String("profile_name", "foot-walking"),
		)
	}
	routeProviderAttemptsTotal.WithLabelValues(s.walking.Name(), "foot-walking", outcome).Inc()
	return raw, ok
}

func (s *Service) guarded(ctx context.Context, name string, fetch func(ctx context.Context) (*osrmRoute, bool)) (*osrmRoute, bool) {
	breaker, exists := s.breakers[name]
	if !exists {
		return fetch(ctx)
	}

	result, err := breaker.Execute(ctx, func(ctx context.Context) (interface{}, error) {
		raw, ok := fetch(ctx)
		if !ok {
			return nil, errProviderUnavailable
		}
		return raw, nil
	})
	if err != nil {
		return nil, false
	}
	return result.(*osrmRoute), true
}

func (s *Service) storeInCache(ctx context.Context, q Query, route *Route) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}
	key := cache.Keys.Route(q.Start.Lat, q.Start.Lon, q.End.Lat, q.End.Lon, string(q.Profile))
	if err := s.cache.Set(ctx, key, route, s.cacheTTL); err != nil {
		logger.WithContext(ctx).Debug("route cache write failed", zap.Error(err))
	}
}

func (s *Service) publishSuccess(ctx context.Context, q Query, route *Route) {
	if s.bus == nil || !s.bus.Connected() {
		return
	}

	async.Go(ctx, "publish-route-calculated", func(ctx context.Context) {
		event, err := eventbus.NewEvent(eventbus.SubjectRouteCalculated, "routing", eventbus.RouteCalculatedData{
			Provider:     string(route.Provider),
			Profile:      string(route.Profile),
			StartLat:     q.Start.Lat,
			StartLon:     q.Start.Lon,
			EndLat:       q.End.Lat,
			EndLon:       q.End.Lon,
			DistanceM:    route.DistanceMeters,
			DurationS:    route.DurationSeconds,
			Fallback:     route.Fallback,
			CalculatedAt: time.Now().UTC(),
		})
		if err != nil {
			return
		}
		_ = s.bus.Publish(ctx, eventbus.SubjectRouteCalculated, event)
	})
}

func (s *Service) publishFailure(ctx context.Context, q Query) {
	if s.bus == nil || !s.bus.Connected() {
		return
	}

	async.Go(ctx, "publish-route-failed", func(ctx context.Context) {
		event, err := eventbus.NewEvent(eventbus.SubjectRouteFailed, "routing", eventbus.RouteFailedData{
			Profile:  string(q.Profile),
			StartLat: q.Start.Lat,
			StartLon: q.Start.Lon,
			EndLat:   q.End.Lat,
			EndLon:   q.End.Lon,
			FailedAt: time.Now().UTC(),
		})
		if err != nil {
			return
		}
		_ = s.bus.Publish(ctx, eventbus.SubjectRouteFailed, event)
	})
}

// normalize flattens every leg's steps into one ordered sequence and fills
// missing instruction text from the maneuver table. Warnings are attached
// only when non-empty, and the fallback flag mirrors their presence.
func normalize(raw *osrmRoute, provider Provider, profile Profile, warnings []string) *Route {
	steps := make([]Step, 0)
	for _, leg := range raw.Legs {
		for _, rawStep := range leg.Steps {
			step := Step{
				DistanceMeters:  rawStep.Distance,
				DurationSeconds: rawStep.Duration,
				RoadName:        rawStep.Name,
			}
			if rawStep.Maneuver != nil {
				if rawStep.Maneuver.Type != "" {
					step.Maneuver = &Maneuver{
						Type:     rawStep.Maneuver.Type,
						Modifier: rawStep.Maneuver.Modifier,
					}
				}
				step.Instruction = rawStep.Maneuver.Instruction
			}
			if step.Instruction == "" {
				step.Instruction = FormatManeuver(step.Maneuver)
			}
			steps = append(steps, step)
		}
	}

	route := &Route{
		Provider:        provider,
		Profile:         profile,
		Geometry:        Geometry(raw.Geometry.Coordinates),
		DistanceMeters:  raw.Distance,
		DurationSeconds: raw.Duration,
		Steps:           steps,
		Distance:        raw.Distance,
		Duration:        raw.Duration,
	}

	if len(warnings) > 0 {
		route.Warnings = warnings
		route.Fallback = true
	}

	return route
}
