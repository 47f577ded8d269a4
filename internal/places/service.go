package places

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/uzhroute/uzhroute/pkg/async"
	"github.com/uzhroute/uzhroute/pkg/eventbus"
)

// Service handles business logic for saved places
type Service struct {
	repo RepositoryInterface
	bus  *eventbus.Bus
}

// NewService creates a new saved places service. bus may be nil.
func NewService(repo RepositoryInterface, bus *eventbus.Bus) *Service {
	return &Service{repo: repo, bus: bus}
}

// List returns a client's saved places, most recent first.
func (s *Service) List(ctx context.Context, clientID uuid.UUID) ([]*SavedPlace, error) {
	return s.repo.ListByClient(ctx, clientID)
}

// Save stores a place for a client. When an entry with the same id or the
// same exact coordinates already exists the save is a no-op and the existing
// entry is returned unchanged. A missing id gets a generated one.
func (s *Service) Save(ctx context.Context, clientID uuid.UUID, id, name string, latitude, longitude float64) (*SavedPlace, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidName
	}

	if latitude < -90 || latitude > 90 || longitude < -180 || longitude > 180 {
		return nil, ErrInvalidCoordinates
	}

	if strings.TrimSpace(id) == "" {
		id = uuid.NewString()
	}

	place := &SavedPlace{
		ID:        id,
		ClientID:  clientID,
		Name:      name,
		Latitude:  latitude,
		Longitude: longitude,
	}

	saved, created, err := s.repo.Save(ctx, place)
	if err != nil {
		return nil, err
	}

	if created {
		s.publishSaved(ctx, saved)
	}
	return saved, nil
}

// Remove deletes one saved place.
func (s *Service) Remove(ctx context.Context, clientID uuid.UUID, id string) error {
	if err := s.repo.Delete(ctx, clientID, id); err != nil {
		return err
	}

	s.publishRemoved(ctx, id)
	return nil
}

func (s *Service) publishSaved(ctx context.Context, place *SavedPlace) {
	if s.bus == nil || !s.bus.Connected() {
		return
	}

	async.Go(ctx, "publish-place-saved", func(ctx context.Context) {
		event, err := eventbus.NewEvent(eventbus.SubjectPlaceSaved, "places", eventbus.PlaceSavedData{
			PlaceID:   place.ID,
			Name:      place.Name,
			Latitude:  place.Latitude,
			Longitude: place.Longitude,
			SavedAt:   time.Now().UTC(),
		})
		if err != nil {
			return
		}
		_ = s.bus.Publish(ctx, eventbus.SubjectPlaceSaved, event)
	})
}

func (s *Service) publishRemoved(ctx context.Context, id string) {
	if s.bus == nil || !s.bus.Connected() {
		return
	}

	async.Go(ctx, "publish-place-removed", func(ctx context.Context) {
		event, err := eventbus.NewEvent(eventbus.SubjectPlaceRemoved, "places", eventbus.PlaceRemovedData{
			PlaceID:   id,
			RemovedAt: time.Now().UTC(),
		})
		if err != nil {
			return
		}
		_ = s.bus.Publish(ctx, eventbus.SubjectPlaceRemoved, event)
	})
}
