package history

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/uzhroute/uzhroute/pkg/validation"
)

// ErrInvalidRoute is returned when a record misses required fields
var ErrInvalidRoute = errors.New("invalid recent route record")

// Service handles business logic for the recent routes list
type Service struct {
	repo RepositoryInterface
}

// NewService creates a new recent routes service
func NewService(repo RepositoryInterface) *Service {
	return &Service{repo: repo}
}

// List returns the client's recent routes, most recent first.
func (s *Service) List(ctx context.Context, clientID uuid.UUID) ([]*RecentRoute, error) {
	return s.repo.ListByClient(ctx, clientID)
}

// Record appends a successful route to the client's history.
func (s *Service) Record(ctx context.Context, clientID uuid.UUID, route *RecentRoute) error {
	if route == nil {
		return ErrInvalidRoute
	}
	if err := validation.Validate.Struct(route); err != nil {
		return ErrInvalidRoute
	}

	route.ClientID = clientID
	return s.repo.Record(ctx, route)
}

// Clear wipes the client's history.
func (s *Service) Clear(ctx context.Context, clientID uuid.UUID) error {
	return s.repo.ClearByClient(ctx, clientID)
}
