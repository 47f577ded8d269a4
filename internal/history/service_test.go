package history

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) ListByClient(ctx context.Context, clientID uuid.UUID) ([]*RecentRoute, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*RecentRoute), args.Error(1)
}

func (m *mockRepo) Record(ctx context.Context, route *RecentRoute) error {
	args := m.Called(ctx, route)
	return args.Error(0)
}

func (m *mockRepo) ClearByClient(ctx context.Context, clientID uuid.UUID) error {
	args := m.Called(ctx, clientID)
	return args.Error(0)
}

func validRoute() *RecentRoute {
	return &RecentRoute{
		Start:           Endpoint{Lat: 48.6208, Lon: 22.2879, Label: "Центр"},
		End:             Endpoint{Lat: 48.6217, Lon: 22.3051, Label: "Замок"},
		Profile:         "walk",
		DistanceMeters:  1700,
		DurationSeconds: 1224,
	}
}

func TestRecord_SetsClientID(t *testing.T) {
	repo := new(mockRepo)
	svc := NewService(repo)
	clientID := uuid.New()

	repo.On("Record", mock.Anything, mock.MatchedBy(func(r *RecentRoute) bool {
		return r.ClientID == clientID
	})).Return(nil)

	require.NoError(t, svc.Record(context.Background(), clientID, validRoute()))
	repo.AssertExpectations(t)
}

func TestRecord_RejectsInvalid(t *testing.T) {
	svc := NewService(new(mockRepo))
	clientID := uuid.New()

	assert.ErrorIs(t, svc.Record(context.Background(), clientID, nil), ErrInvalidRoute)

	badProfile := validRoute()
	badProfile.Profile = "cycling"
	assert.ErrorIs(t, svc.Record(context.Background(), clientID, badProfile), ErrInvalidRoute)

	negativeDistance := validRoute()
	negativeDistance.DistanceMeters = -1
	assert.ErrorIs(t, svc.Record(context.Background(), clientID, negativeDistance), ErrInvalidRoute)
}

func TestRecord_ZeroCoordinateIsValid(t *testing.T) {
	repo := new(mockRepo)
	svc := NewService(repo)
	clientID := uuid.New()

	repo.On("Record", mock.Anything, mock.Anything).Return(nil)

	// Zero is inside the coordinate range and must not be mistaken for a
	// missing value.
	route := validRoute()
	route.End = Endpoint{Lat: 0, Lon: 0}
	require.NoError(t, svc.Record(context.Background(), clientID, route))

	outOfRange := validRoute()
	outOfRange.End.Lat = 90.1
	assert.ErrorIs(t, svc.Record(context.Background(), clientID, outOfRange), ErrInvalidRoute)
}

func TestList_PassesThrough(t *testing.T) {
	repo := new(mockRepo)
	svc := NewService(repo)
	clientID := uuid.New()

	expected := []*RecentRoute{validRoute()}
	repo.On("ListByClient", mock.Anything, clientID).Return(expected, nil)

	routes, err := svc.List(context.Background(), clientID)
	require.NoError(t, err)
	assert.Equal(t, expected, routes)
}

func TestClear(t *testing.T) {
	repo := new(mockRepo)
	svc := NewService(repo)
	clientID := uuid.New()

	repo.On("ClearByClient", mock.Anything, clientID).Return(nil)
	assert.NoError(t, svc.Clear(context.Background(), clientID))
}
