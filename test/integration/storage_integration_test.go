package integration

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uzhroute/uzhroute/internal/history"
	"github.com/uzhroute/uzhroute/internal/places"
	"github.com/uzhroute/uzhroute/test/helpers"
)

func TestSavedPlacesRoundTrip(t *testing.T) {
	pool := helpers.SetupTestDatabase(t)
	helpers.ResetTables(t, pool, "saved_places")

	repo := places.NewRepository(pool)
	ctx := context.Background()
	clientID := uuid.New()

	first := &places.SavedPlace{
		ID:        "nominatim-12345",
		ClientID:  clientID,
		Name:      "Корзо",
		Latitude:  48.6208,
		Longitude: 22.2879,
	}
	saved, created, err := repo.Save(ctx, first)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, first.ID, saved.ID)

	second := &places.SavedPlace{
		ID:        uuid.New().String(),
		ClientID:  clientID,
		Name:      "Ужгородський замок",
		Latitude:  48.6219,
		Longitude: 22.3052,
	}
	_, created, err = repo.Save(ctx, second)
	require.NoError(t, err)
	assert.True(t, created)

	list, err := repo.ListByClient(ctx, clientID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID, "most recent first")

	// Re-saving an existing id is a no-op: the stored row keeps its name
	// and its position in the list.
	resave := &places.SavedPlace{
		ID:        "nominatim-12345",
		ClientID:  clientID,
		Name:      "Корзо (нова назва)",
		Latitude:  48.6208,
		Longitude: 22.2879,
	}
	saved, created, err = repo.Save(ctx, resave)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "Корзо", saved.Name)

	list, err = repo.ListByClient(ctx, clientID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID, "existing entry did not move")
	assert.Equal(t, "Корзо", list[1].Name)

	// A different id at identical coordinates is also a no-op.
	duplicate := &places.SavedPlace{
		ID:        uuid.New().String(),
		ClientID:  clientID,
		Name:      "Корзо (знову)",
		Latitude:  48.6208,
		Longitude: 22.2879,
	}
	saved, created, err = repo.Save(ctx, duplicate)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "nominatim-12345", saved.ID)

	list, err = repo.ListByClient(ctx, clientID)
	require.NoError(t, err)
	require.Len(t, list, 2)

	require.NoError(t, repo.Delete(ctx, clientID, second.ID))
	assert.ErrorIs(t, repo.Delete(ctx, clientID, second.ID), places.ErrNotFound)

	// Places are scoped per client.
	otherList, err := repo.ListByClient(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, otherList)
}

func TestRecentRoutesDedupeAndTrim(t *testing.T) {
	pool := helpers.SetupTestDatabase(t)
	helpers.ResetTables(t, pool, "recent_routes")

	repo := history.NewRepository(pool)
	ctx := context.Background()
	clientID := uuid.New()

	record := func(startLat float64, createdAt time.Time) *history.RecentRoute {
		return &history.RecentRoute{
			ID:              uuid.New(),
			ClientID:        clientID,
			Start:           history.Endpoint{Lat: startLat, Lon: 22.28, Label: "A"},
			End:             history.Endpoint{Lat: 48.63, Lon: 22.31, Label: "B"},
			Profile:         "car",
			DistanceMeters:  2100,
			DurationSeconds: 240,
			CreatedAt:       createdAt,
		}
	}

	base := time.Now().UTC()

	// Identical (start, end, profile) re-recorded: one row, moved to front.
	require.NoError(t, repo.Record(ctx, record(48.62, base)))
	require.NoError(t, repo.Record(ctx, record(48.62, base.Add(time.Second))))

	list, err := repo.ListByClient(ctx, clientID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	// The list is capped: recording more than the cap drops the oldest.
	for i := 0; i < 12; i++ {
		entry := record(48.7+float64(i)/1000, base.Add(time.Duration(i+2)*time.Second))
		require.NoError(t, repo.Record(ctx, entry))
	}

	list, err = repo.ListByClient(ctx, clientID)
	require.NoError(t, err)
	require.Len(t, list, 10)
	assert.Equal(t, 48.711, list[0].Start.Lat, "newest entry first")

	require.NoError(t, repo.ClearByClient(ctx, clientID))
	list, err = repo.ListByClient(ctx, clientID)
	require.NoError(t, err)
	assert.Empty(t, list)
}
