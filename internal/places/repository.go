package places

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/uzhroute/uzhroute/pkg/database"
)

// SavedPlace is one entry in a client's saved places list. The ID is
// client-visible and may originate from the geocoder, so it is free-form
// text rather than a UUID.
type SavedPlace struct {
	ID        string    `json:"id"`
	ClientID  uuid.UUID `json:"-"`
	Name      string    `json:"name"`
	Latitude  float64   `json:"lat"`
	Longitude float64   `json:"lon"`
	CreatedAt time.Time `json:"createdAt"`
}

// RepositoryInterface abstracts storage for the service layer
type RepositoryInterface interface {
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]*SavedPlace, error)
	Save(ctx context.Context, place *SavedPlace) (*SavedPlace, bool, error)
	Delete(ctx context.Context, clientID uuid.UUID, id string) error
}

// Repository handles database operations for saved places
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new saved places repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// ListByClient retrieves a client's saved places, most recent first.
func (r *Repository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]*SavedPlace, error) {
	query := `
		SELECT id, client_id, name, latitude, longitude, created_at
		FROM saved_places
		WHERE client_id = $1
		ORDER BY created_at DESC
	`

	places, err := database.RetryableQuery(ctx, r.db, query, []interface{}{clientID}, func(rows pgx.Rows) ([]*SavedPlace, error) {
		places := make([]*SavedPlace, 0)
		for rows.Next() {
			place := &SavedPlace{}
			err := rows.Scan(
				&place.ID,
				&place.ClientID,
				&place.Name,
				&place.Latitude,
				&place.Longitude,
				&place.CreatedAt,
			)
			if err != nil {
				return nil, fmt.Errorf("failed to scan saved place: %w", err)
			}
			places = append(places, place)
		}
		return places, rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list saved places: %w", err)
	}

	return places, nil
}

// Save inserts a place unless the client already has one with the same id
// or the same exact coordinate pair. A duplicate save keeps the existing
// row unchanged and returns it; the bool reports whether a row was
// inserted.
func (r *Repository) Save(ctx context.Context, place *SavedPlace) (*SavedPlace, bool, error) {
	var (
		saved   *SavedPlace
		created bool
	)

	err := database.RetryableTransaction(ctx, r.db, func(tx pgx.Tx) error {
		saved, created = nil, false

		existingQuery := `
			SELECT id, client_id, name, latitude, longitude, created_at
			FROM saved_places
			WHERE client_id = $1 AND (id = $2 OR (latitude = $3 AND longitude = $4))
			LIMIT 1
		`
		existing := &SavedPlace{}
		err := tx.QueryRow(ctx, existingQuery, place.ClientID, place.ID, place.Latitude, place.Longitude).Scan(
			&existing.ID,
			&existing.ClientID,
			&existing.Name,
			&existing.Latitude,
			&existing.Longitude,
			&existing.CreatedAt,
		)
		if err == nil {
			saved = existing
			return nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return err
		}

		place.CreatedAt = time.Now()
		insertQuery := `
			INSERT INTO saved_places (id, client_id, name, latitude, longitude, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`
		if _, err := tx.Exec(ctx, insertQuery,
			place.ID,
			place.ClientID,
			place.Name,
			place.Latitude,
			place.Longitude,
			place.CreatedAt,
		); err != nil {
			return err
		}

		saved, created = place, true
		return nil
	})

	if err != nil {
		return nil, false, fmt.Errorf("failed to save place: %w", err)
	}
	return saved, created, nil
}

// Delete removes one saved place for a client.
func (r *Repository) Delete(ctx context.Context, clientID uuid.UUID, id string) error {
	query := `DELETE FROM saved_places WHERE client_id = $1 AND id = $2`

	result, err := database.RetryableExec(ctx, r.db, query, clientID, id)
	if err != nil {
		return fmt.Errorf("failed to delete saved place: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}
