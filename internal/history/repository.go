package history

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/uzhroute/uzhroute/pkg/database"
)

// RepositoryInterface abstracts storage for the service layer
type RepositoryInterface interface {
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]*RecentRoute, error)
	Record(ctx context.Context, route *RecentRoute) error
	ClearByClient(ctx context.Context, clientID uuid.UUID) error
}

// Repository handles database operations for recent routes
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new recent routes repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// ListByClient retrieves a client's recent routes, most recent first.
func (r *Repository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]*RecentRoute, error) {
	query := `
		SELECT id, client_id, start_lat, start_lon, start_label,
		       end_lat, end_lon, end_label, profile,
		       distance_meters, duration_seconds, created_at
		FROM recent_routes
		WHERE client_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	routes, err := database.RetryableQuery(ctx, r.db, query, []interface{}{clientID, maxRecent}, func(rows pgx.Rows) ([]*RecentRoute, error) {
		routes := make([]*RecentRoute, 0)
		for rows.Next() {
			route := &RecentRoute{}
			err := rows.Scan(
				&route.ID,
				&route.ClientID,
				&route.Start.Lat,
				&route.Start.Lon,
				&route.Start.Label,
				&route.End.Lat,
				&route.End.Lon,
				&route.End.Label,
				&route.Profile,
				&route.DistanceMeters,
				&route.DurationSeconds,
				&route.CreatedAt,
			)
			if err != nil {
				return nil, fmt.Errorf("failed to scan recent route: %w", err)
			}
			routes = append(routes, route)
		}
		return routes, rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list recent routes: %w", err)
	}

	return routes, nil
}

// Record inserts a route at the front of the list. A prior entry with the
// same (start, end, profile) is removed first, and entries beyond the bound
// are trimmed.
func (r *Repository) Record(ctx context.Context, route *RecentRoute) error {
	route.ID = uuid.New()
	route.CreatedAt = time.Now()

	err := database.RetryableTransaction(ctx, r.db, func(tx pgx.Tx) error {
		dedupeQuery := `
			DELETE FROM recent_routes
			WHERE client_id = $1
			  AND start_lat = $2 AND start_lon = $3
			  AND end_lat = $4 AND end_lon = $5
			  AND profile = $6
		`
		if _, err := tx.Exec(ctx, dedupeQuery,
			route.ClientID,
			route.Start.Lat, route.Start.Lon,
			route.End.Lat, route.End.Lon,
			route.Profile,
		); err != nil {
			return err
		}

		insertQuery := `
			INSERT INTO recent_routes (
				id, client_id, start_lat, start_lon, start_label,
				end_lat, end_lon, end_label, profile,
				distance_meters, duration_seconds, created_at
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		`
		if _, err := tx.Exec(ctx, insertQuery,
			route.ID,
			route.ClientID,
			route.Start.Lat, route.Start.Lon, route.Start.Label,
			route.End.Lat, route.End.Lon, route.End.Label,
			route.Profile,
			route.DistanceMeters, route.DurationSeconds,
			route.CreatedAt,
		); err != nil {
			return err
		}

		trimQuery := `
			DELETE FROM recent_routes
			WHERE client_id = $1 AND id NOT IN (
				SELECT id FROM recent_routes
				WHERE client_id = $1
				ORDER BY created_at DESC
				LIMIT $2
			)
		`
		_, err := tx.Exec(ctx, trimQuery, route.ClientID, maxRecent)
		return err
	})

	if err != nil {
		return fmt.Errorf("failed to record recent route: %w", err)
	}
	return nil
}

// ClearByClient removes a client's entire history.
func (r *Repository) ClearByClient(ctx context.Context, clientID uuid.UUID) error {
	if _, err := database.RetryableExec(ctx, r.db, `DELETE FROM recent_routes WHERE client_id = $1`, clientID); err != nil {
		return fmt.Errorf("failed to clear recent routes: %w", err)
	}
	return nil
}
