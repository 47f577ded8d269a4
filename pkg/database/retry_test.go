package database

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyExecPool fails the first n Exec calls with err, then succeeds.
type flakyExecPool struct {
	failures int
	calls    int
	err      error
}

func (p *flakyExecPool) Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	p.calls++
	if p.calls <= p.failures {
		return pgconn.CommandTag{}, p.err
	}
	return pgconn.NewCommandTag("DELETE 1"), nil
}

func TestRetryableExec_RecoversFromSerializationFailure(t *testing.T) {
	pool := &flakyExecPool{failures: 1, err: &pgconn.PgError{Code: "40001"}}

	tag, err := RetryableExec(context.Background(), pool, "DELETE FROM saved_places WHERE client_id = $1", "x")
	require.NoError(t, err)
	assert.Equal(t, int64(1), tag.RowsAffected())
	assert.Equal(t, 2, pool.calls)
}

func TestRetryableExec_ConstraintViolationFailsFast(t *testing.T) {
	pool := &flakyExecPool{failures: 3, err: &pgconn.PgError{Code: "23505"}}

	_, err := RetryableExec(context.Background(), pool, "INSERT INTO saved_places DEFAULT VALUES")
	require.Error(t, err)
	assert.Equal(t, 1, pool.calls)
}

func TestIsPostgresRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"context cancelled", context.Canceled, false},
		{"no rows", pgx.ErrNoRows, false},
		{"deadlock", &pgconn.PgError{Code: "40P01"}, true},
		{"too many connections", &pgconn.PgError{Code: "53300"}, true},
		{"unique violation", &pgconn.PgError{Code: "23505"}, false},
		{"syntax error", &pgconn.PgError{Code: "42601"}, false},
		{"connection refused", errors.New("dial tcp: connection refused"), true},
		{"unknown", errors.New("something else"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isPostgresRetryable(tt.err))
		})
	}
}
