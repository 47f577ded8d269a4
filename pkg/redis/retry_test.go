package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	redislib "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockClient(t *testing.T) (*Client, redismock.ClientMock) {
	t.Helper()
	db, mock := redismock.NewClientMock()
	return &Client{Client: db}, mock
}

func TestRetryableGet_RecoversFromTimeout(t *testing.T) {
	client, mock := newMockClient(t)
	mock.ExpectGet("route:key").SetErr(errors.New("i/o timeout"))
	mock.ExpectGet("route:key").SetVal("cached")

	val, err := client.RetryableGet(context.Background(), "route:key")
	require.NoError(t, err)
	assert.Equal(t, "cached", val)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRetryableGet_MissIsNotRetried(t *testing.T) {
	client, mock := newMockClient(t)
	mock.ExpectGet("route:missing").RedisNil()

	_, err := client.RetryableGet(context.Background(), "route:missing")
	assert.ErrorIs(t, err, redislib.Nil)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRetryableSet_RecoversFromConnectionReset(t *testing.T) {
	client, mock := newMockClient(t)
	mock.ExpectSet("geocode:корзо", "payload", time.Minute).SetErr(errors.New("connection reset"))
	mock.ExpectSet("geocode:корзо", "payload", time.Minute).SetVal("OK")

	err := client.RetryableSet(context.Background(), "geocode:корзо", "payload", time.Minute)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRetryableDelete(t *testing.T) {
	client, mock := newMockClient(t)
	mock.ExpectDel("share:abc").SetVal(1)

	require.NoError(t, client.RetryableDelete(context.Background(), "share:abc"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsRedisRetryable(t *testing.T) {
	assert.False(t, isRedisRetryable(nil))
	assert.False(t, isRedisRetryable(context.Canceled))
	assert.False(t, isRedisRetryable(redislib.Nil))
	assert.False(t, isRedisRetryable(errors.New("WRONGTYPE Operation against a key")))
	assert.True(t, isRedisRetryable(errors.New("dial tcp: i/o timeout")))
	assert.True(t, isRedisRetryable(errors.New("LOADING Redis is loading the dataset")))
}
