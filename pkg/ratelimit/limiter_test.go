package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uzhroute/uzhroute/pkg/config"
)

func testRateLimitConfig() config.RateLimitConfig {
	return config.RateLimitConfig{
		Enabled:       true,
		WindowSeconds: 60,
		DefaultLimit:  60,
		DefaultBurst:  10,
		RedisPrefix:   "rl",
		EndpointOverrides: map[string]config.EndpointRateLimitConfig{
			"route": {Limit: 30, Burst: 5, WindowSeconds: 30},
		},
	}
}

func TestRuleForDefaults(t *testing.T) {
	limiter := NewLimiter(nil, testRateLimitConfig())

	rule := limiter.RuleFor("geocode")
	assert.Equal(t, 60, rule.Limit)
	assert.Equal(t, 10, rule.Burst)
	assert.Equal(t, time.Minute, rule.Window)
}

func TestRuleForEndpointOverride(t *testing.T) {
	limiter := NewLimiter(nil, testRateLimitConfig())

	rule := limiter.RuleFor("route")
	assert.Equal(t, 30, rule.Limit)
	assert.Equal(t, 5, rule.Burst)
	assert.Equal(t, 30*time.Second, rule.Window)
}

func TestAllowDisabledSkipsRedis(t *testing.T) {
	cfg := testRateLimitConfig()
	cfg.Enabled = false
	limiter := NewLimiter(nil, cfg)

	result, err := limiter.Allow(context.Background(), "route", "1.2.3.4", Rule{Limit: 30, Window: time.Minute})
	require.NoError(t, err)
	assert.True(t, result.Allowed)
}

func TestAllowTokenAvailable(t *testing.T) {
	client, mock := redismock.NewClientMock()
	limiter := NewLimiter(client, testRateLimitConfig())

	now := time.UnixMilli(1700000000000)
	limiter.WithNow(func() time.Time { return now })

	rule := Rule{Limit: 60, Burst: 10, Window: time.Minute}
	refillRate := float64(rule.Limit) / float64(rule.Window.Milliseconds())
	capacity := float64(rule.Limit + rule.Burst)

	hash := redis.NewScript(tokenBucketScript).Hash()
	mock.ExpectEvalSha(hash, []string{"rl:route:1.2.3.4"},
		now.UnixMilli(), formatFloat(refillRate), formatFloat(capacity), rule.Window.Milliseconds()*2,
	).SetVal([]interface{}{int64(1), "69", int64(0)})

	result, err := limiter.Allow(context.Background(), "route", "1.2.3.4", rule)
	require.NoError(t, err)
	assert.True(t, result.Allowed)
	assert.Equal(t, 69, result.Remaining)
	assert.Equal(t, time.Duration(0), result.RetryAfter)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAllowBucketExhausted(t *testing.T) {
	client, mock := redismock.NewClientMock()
	limiter := NewLimiter(client, testRateLimitConfig())

	now := time.UnixMilli(1700000000000)
	limiter.WithNow(func() time.Time { return now })

	rule := Rule{Limit: 60, Burst: 10, Window: time.Minute}
	refillRate := float64(rule.Limit) / float64(rule.Window.Milliseconds())
	capacity := float64(rule.Limit + rule.Burst)

	hash := redis.NewScript(tokenBucketScript).Hash()
	mock.ExpectEvalSha(hash, []string{"rl:route:1.2.3.4"},
		now.UnixMilli(), formatFloat(refillRate), formatFloat(capacity), rule.Window.Milliseconds()*2,
	).SetVal([]interface{}{int64(0), "0", int64(500)})

	result, err := limiter.Allow(context.Background(), "route", "1.2.3.4", rule)
	require.NoError(t, err)
	assert.False(t, result.Allowed)
	assert.Equal(t, 0, result.Remaining)
	assert.Equal(t, 500*time.Millisecond, result.RetryAfter)
	assert.NoError(t, mock.ExpectationsWereMet())
}
