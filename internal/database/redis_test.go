package database

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisJSONRoundTripAndExpiry(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	cache := NewRedis(client, "cashier")
	require.NoError(t, cache.HealthCheck(ctx))

	type payload struct {
		Name string `json:"name"`
	}

	var got payload
	assert.ErrorIs(t, cache.GetJSON(ctx, "k", &got), ErrCacheMiss)

	require.NoError(t, cache.SetJSON(ctx, "k", payload{Name: "value"}, time.Minute))
	assert.True(t, mr.Exists("cashier:k"))

	require.NoError(t, cache.GetJSON(ctx, "k", &got))
	assert.Equal(t, "value", got.Name)

	mr.FastForward(2 * time.Minute)
	assert.ErrorIs(t, cache.GetJSON(ctx, "k", &got), ErrCacheMiss)

	require.NoError(t, cache.SetJSON(ctx, "k", payload{Name: "again"}, time.Minute))
	require.NoError(t, cache.Delete(ctx, "k"))
	assert.ErrorIs(t, cache.GetJSON(ctx, "k", &got), ErrCacheMiss)
}
