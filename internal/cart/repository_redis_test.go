package cart

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRedis struct {
	data map[string]string
	ttls map[string]time.Duration
	err  error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	f.data[key] = fmt.Sprintf("%s", value)
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func TestRedisRepositoryRoundTrip(t *testing.T) {
	client := newFakeRedis()
	repo := NewRedisRepository(client, time.Hour)
	ctx := context.Background()

	c, err := repo.Get(ctx, 10)
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
	assert.Equal(t, int64(10), c.UserID)

	c.RestaurantID = 5
	c.Items[100] = 2
	require.NoError(t, repo.Save(ctx, c))
	assert.Contains(t, client.data, "cart:user:10")
	assert.Equal(t, time.Hour, client.ttls["cart:user:10"])

	got, err := repo.Get(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.RestaurantID)
	assert.Equal(t, map[int64]int{100: 2}, got.Items)

	require.NoError(t, repo.Clear(ctx, 10))
	got, err = repo.Get(ctx, 10)
	require.NoError(t, err)
	assert.True(t, got.IsEmpty())
}

func TestRedisRepositoryGetError(t *testing.T) {
	client := newFakeRedis()
	client.err = errors.New("connection refused")

	_, err := NewRedisRepository(client, time.Hour).Get(context.Background(), 10)
	assert.ErrorContains(t, err, "connection refused")
}
