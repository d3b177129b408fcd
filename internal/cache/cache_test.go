package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kdv2001/authd/internal/domain"
)

func testView(username string) domain.UserView {
	return domain.UserView{
		ID:       uuid.New(),
		Username: username,
		Account:  10.5,
	}
}

func newRedisBacked(t *testing.T, cfg Config) (*Cache, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return New(cfg, client), mr
}

func TestCache_LocalRoundTrip(t *testing.T) {
	c := New(Config{}, nil)
	ctx := context.Background()
	view := testView("alice")

	c.Store(ctx, "token-a", view, time.Now().Add(time.Hour))

	got, ok := c.Lookup(ctx, "token-a")
	require.True(t, ok)
	assert.Equal(t, view, got)

	_, ok = c.Lookup(ctx, "token-b")
	assert.False(t, ok)
}

func TestCache_LocalBound(t *testing.T) {
	c := New(Config{LocalSize: 2}, nil)
	ctx := context.Background()
	exp := time.Now().Add(time.Hour)

	c.Store(ctx, "t1", testView("u1"), exp)
	c.Store(ctx, "t2", testView("u2"), exp)
	c.Store(ctx, "t3", testView("u3"), exp)

	assert.Equal(t, 2, c.local.len())

	// t1 самый старый и должен быть вытеснен
	_, ok := c.Lookup(ctx, "t1")
	assert.False(t, ok)
	_, ok = c.Lookup(ctx, "t3")
	assert.True(t, ok)
}

func TestCache_LocalLRUOrder(t *testing.T) {
	c := New(Config{LocalSize: 2}, nil)
	ctx := context.Background()
	exp := time.Now().Add(time.Hour)

	c.Store(ctx, "t1", testView("u1"), exp)
	c.Store(ctx, "t2", testView("u2"), exp)

	// обращение к t1 делает вытесняемым t2
	_, ok := c.Lookup(ctx, "t1")
	require.True(t, ok)

	c.Store(ctx, "t3", testView("u3"), exp)

	_, ok = c.Lookup(ctx, "t2")
	assert.False(t, ok)
	_, ok = c.Lookup(ctx, "t1")
	assert.True(t, ok)
}

func TestCache_DeadlineExpiry(t *testing.T) {
	c := New(Config{TTL: time.Minute}, nil)
	ctx := context.Background()

	base := time.Now()
	c.now = func() time.Time { return base }
	c.Store(ctx, "t1", testView("u1"), base.Add(time.Hour))

	c.now = func() time.Time { return base.Add(2 * time.Minute) }
	_, ok := c.Lookup(ctx, "t1")
	assert.False(t, ok)
}

func TestCache_DeadlineClampedToTokenExpiry(t *testing.T) {
	c := New(Config{TTL: time.Hour}, nil)
	ctx := context.Background()

	base := time.Now()
	c.now = func() time.Time { return base }
	// токен истекает раньше, чем TTL кеша
	c.Store(ctx, "t1", testView("u1"), base.Add(time.Minute))

	c.now = func() time.Time { return base.Add(2 * time.Minute) }
	_, ok := c.Lookup(ctx, "t1")
	assert.False(t, ok, "cache entry must not outlive its token")
}

func TestCache_ExpiredTokenNotStored(t *testing.T) {
	c := New(Config{}, nil)
	ctx := context.Background()

	c.Store(ctx, "t1", testView("u1"), time.Now().Add(-time.Minute))

	_, ok := c.Lookup(ctx, "t1")
	assert.False(t, ok)
	assert.Equal(t, 0, c.local.len())
}

func TestCache_SharedTierHit(t *testing.T) {
	c, _ := newRedisBacked(t, Config{})
	ctx := context.Background()
	view := testView("alice")

	c.Store(ctx, "t1", view, time.Now().Add(time.Hour))

	// сбрасываем процессный уровень: второй экземпляр видит запись через redis
	c.local = newLocalCache(defaultLocalSize)

	got, ok := c.Lookup(ctx, "t1")
	require.True(t, ok)
	assert.Equal(t, view, got)

	// попадание прогрело процессный уровень
	assert.Equal(t, 1, c.local.len())
}

func TestCache_SharedTierRespectsTokenExpiry(t *testing.T) {
	c, _ := newRedisBacked(t, Config{TTL: time.Hour})
	ctx := context.Background()

	base := time.Now()
	c.now = func() time.Time { return base }
	c.Store(ctx, "t1", testView("u1"), base.Add(time.Minute))

	c.local = newLocalCache(defaultLocalSize)
	c.now = func() time.Time { return base.Add(2 * time.Minute) }

	_, ok := c.Lookup(ctx, "t1")
	assert.False(t, ok)
}

func TestCache_RedisDownIsMiss(t *testing.T) {
	c, mr := newRedisBacked(t, Config{})
	ctx := context.Background()
	view := testView("alice")

	mr.Close()

	// недоступность redis не должна ронять вызывающего
	c.Store(ctx, "t1", view, time.Now().Add(time.Hour))

	got, ok := c.Lookup(ctx, "t1")
	require.True(t, ok, "local tier still serves the entry")
	assert.Equal(t, view, got)

	c.local = newLocalCache(defaultLocalSize)
	_, ok = c.Lookup(ctx, "t1")
	assert.False(t, ok)
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c := New(Config{LocalSize: 64}, nil)
	ctx := context.Background()
	exp := time.Now().Add(time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				token := fmt.Sprintf("t%d", j%8)
				c.Store(ctx, token, testView("u"), exp)
				c.Lookup(ctx, token)
			}
		}(i)
	}
	wg.Wait()
}
