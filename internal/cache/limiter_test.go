package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestLimiterMiniredis(t *testing.T) {
	m, err := miniredis.Run()
	require.NoError(t, err)
	defer m.Close()

	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	defer client.Close()

	l := NewLimiter(client, "login", 2, time.Minute)
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		ok, err := l.Allow(ctx, "admin|1.2.3.4")
		require.NoError(t, err)
		require.True(t, ok)
	}
	ok, err := l.Allow(ctx, "admin|1.2.3.4")
	require.NoError(t, err)
	require.False(t, ok)

	// 其他鍵不受影響
	ok, err = l.Allow(ctx, "other|1.2.3.4")
	require.NoError(t, err)
	require.True(t, ok)

	m.FastForward(61 * time.Second)
	ok, err = l.Allow(ctx, "admin|1.2.3.4")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, time.Minute, l.Window())
}

func TestLimiterRepairsMissingExpiry(t *testing.T) {
	m, err := miniredis.Run()
	require.NoError(t, err)
	defer m.Close()

	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	defer client.Close()

	// 計數已存在但沒有到期時間
	require.NoError(t, m.Set("login:admin|1.2.3.4", "5"))
	require.Zero(t, m.TTL("login:admin|1.2.3.4"))

	l := NewLimiter(client, "login", 3, time.Minute)
	ok, err := l.Allow(context.Background(), "admin|1.2.3.4")
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, time.Minute, m.TTL("login:admin|1.2.3.4"))

	m.FastForward(61 * time.Second)
	ok, err = l.Allow(context.Background(), "admin|1.2.3.4")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestLimiterDisabled(t *testing.T) {
	var l *Limiter
	ok, err := l.Allow(context.Background(), "k")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = NewLimiter(&FakeCache{}, "login", 0, time.Minute).Allow(context.Background(), "k")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestLimiterErrors(t *testing.T) {
	c := &FakeCache{
		IncrFn: func(ctx context.Context, key string) *redis.IntCmd {
			return redis.NewIntResult(0, errors.New("down"))
		},
	}
	_, err := NewLimiter(c, "login", 1, time.Minute).Allow(context.Background(), "k")
	require.ErrorContains(t, err, "down")

	c.IncrFn = func(ctx context.Context, key string) *redis.IntCmd {
		require.Equal(t, "login:k", key)
		return redis.NewIntResult(1, nil)
	}
	c.ExpireFn = func(ctx context.Context, key string, ttl time.Duration) *redis.BoolCmd {
		return redis.NewBoolResult(false, errors.New("expire"))
	}
	_, err = NewLimiter(c, "login", 1, time.Minute).Allow(context.Background(), "k")
	require.ErrorContains(t, err, "expire")

	c.IncrFn = func(ctx context.Context, key string) *redis.IntCmd {
		return redis.NewIntResult(2, nil)
	}
	c.TTLFn = func(ctx context.Context, key string) *redis.DurationCmd {
		return redis.NewDurationResult(0, errors.New("ttl"))
	}
	_, err = NewLimiter(c, "login", 1, time.Minute).Allow(context.Background(), "k")
	require.ErrorContains(t, err, "ttl")

	// 已有到期時間時不再呼叫 EXPIRE
	c.TTLFn = func(ctx context.Context, key string) *redis.DurationCmd {
		return redis.NewDurationResult(30*time.Second, nil)
	}
	c.ExpireFn = nil
	ok, err := NewLimiter(c, "login", 1, time.Minute).Allow(context.Background(), "k")
	require.NoError(t, err)
	require.False(t, ok)
}
