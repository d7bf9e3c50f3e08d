package cache

import (
	"context"
	"fmt"
	"time"
)

// Limiter 以 Redis 固定視窗計數限制嘗試次數
// 第一次 INCR 時設定視窗到期時間，超過 limit 即拒絕
// 之後若發現鍵沒有到期時間（先前 EXPIRE 失敗），會補設一次
type Limiter struct {
	cache  Cache
	prefix string
	limit  int
	window time.Duration
}

func NewLimiter(c Cache, prefix string, limit int, window time.Duration) *Limiter {
	return &Limiter{cache: c, prefix: prefix, limit: limit, window: window}
}

// Allow 記錄一次嘗試並回傳是否仍在額度內；limit <= 0 表示不限制
func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	if l == nil || l.limit <= 0 {
		return true, nil
	}
	k := fmt.Sprintf("%s:%s", l.prefix, key)
	n, err := l.cache.Incr(ctx, k).Result()
	if err != nil {
		return false, fmt.Errorf("Allow: %w", err)
	}
	expire := n == 1
	if !expire {
		ttl, err := l.cache.TTL(ctx, k).Result()
		if err != nil {
			return false, fmt.Errorf("Allow: %w", err)
		}
		expire = ttl < 0
	}
	if expire {
		if err := l.cache.Expire(ctx, k, l.window).Err(); err != nil {
			return false, fmt.Errorf("Allow: %w", err)
		}
	}
	return n <= int64(l.limit), nil
}

// Window 回傳視窗長度，用於 Retry-After
func (l *Limiter) Window() time.Duration { return l.window }
