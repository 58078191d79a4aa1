package rate

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryLimiter: fixed window sobre go-cache. Solo sirve para instancia
// única (dev, tests); en despliegues multi-réplica usar RedisLimiter.
type MemoryLimiter struct {
	cache  *gocache.Cache
	Max    int64
	Window time.Duration
}

func NewMemoryLimiter(max int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		cache:  gocache.New(window, 2*window),
		Max:    int64(max),
		Window: window,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (Result, error) {
	winStart := time.Now().UTC().Truncate(l.Window)
	k := fmt.Sprintf("%s:%d", key, winStart.Unix())

	// Add falla si la clave existe: cuenta como primer hit o incrementa.
	var hits int64
	if err := l.cache.Add(k, int64(1), l.Window); err == nil {
		hits = 1
	} else {
		n, err := l.cache.IncrementInt64(k, 1)
		if err != nil {
			// la ventana expiró entre Add e Increment
			l.cache.Set(k, int64(1), l.Window)
			n = 1
		}
		hits = n
	}

	allowed := hits <= l.Max
	remaining := l.Max - hits
	if remaining < 0 {
		remaining = 0
	}

	res := Result{
		Allowed:     allowed,
		Remaining:   remaining,
		CurrentHits: hits,
	}
	if !allowed {
		res.RetryAfter = l.Window - time.Since(winStart)
		if res.RetryAfter < 0 {
			res.RetryAfter = 0
		}
	}
	return res, nil
}
