package rate

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

type entry struct {
	count     int64
	windowEnd time.Time
}

// MemoryLimiter is the single-instance fallback used when no Redis is configured.
type MemoryLimiter struct {
	mu      sync.Mutex
	entries map[string]*entry
	max     int64
	window  time.Duration
	now     func() time.Time
}

func NewMemoryLimiter(max int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{entries: make(map[string]*entry), max: int64(max), window: window, now: time.Now}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (Result, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e, ok := l.entries[key]
	if !ok || !now.Before(e.windowEnd) {
		e = &entry{windowEnd: now.Add(l.window)}
		l.entries[key] = e
	}
	e.count++

	res := Result{Allowed: e.count <= l.max, Remaining: l.max - e.count}
	if res.Remaining < 0 {
		res.Remaining = 0
	}
	if !res.Allowed {
		res.RetryAfter = e.windowEnd.Sub(now)
	}
	return res, nil
}

// Purge drops expired windows and reports how many were removed.
func (l *MemoryLimiter) Purge() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	purged := 0
	for k, e := range l.entries {
		if !now.Before(e.windowEnd) {
			delete(l.entries, k)
			purged++
		}
	}
	return purged
}

// RunPurge calls Purge every interval until ctx is done, so clients that never
// come back do not accumulate.
func (l *MemoryLimiter) RunPurge(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := l.Purge(); n > 0 {
				log.Debug().Int("purged", n).Msg("rate limiter entries purged")
			}
		}
	}
}
