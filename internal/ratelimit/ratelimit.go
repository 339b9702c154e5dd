// Package ratelimit provides a keyed token bucket limiter.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Keyed holds one independent limiter per key.
// Keys idle for longer than the idle window are evicted by a background sweep.
type Keyed struct {
	mu       sync.Mutex
	limiters map[string]*entry
	limit    rate.Limit
	burst    int
	idle     time.Duration

	done     chan struct{}
	stopOnce sync.Once
}

// New creates a keyed limiter allowing rps events per second with the given burst.
func New(rps float64, burst int, idle time.Duration) *Keyed {
	k := &Keyed{
		limiters: make(map[string]*entry),
		limit:    rate.Limit(rps),
		burst:    burst,
		idle:     idle,
		done:     make(chan struct{}),
	}
	if idle > 0 {
		go k.sweep()
	}
	return k
}

// Allow reports whether an event for key may happen now.
func (k *Keyed) Allow(key string) bool {
	return k.get(key).Allow()
}

// Wait blocks until an event for key is allowed or ctx is done.
func (k *Keyed) Wait(ctx context.Context, key string) error {
	return k.get(key).Wait(ctx)
}

// Len returns the number of tracked keys.
func (k *Keyed) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.limiters)
}

// Stop ends the background sweep.
func (k *Keyed) Stop() {
	k.stopOnce.Do(func() { close(k.done) })
}

func (k *Keyed) get(key string) *rate.Limiter {
	k.mu.Lock()
	defer k.mu.Unlock()

	e, ok := k.limiters[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(k.limit, k.burst)}
		k.limiters[key] = e
	}
	e.lastSeen = time.Now()
	return e.limiter
}

func (k *Keyed) sweep() {
	ticker := time.NewTicker(k.idle)
	defer ticker.Stop()
	for {
		select {
		case <-k.done:
			return
		case now := <-ticker.C:
			k.evict(now)
		}
	}
}

func (k *Keyed) evict(now time.Time) {
	k.mu.Lock()
	defer k.mu.Unlock()
	for key, e := range k.limiters {
		if now.Sub(e.lastSeen) > k.idle {
			delete(k.limiters, key)
		}
	}
}
