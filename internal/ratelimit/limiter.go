// Package ratelimit implements the per-client sliding window behind the
// admission middleware. State is process-local and resets on restart.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter maps client keys to timestamps of admitted requests within the
// trailing window. Prune, count and append happen under one lock so two
// concurrent requests from the same key can never both slip past the
// ceiling.
type Limiter struct {
	mu      sync.Mutex
	window  time.Duration
	limit   int
	clients map[string][]time.Time
	now     func() time.Time
}

func New(limit int, window time.Duration) *Limiter {
	return &Limiter{
		window:  window,
		limit:   limit,
		clients: make(map[string][]time.Time),
		now:     time.Now,
	}
}

// Allow reports whether key may proceed. An admitted request is recorded;
// a rejected one is not, so a blocked client recovers as soon as its old
// entries age out of the window.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	stamps := l.clients[key]
	kept := stamps[:0]
	for _, t := range stamps {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}

	if len(kept) >= l.limit {
		l.clients[key] = kept
		return false
	}

	l.clients[key] = append(kept, now)
	return true
}

// Count returns the live entries for key, pruning as it goes.
func (l *Limiter) Count(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.window)
	stamps := l.clients[key]
	kept := stamps[:0]
	for _, t := range stamps {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	if len(kept) == 0 {
		delete(l.clients, key)
		return 0
	}
	l.clients[key] = kept
	return len(kept)
}
