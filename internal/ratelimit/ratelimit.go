// Package ratelimit gates entry into the analysis pipeline with a
// sliding-window counter keyed by caller identity and route. When a caller
// is over the limit the pipeline is never entered and no partial state is
// created.
package ratelimit

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/lucidity-ai/lucidity/internal/build"
	"github.com/lucidity-ai/lucidity/internal/keys"
)

var rejectedCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: build.ProjectName,
	Name:      "ratelimit_rejected_total",
	Help:      "The total number of requests rejected by the ingress rate limiter.",
}, []string{"route"})

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// Limiter gates ingress requests.
type Limiter interface {
	Allow(identity, route string) Decision
	Close()
}

// NoopLimiter admits everything. Used when rate limiting is disabled.
type NoopLimiter struct{}

var _ Limiter = (*NoopLimiter)(nil)

func (NoopLimiter) Allow(identity, route string) Decision {
	return Decision{Allowed: true, Limit: 0, Remaining: 0, ResetAt: time.Now()}
}

func (NoopLimiter) Close() {}

type bucket struct {
	// hits holds the timestamps of admitted requests inside the window,
	// oldest first.
	hits []time.Time
}

// SlidingWindowLimiter counts admitted requests per (identity, route)
// bucket over a trailing window. Stale buckets are swept by a background
// ticker so the map does not grow without bound.
type SlidingWindowLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket

	limit  int
	window time.Duration

	ticker *time.Ticker
	done   chan struct{}

	now func() time.Time
}

var _ Limiter = (*SlidingWindowLimiter)(nil)

// NewSlidingWindowLimiter admits at most limit requests per bucket within
// any trailing window.
func NewSlidingWindowLimiter(limit int, window time.Duration) *SlidingWindowLimiter {
	l := &SlidingWindowLimiter{
		buckets: make(map[string]*bucket),
		limit:   limit,
		window:  window,
		ticker:  time.NewTicker(window),
		done:    make(chan struct{}),
		now:     time.Now,
	}
	go l.runSweeper()
	return l
}

func (l *SlidingWindowLimiter) runSweeper() {
	for {
		select {
		case <-l.done:
			l.ticker.Stop()
			return
		case <-l.ticker.C:
			l.sweep()
		}
	}
}

func (l *SlidingWindowLimiter) sweep() {
	cutoff := l.now().Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()
	for key, b := range l.buckets {
		b.prune(cutoff)
		if len(b.hits) == 0 {
			delete(l.buckets, key)
		}
	}
}

func (b *bucket) prune(cutoff time.Time) {
	i := 0
	for i < len(b.hits) && !b.hits[i].After(cutoff) {
		i++
	}
	b.hits = b.hits[i:]
}

// Allow records and admits the request if the bucket has quota left.
// ResetAt is when the oldest in-window hit leaves the window.
func (l *SlidingWindowLimiter) Allow(identity, route string) Decision {
	key := keys.BucketKey(identity, route)
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{}
		l.buckets[key] = b
	}
	b.prune(now.Add(-l.window))

	resetAt := now.Add(l.window)
	if len(b.hits) > 0 {
		resetAt = b.hits[0].Add(l.window)
	}

	if len(b.hits) >= l.limit {
		rejectedCounter.WithLabelValues(route).Inc()
		return Decision{Allowed: false, Limit: l.limit, Remaining: 0, ResetAt: resetAt}
	}

	b.hits = append(b.hits, now)
	if len(b.hits) == 1 {
		resetAt = now.Add(l.window)
	}
	return Decision{
		Allowed:   true,
		Limit:     l.limit,
		Remaining: l.limit - len(b.hits),
		ResetAt:   resetAt,
	}
}

func (l *SlidingWindowLimiter) Close() {
	close(l.done)
}
