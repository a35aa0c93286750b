// Package reportcache deduplicates audits of byte-identical documents.
// The fingerprint is a SHA-256 over the raw uploaded bytes, so identical
// uploads collapse to a single analysis regardless of filename. This is an
// at-most-one-analysis-per-distinct-document guarantee; two simultaneous
// uploads of the same new document may both run, which is an accepted
// race.
package reportcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/lucidity-ai/lucidity/internal/build"
	"github.com/lucidity-ai/lucidity/pkg/storage"
	"github.com/lucidity-ai/lucidity/pkg/types"
)

var (
	lookupCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: build.ProjectName,
		Name:      "report_cache_lookup_total",
		Help:      "The total number of report cache lookups.",
	})

	hitCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: build.ProjectName,
		Name:      "report_cache_hit_total",
		Help:      "The total number of report cache hits.",
	})
)

// Fingerprint computes the content fingerprint over raw document bytes.
func Fingerprint(raw []byte) string {
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// Gate short-circuits the pipeline for previously audited documents.
type Gate interface {
	// Lookup returns the report previously produced for the fingerprint.
	Lookup(ctx context.Context, fingerprint string) (*types.Report, bool)

	// Store records the report for future lookups. Called only after a
	// successful, non-cancelled, persist-mode run.
	Store(ctx context.Context, fingerprint string, report *types.Report)

	Close()
}

// NoopGate disables deduplication; every upload runs the pipeline.
type NoopGate struct{}

var _ Gate = (*NoopGate)(nil)

func (NoopGate) Lookup(ctx context.Context, fingerprint string) (*types.Report, bool) {
	return nil, false
}
func (NoopGate) Store(ctx context.Context, fingerprint string, report *types.Report) {}
func (NoopGate) Close()                                                              {}

// MemoryGate keeps reports in an in-memory LRU with a TTL. Durable report
// persistence belongs to the storage collaborator; this gate only answers
// the dedup question.
type MemoryGate struct {
	cache storage.InMemoryCache[*types.Report]
	ttl   time.Duration
}

var _ Gate = (*MemoryGate)(nil)

func NewMemoryGate(maxEntries int64, ttl time.Duration) *MemoryGate {
	return &MemoryGate{
		cache: storage.NewInMemoryLRUCache(storage.WithMaxCacheSize[*types.Report](maxEntries)),
		ttl:   ttl,
	}
}

func (g *MemoryGate) Lookup(ctx context.Context, fingerprint string) (*types.Report, bool) {
	lookupCounter.Inc()
	report, ok := g.cache.Get(fingerprint)
	if !ok {
		return nil, false
	}
	hitCounter.Inc()

	// annotate a copy; the cached original stays unannotated
	cached := *report
	cached.Cached = true
	return &cached, true
}

func (g *MemoryGate) Store(ctx context.Context, fingerprint string, report *types.Report) {
	g.cache.Set(fingerprint, report, g.ttl)
}

func (g *MemoryGate) Close() {
	g.cache.Stop()
}
