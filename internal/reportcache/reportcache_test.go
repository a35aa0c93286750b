package reportcache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lucidity-ai/lucidity/pkg/types"
)

func TestFingerprint(t *testing.T) {
	t.Run("identical_bytes_identical_fingerprint", func(t *testing.T) {
		require.Equal(t, Fingerprint([]byte("memo")), Fingerprint([]byte("memo")))
	})

	t.Run("different_bytes_different_fingerprint", func(t *testing.T) {
		require.NotEqual(t, Fingerprint([]byte("memo")), Fingerprint([]byte("memo ")))
	})

	t.Run("sha256_hex_shape", func(t *testing.T) {
		fp := Fingerprint([]byte(""))
		require.Len(t, fp, 64)
		// SHA-256 of the empty string is a fixed, well-known value
		require.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", fp)
	})
}

func TestMemoryGate(t *testing.T) {
	ctx := context.Background()

	t.Run("miss_then_hit", func(t *testing.T) {
		gate := NewMemoryGate(100, time.Minute)
		t.Cleanup(gate.Close)

		fp := Fingerprint([]byte("document"))
		_, ok := gate.Lookup(ctx, fp)
		require.False(t, ok)

		gate.Store(ctx, fp, &types.Report{DocumentID: "doc-1", OverallScore: 70})

		got, ok := gate.Lookup(ctx, fp)
		require.True(t, ok)
		require.Equal(t, "doc-1", got.DocumentID)
		require.True(t, got.Cached)
	})

	t.Run("cached_annotation_does_not_leak_into_stored_report", func(t *testing.T) {
		gate := NewMemoryGate(100, time.Minute)
		t.Cleanup(gate.Close)

		original := &types.Report{DocumentID: "doc-2"}
		fp := Fingerprint([]byte("other"))
		gate.Store(ctx, fp, original)

		_, ok := gate.Lookup(ctx, fp)
		require.True(t, ok)
		require.False(t, original.Cached)
	})

	t.Run("expired_entry_misses", func(t *testing.T) {
		gate := NewMemoryGate(100, -time.Second)
		t.Cleanup(gate.Close)

		fp := Fingerprint([]byte("expiring"))
		gate.Store(ctx, fp, &types.Report{DocumentID: "doc-3"})

		_, ok := gate.Lookup(ctx, fp)
		require.False(t, ok)
	})
}

func TestNoopGate(t *testing.T) {
	gate := NoopGate{}
	defer gate.Close()

	gate.Store(context.Background(), "fp", &types.Report{})
	_, ok := gate.Lookup(context.Background(), "fp")
	require.False(t, ok)
}
