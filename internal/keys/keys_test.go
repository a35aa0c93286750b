package keys

import (
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/require"
)

func TestCacheKeyHasher(t *testing.T) {
	t.Run("same_input_same_key", func(t *testing.T) {
		one := NewCacheKeyHasher(xxhash.New())
		require.NoError(t, one.WriteString("abc"))

		two := NewCacheKeyHasher(xxhash.New())
		require.NoError(t, two.WriteString("abc"))

		require.Equal(t, one.Key().ToUInt64(), two.Key().ToUInt64())
	})

	t.Run("different_input_different_key", func(t *testing.T) {
		one := NewCacheKeyHasher(xxhash.New())
		require.NoError(t, one.WriteString("abc"))

		two := NewCacheKeyHasher(xxhash.New())
		require.NoError(t, two.WriteString("abd"))

		require.NotEqual(t, one.Key().ToUInt64(), two.Key().ToUInt64())
	})
}

func TestBucketKey(t *testing.T) {
	require.Equal(t, BucketKey("10.0.0.1", "audits"), BucketKey("10.0.0.1", "audits"))
	require.NotEqual(t, BucketKey("10.0.0.1", "audits"), BucketKey("10.0.0.2", "audits"))
	require.NotEqual(t, BucketKey("10.0.0.1", "audits"), BucketKey("10.0.0.1", "stream"))

	// the separator prevents boundary collisions
	require.NotEqual(t, BucketKey("ab", "c"), BucketKey("a", "bc"))
}
