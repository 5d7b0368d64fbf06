package selector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndex_Stable(t *testing.T) {
	// The selection contract: same seed and pool size give the same
	// index on every call, in every process.
	first := Index("privacy:action:abc123", 5)
	require.GreaterOrEqual(t, first, 0)
	require.Less(t, first, 5)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, Index("privacy:action:abc123", 5))
	}
}

func TestIndex_EmptyPool(t *testing.T) {
	assert.Equal(t, -1, Index("anything", 0))
	assert.Equal(t, -1, Index("anything", -4))
}

func TestPick(t *testing.T) {
	pool := []string{"a", "b", "c", "d", "e"}
	picked := Pick(pool, "network:insight:deadbeef")
	require.NotNil(t, picked)

	again := Pick(pool, "network:insight:deadbeef")
	assert.Equal(t, *picked, *again)

	assert.Nil(t, Pick([]string{}, "network:insight:deadbeef"))
	assert.Nil(t, Pick[string](nil, "seed"))
}

func TestIndex_SeedSensitivity(t *testing.T) {
	// Namespaced seeds exist so pools don't mirror each other; distinct
	// seeds are allowed to collide but must each be individually stable.
	a := Index("network:action:id1", 7)
	b := Index("devices:action:id1", 7)
	for i := 0; i < 10; i++ {
		assert.Equal(t, a, Index("network:action:id1", 7))
		assert.Equal(t, b, Index("devices:action:id1", 7))
	}
}
