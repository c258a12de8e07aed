package idgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSonyflakeMonotonic(t *testing.T) {
	g, err := NewSonyflake(&Config{MachineID: 7})
	require.NoError(t, err)

	seen := make(map[int64]struct{}, 1000)
	var last int64
	for i := 0; i < 1000; i++ {
		id, err := g.NextID()
		require.NoError(t, err)
		assert.Greater(t, id, last)
		last = id
		seen[id] = struct{}{}
	}
	assert.Len(t, seen, 1000)
}

func TestGeneratorFunc(t *testing.T) {
	n := int64(0)
	g := GeneratorFunc(func() (int64, error) {
		n++
		return n, nil
	})
	id, err := g.NextID()
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
}
