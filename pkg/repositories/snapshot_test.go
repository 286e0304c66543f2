package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoardSnapshotRoundTrip(t *testing.T) {
	grid := make([]int, 81)
	for i := range grid {
		grid[i] = i % 10
	}

	data, err := EncodeBoardSnapshot(grid)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	decoded, err := DecodeBoardSnapshot(data)
	require.NoError(t, err)
	assert.Equal(t, grid, decoded)
}

func TestDecodeBoardSnapshotGarbage(t *testing.T) {
	_, err := DecodeBoardSnapshot([]byte("not zstd"))
	assert.Error(t, err)
}
