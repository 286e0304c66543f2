package board

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func emptyPuzzle() []int {
	return make([]int, CellCount)
}

func TestNew(t *testing.T) {
	puzzle := emptyPuzzle()
	puzzle[0] = 5
	puzzle[80] = 9

	b, err := New(puzzle)
	require.NoError(t, err)

	cell, err := b.Get(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 5, cell.Value)
	assert.True(t, cell.IsInitial)

	cell, err = b.Get(8, 8)
	require.NoError(t, err)
	assert.Equal(t, 9, cell.Value)
	assert.True(t, cell.IsInitial)

	cell, err = b.Get(4, 4)
	require.NoError(t, err)
	assert.Equal(t, 0, cell.Value)
	assert.False(t, cell.IsInitial)
}

func TestNewInvalidPuzzle(t *testing.T) {
	_, err := New(make([]int, 80))
	assert.Error(t, err)

	puzzle := emptyPuzzle()
	puzzle[3] = 10
	_, err = New(puzzle)
	assert.Error(t, err)
}

func TestGetOutOfRange(t *testing.T) {
	b, err := New(emptyPuzzle())
	require.NoError(t, err)

	for _, coords := range [][2]int{{-1, 0}, {0, -1}, {9, 0}, {0, 9}} {
		_, err := b.Get(coords[0], coords[1])
		assert.Error(t, err, "coords (%d, %d)", coords[0], coords[1])
	}
}

func TestTryMutate(t *testing.T) {
	b, err := New(emptyPuzzle())
	require.NoError(t, err)

	acquired, err := b.TryMutate(2, 3, func(c *Cell) {
		c.Value = 7
	})
	require.NoError(t, err)
	assert.True(t, acquired)

	cell, err := b.Get(2, 3)
	require.NoError(t, err)
	assert.Equal(t, 7, cell.Value)
}

func TestTryMutateOutOfRange(t *testing.T) {
	b, err := New(emptyPuzzle())
	require.NoError(t, err)

	_, err = b.TryMutate(9, 0, func(c *Cell) {})
	assert.Error(t, err)
}

func TestTryMutateBusy(t *testing.T) {
	b, err := New(emptyPuzzle())
	require.NoError(t, err)

	hold := make(chan struct{})
	release := make(chan struct{})
	go func() {
		acquired, err := b.TryMutate(0, 0, func(c *Cell) {
			close(hold)
			<-release
			c.Value = 1
		})
		assert.NoError(t, err)
		assert.True(t, acquired)
	}()

	<-hold
	acquired, err := b.TryMutate(0, 0, func(c *Cell) {
		c.Value = 2
	})
	require.NoError(t, err)
	assert.False(t, acquired, "second mutation on a held cell must report busy")

	cell, err := b.Get(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, cell.Value, "losing mutation must leave the cell unchanged")

	close(release)
}

func TestTryMutateSameCellConcurrent(t *testing.T) {
	b, err := New(emptyPuzzle())
	require.NoError(t, err)

	const attempts = 32
	var wg sync.WaitGroup
	var wins int32
	var winsLock sync.Mutex

	start := make(chan struct{})
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(value int) {
			defer wg.Done()
			<-start
			acquired, err := b.TryMutate(5, 5, func(c *Cell) {
				if c.Value == 0 {
					c.Value = value
				}
			})
			assert.NoError(t, err)
			if acquired {
				winsLock.Lock()
				wins++
				winsLock.Unlock()
			}
		}(i + 1)
	}
	close(start)
	wg.Wait()

	// at least one attempt wins; mutual exclusion means the cell holds the
	// first winner's value and nothing else ever overwrote it
	assert.GreaterOrEqual(t, wins, int32(1))
	cell, err := b.Get(5, 5)
	require.NoError(t, err)
	assert.NotEqual(t, 0, cell.Value)
}

func TestTryMutateDisjointCellsConcurrent(t *testing.T) {
	b, err := New(emptyPuzzle())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for row := 0; row < GridSize; row++ {
		for col := 0; col < GridSize; col++ {
			wg.Add(1)
			go func(row, col int) {
				defer wg.Done()
				acquired, err := b.TryMutate(row, col, func(c *Cell) {
					c.Value = (row+col)%9 + 1
				})
				assert.NoError(t, err)
				assert.True(t, acquired, "disjoint cells must never contend")
			}(row, col)
		}
	}
	wg.Wait()

	for row := 0; row < GridSize; row++ {
		for col := 0; col < GridSize; col++ {
			cell, err := b.Get(row, col)
			require.NoError(t, err)
			assert.Equal(t, (row+col)%9+1, cell.Value)
		}
	}
}

func TestIsFilled(t *testing.T) {
	puzzle := emptyPuzzle()
	for i := range puzzle {
		puzzle[i] = i%9 + 1
	}
	b, err := New(puzzle)
	require.NoError(t, err)
	assert.True(t, b.IsFilled())

	puzzle[40] = 0
	b, err = New(puzzle)
	require.NoError(t, err)
	assert.False(t, b.IsFilled())
}

func TestIsSolvedAgainst(t *testing.T) {
	solution := make([]int, CellCount)
	for i := range solution {
		solution[i] = i%9 + 1
	}

	b, err := New(solution)
	require.NoError(t, err)
	assert.True(t, b.IsSolvedAgainst(solution))

	other := make([]int, CellCount)
	copy(other, solution)
	other[17] = other[17]%9 + 1
	assert.False(t, b.IsSolvedAgainst(other))

	assert.False(t, b.IsSolvedAgainst(nil))
}

func TestIsValidMove(t *testing.T) {
	puzzle := emptyPuzzle()
	puzzle[0] = 5      // (0,0)
	puzzle[9*4+7] = 3  // (4,7)
	puzzle[9*1+1] = 8  // (1,1) same box as (0,0)

	b, err := New(puzzle)
	require.NoError(t, err)

	assert.False(t, b.IsValidMove(0, 8, 5), "duplicate in row")
	assert.False(t, b.IsValidMove(8, 0, 5), "duplicate in column")
	assert.False(t, b.IsValidMove(2, 2, 8), "duplicate in box")
	assert.True(t, b.IsValidMove(0, 8, 9))
	assert.True(t, b.IsValidMove(2, 2, 1))
	assert.True(t, b.IsValidMove(0, 0, 5), "target cell itself is excluded")
}
