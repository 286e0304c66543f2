package puzzle

import (
	"math/rand"
	"sync"
	"time"
)

const (
	gridSize  = 9
	boxSize   = 3
	gridCells = gridSize * gridSize
)

// Generator produces puzzles with a backtracking fill and random carving.
// Safe for concurrent use.
type Generator struct {
	lock sync.Mutex
	rng  *rand.Rand
}

// NewGenerator creates a Generator seeded from the current time.
func NewGenerator() *Generator {
	return NewGeneratorWithSeed(time.Now().UnixNano())
}

// NewGeneratorWithSeed creates a Generator with a fixed seed for
// reproducible output.
func NewGeneratorWithSeed(seed int64) *Generator {
	return &Generator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// Generate builds a full random solution, then blanks cells in random order
// until the difficulty's clue count remains. Returns the clue grid and the
// solution as flat 81-element row-major arrays.
func (g *Generator) Generate(difficulty Difficulty) ([]int, []int, error) {
	g.lock.Lock()
	defer g.lock.Unlock()

	var grid [gridSize][gridSize]int
	g.fillRandom(&grid)

	solution := make([]int, gridCells)
	for row := 0; row < gridSize; row++ {
		for col := 0; col < gridSize; col++ {
			solution[row*gridSize+col] = grid[row][col]
		}
	}

	puzzle := make([]int, gridCells)
	copy(puzzle, solution)

	positions := g.rng.Perm(gridCells)
	toBlank := gridCells - difficulty.Clues()
	for _, pos := range positions[:toBlank] {
		puzzle[pos] = 0
	}

	return puzzle, solution, nil
}

// fillRandom solves the empty grid into a full valid solution, trying
// candidate values in random order.
func (g *Generator) fillRandom(grid *[gridSize][gridSize]int) bool {
	var dfs func(row, col int) bool
	dfs = func(row, col int) bool {
		if row == gridSize {
			return true
		}
		nextRow, nextCol := row, col+1
		if nextCol == gridSize {
			nextRow, nextCol = row+1, 0
		}

		values := g.rng.Perm(gridSize)
		for _, v := range values {
			value := v + 1
			if !allowed(grid, row, col, value) {
				continue
			}
			grid[row][col] = value
			if dfs(nextRow, nextCol) {
				return true
			}
			grid[row][col] = 0
		}
		return false
	}
	return dfs(0, 0)
}

// allowed checks row, column and box constraints for the generator.
func allowed(grid *[gridSize][gridSize]int, row, col, value int) bool {
	for i := 0; i < gridSize; i++ {
		if grid[row][i] == value || grid[i][col] == value {
			return false
		}
	}
	boxRow, boxCol := (row/boxSize)*boxSize, (col/boxSize)*boxSize
	for r := boxRow; r < boxRow+boxSize; r++ {
		for c := boxCol; c < boxCol+boxSize; c++ {
			if grid[r][c] == value {
				return false
			}
		}
	}
	return true
}
