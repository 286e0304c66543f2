package puzzle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countClues(grid []int) int {
	n := 0
	for _, v := range grid {
		if v != 0 {
			n++
		}
	}
	return n
}

func TestParseDifficulty(t *testing.T) {
	assert.Equal(t, DifficultyEasy, ParseDifficulty("EASY"))
	assert.Equal(t, DifficultyMedium, ParseDifficulty("medium"))
	assert.Equal(t, DifficultyHard, ParseDifficulty("Hard"))
	assert.Equal(t, DifficultyEasy, ParseDifficulty("nightmare"))
	assert.Equal(t, DifficultyEasy, ParseDifficulty(""))
}

func TestDifficultyClues(t *testing.T) {
	assert.Equal(t, 70, DifficultyEasy.Clues())
	assert.Equal(t, 40, DifficultyMedium.Clues())
	assert.Equal(t, 25, DifficultyHard.Clues())
}

func TestGenerate(t *testing.T) {
	tests := []struct {
		name       string
		difficulty Difficulty
		wantClues  int
	}{
		{name: "easy", difficulty: DifficultyEasy, wantClues: 70},
		{name: "medium", difficulty: DifficultyMedium, wantClues: 40},
		{name: "hard", difficulty: DifficultyHard, wantClues: 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGeneratorWithSeed(42)
			puzzle, solution, err := g.Generate(tt.difficulty)
			require.NoError(t, err)

			require.NoError(t, Validate(puzzle))
			require.NoError(t, Validate(solution))
			assert.Equal(t, tt.wantClues, countClues(puzzle))
			assert.Equal(t, gridCells, countClues(solution))

			// every clue matches the solution
			for i, v := range puzzle {
				if v != 0 {
					assert.Equal(t, solution[i], v, "clue at index %d", i)
				}
			}

			assertValidSolution(t, solution)
		})
	}
}

func TestGenerateReproducible(t *testing.T) {
	first, firstSolution, err := NewGeneratorWithSeed(7).Generate(DifficultyMedium)
	require.NoError(t, err)
	second, secondSolution, err := NewGeneratorWithSeed(7).Generate(DifficultyMedium)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, firstSolution, secondSolution)
}

// assertValidSolution checks every row, column and box holds 1-9 exactly once.
func assertValidSolution(t *testing.T, solution []int) {
	t.Helper()
	for i := 0; i < gridSize; i++ {
		var row, col, box [gridSize + 1]int
		for j := 0; j < gridSize; j++ {
			row[solution[i*gridSize+j]]++
			col[solution[j*gridSize+i]]++
			boxRow := (i/boxSize)*boxSize + j/boxSize
			boxCol := (i%boxSize)*boxSize + j%boxSize
			box[solution[boxRow*gridSize+boxCol]]++
		}
		for v := 1; v <= gridSize; v++ {
			assert.Equal(t, 1, row[v], "row %d value %d", i, v)
			assert.Equal(t, 1, col[v], "col %d value %d", i, v)
			assert.Equal(t, 1, box[v], "box %d value %d", i, v)
		}
	}
}
