package puzzle

import (
	"fmt"
	"strings"

	"github.com/jroark/cellduel/pkg/log"
)

// Difficulty selects how many clue cells a generated puzzle keeps.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyMedium Difficulty = "MEDIUM"
	DifficultyHard   Difficulty = "HARD"
)

// ParseDifficulty parses a difficulty string, defaulting to EASY on
// unrecognized input.
func ParseDifficulty(s string) Difficulty {
	switch Difficulty(strings.ToUpper(s)) {
	case DifficultyEasy:
		return DifficultyEasy
	case DifficultyMedium:
		return DifficultyMedium
	case DifficultyHard:
		return DifficultyHard
	default:
		log.Warn("Invalid difficulty %q, defaulting to EASY", s)
		return DifficultyEasy
	}
}

// Clues returns the number of pre-filled cells for the difficulty.
func (d Difficulty) Clues() int {
	switch d {
	case DifficultyEasy:
		return 70
	case DifficultyMedium:
		return 40
	case DifficultyHard:
		return 25
	default:
		return 70
	}
}

func (d Difficulty) String() string {
	return string(d)
}

// Source supplies a clue grid and full solution pair for a requested
// difficulty. Both are flat 81-element row-major arrays, 0 = blank.
type Source interface {
	Generate(difficulty Difficulty) (puzzle []int, solution []int, err error)
}

// Validate checks that data is a well-formed flat grid.
func Validate(data []int) error {
	if len(data) != gridCells {
		return fmt.Errorf("grid must have %d cells, got %d", gridCells, len(data))
	}
	for i, v := range data {
		if v < 0 || v > gridSize {
			return fmt.Errorf("invalid cell value %d at index %d", v, i)
		}
	}
	return nil
}
