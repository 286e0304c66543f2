package board

import (
	"fmt"
	"sync"
)

const (
	// GridSize is the number of rows and columns.
	GridSize = 9
	// BoxSize is the side length of one 3x3 box.
	BoxSize = 3
	// CellCount is the total number of cells.
	CellCount = GridSize * GridSize
)

// ErrOutOfRange is returned for coordinates outside 0-8.
type ErrOutOfRange struct {
	Row int
	Col int
}

func (e *ErrOutOfRange) Error() string {
	return fmt.Sprintf("cell coordinates out of range: (%d, %d)", e.Row, e.Col)
}

// Cell is a single board cell. A cell with IsInitial set is a puzzle clue and
// never changes after construction. LockedBy is 0 when unlocked, otherwise the
// owning player id.
type Cell struct {
	Value     int
	IsInitial bool
	LockedBy  int
}

// Board holds the 9x9 grid and one guard per cell. Guards are independent, so
// moves on disjoint cells never contend; at most one mutation is in flight per
// cell at any instant.
type Board struct {
	cells  [GridSize][GridSize]Cell
	guards [GridSize][GridSize]sync.Mutex
}

// New builds a board from a flat 81-element row-major puzzle array, 0 = blank.
// Non-zero cells are marked as initial clues.
func New(puzzle []int) (*Board, error) {
	if len(puzzle) != CellCount {
		return nil, fmt.Errorf("puzzle must have %d cells, got %d", CellCount, len(puzzle))
	}

	b := &Board{}
	for i, value := range puzzle {
		if value < 0 || value > GridSize {
			return nil, fmt.Errorf("invalid puzzle value %d at index %d", value, i)
		}
		row, col := i/GridSize, i%GridSize
		b.cells[row][col] = Cell{
			Value:     value,
			IsInitial: value != 0,
		}
	}

	return b, nil
}

// Get returns a copy of the cell at the given coordinates.
func (b *Board) Get(row, col int) (Cell, error) {
	if !inBounds(row, col) {
		return Cell{}, &ErrOutOfRange{Row: row, Col: col}
	}
	return b.cells[row][col], nil
}

// TryMutate attempts to acquire the cell's guard without blocking. If the
// guard is acquired, fn is applied to the cell under the guard and the result
// committed. The returned bool reports whether the guard was acquired; false
// means the cell is busy with a concurrent mutation and the caller must not
// retry within the same request.
func (b *Board) TryMutate(row, col int, fn func(*Cell)) (bool, error) {
	if !inBounds(row, col) {
		return false, &ErrOutOfRange{Row: row, Col: col}
	}

	guard := &b.guards[row][col]
	if !guard.TryLock() {
		return false, nil
	}
	defer guard.Unlock()

	fn(&b.cells[row][col])
	return true, nil
}

// IsFilled reports whether every cell has a value. The scan is weakly
// consistent with concurrent mutation; callers that need an authoritative
// answer must run it from inside a guard-held mutation.
func (b *Board) IsFilled() bool {
	for row := 0; row < GridSize; row++ {
		for col := 0; col < GridSize; col++ {
			if b.cells[row][col].Value == 0 {
				return false
			}
		}
	}
	return true
}

// IsSolvedAgainst reports whether the grid matches the flat 81-element
// row-major solution.
func (b *Board) IsSolvedAgainst(solution []int) bool {
	if len(solution) != CellCount {
		return false
	}
	for row := 0; row < GridSize; row++ {
		for col := 0; col < GridSize; col++ {
			if b.cells[row][col].Value != solution[row*GridSize+col] {
				return false
			}
		}
	}
	return true
}

// Flat returns the current grid values as a flat 81-element row-major array.
// Weakly consistent under concurrent mutation, like the other full scans.
func (b *Board) Flat() []int {
	flat := make([]int, 0, CellCount)
	for row := 0; row < GridSize; row++ {
		for col := 0; col < GridSize; col++ {
			flat = append(flat, b.cells[row][col].Value)
		}
	}
	return flat
}

// IsValidMove checks row, column and 3x3 box uniqueness for placing value at
// (row, col) against already committed neighbor values. The target cell itself
// is excluded. A stale neighbor read can only cause a spurious rejection,
// never a corrupted commit, since all writes are single-cell.
func (b *Board) IsValidMove(row, col, value int) bool {
	for c := 0; c < GridSize; c++ {
		if c != col && b.cells[row][c].Value == value {
			return false
		}
	}

	for r := 0; r < GridSize; r++ {
		if r != row && b.cells[r][col].Value == value {
			return false
		}
	}

	boxRow := (row / BoxSize) * BoxSize
	boxCol := (col / BoxSize) * BoxSize
	for r := boxRow; r < boxRow+BoxSize; r++ {
		for c := boxCol; c < boxCol+BoxSize; c++ {
			if (r != row || c != col) && b.cells[r][c].Value == value {
				return false
			}
		}
	}

	return true
}

func inBounds(row, col int) bool {
	return row >= 0 && row < GridSize && col >= 0 && col < GridSize
}
