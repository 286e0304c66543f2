package match

// MoveOutcome is the typed result of processing a move. Every rejection is a
// distinct outcome; none of them are errors that cross the match boundary.
type MoveOutcome int

const (
	OutcomeCorrect MoveOutcome = iota
	OutcomeInvalidPlayer
	OutcomeGameNotStarted
	OutcomeGameAlreadyEnded
	OutcomeInvalidCoordinates
	OutcomeInvalidValue
	OutcomeCannotModifyClue
	OutcomeCellAlreadyFilled
	OutcomeBusy
	OutcomeRuleViolation
	OutcomeWrongValue
)

// Reason returns the user-visible reason string for the outcome. Correct
// moves have no reason.
func (o MoveOutcome) Reason() string {
	switch o {
	case OutcomeCorrect:
		return ""
	case OutcomeInvalidPlayer:
		return "Invalid player ID"
	case OutcomeGameNotStarted:
		return "Game not started"
	case OutcomeGameAlreadyEnded:
		return "Game already ended"
	case OutcomeInvalidCoordinates:
		return "Invalid coordinates"
	case OutcomeInvalidValue:
		return "Invalid value"
	case OutcomeCannotModifyClue:
		return "Cannot modify initial clue"
	case OutcomeCellAlreadyFilled:
		return "Cell already filled"
	case OutcomeBusy:
		return "Cell is busy"
	case OutcomeRuleViolation:
		return "Invalid move (Sudoku rules)"
	case OutcomeWrongValue:
		return "Wrong answer"
	default:
		return "Unknown outcome"
	}
}

// AffectsScore reports whether the outcome carried a score penalty. Busy and
// the precondition rejections apply no penalty.
func (o MoveOutcome) AffectsScore() bool {
	return o == OutcomeRuleViolation || o == OutcomeWrongValue
}

// MoveResult is what ProcessMove returns to the router.
type MoveResult struct {
	PlayerID int
	Row      int
	Col      int
	Value    int
	Outcome  MoveOutcome
	// GameComplete is true for exactly one move per match: the one whose
	// commit filled the board correctly.
	GameComplete bool
}

// Success reports whether the move was committed to the board.
func (r MoveResult) Success() bool {
	return r.Outcome == OutcomeCorrect
}
