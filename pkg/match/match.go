package match

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/jroark/cellduel/pkg/board"
	"github.com/jroark/cellduel/pkg/log"
	"github.com/jroark/cellduel/pkg/messages"
	"github.com/jroark/cellduel/pkg/puzzle"
)

const (
	// MoveReward is added to the mover's score for a correct move.
	MoveReward = 10
	// MovePenalty is subtracted for a rule violation or wrong value.
	MovePenalty = 10
)

// ErrGameFull is returned when both player slots are occupied.
type ErrGameFull struct {
	Code string
}

func (e *ErrGameFull) Error() string {
	return fmt.Sprintf("game %s is full", e.Code)
}

// Match is one two-player game: a board, a server-only solution grid, two
// player slots, two scores, and the started/ended lifecycle flags.
//
// Scores are atomic because two different cells can be resolved concurrently
// by the same player, each under its own cell guard; the score fields are
// shared across those guards. The ended flag is a one-way check-and-set so
// end-of-game side effects happen exactly once.
type Match struct {
	code       string
	difficulty puzzle.Difficulty
	puzzle     []int
	solution   []int
	board      *board.Board

	joinLock sync.Mutex
	player1  *Player
	player2  *Player

	score1 atomic.Int32
	score2 atomic.Int32

	started atomic.Bool
	ended   atomic.Bool
}

// New creates a match seeded from the puzzle source.
func New(code string, difficulty puzzle.Difficulty, source puzzle.Source) (*Match, error) {
	clues, solution, err := source.Generate(difficulty)
	if err != nil {
		return nil, fmt.Errorf("failed to generate puzzle: %v", err)
	}
	if err := puzzle.Validate(solution); err != nil {
		return nil, fmt.Errorf("puzzle source returned a malformed solution: %v", err)
	}

	b, err := board.New(clues)
	if err != nil {
		return nil, fmt.Errorf("failed to build board: %v", err)
	}

	return &Match{
		code:       code,
		difficulty: difficulty,
		puzzle:     clues,
		solution:   solution,
		board:      b,
	}, nil
}

// Join adds a player to the first free slot. Under concurrent calls at most
// one caller wins each slot; the loser gets ErrGameFull. The started flag is
// set exactly when the second player lands.
func (m *Match) Join(name string, sender Sender) (int, error) {
	m.joinLock.Lock()
	defer m.joinLock.Unlock()

	if m.player1 == nil {
		m.player1 = NewPlayer(1, name, sender)
		return 1, nil
	}
	if m.player2 == nil {
		m.player2 = NewPlayer(2, name, sender)
		m.started.Store(true)
		return 2, nil
	}
	return 0, &ErrGameFull{Code: m.code}
}

// ProcessMove validates and applies one cell fill. Preconditions are checked
// in order before any lock is taken; the cell guard is then acquired
// non-blockingly. A busy guard is reported as OutcomeBusy with no penalty; a
// later client resubmission is the retry path.
func (m *Match) ProcessMove(playerID, row, col, value int) MoveResult {
	result := MoveResult{
		PlayerID: playerID,
		Row:      row,
		Col:      col,
		Value:    value,
	}

	if playerID != 1 && playerID != 2 {
		result.Outcome = OutcomeInvalidPlayer
		return result
	}
	if !m.started.Load() {
		result.Outcome = OutcomeGameNotStarted
		return result
	}
	if m.ended.Load() {
		result.Outcome = OutcomeGameAlreadyEnded
		return result
	}
	if row < 0 || row > 8 || col < 0 || col > 8 {
		result.Outcome = OutcomeInvalidCoordinates
		return result
	}
	if value < 1 || value > 9 {
		result.Outcome = OutcomeInvalidValue
		return result
	}

	cell, err := m.board.Get(row, col)
	if err != nil {
		result.Outcome = OutcomeInvalidCoordinates
		return result
	}
	if cell.IsInitial {
		result.Outcome = OutcomeCannotModifyClue
		return result
	}
	if cell.Value != 0 {
		result.Outcome = OutcomeCellAlreadyFilled
		return result
	}

	acquired, err := m.board.TryMutate(row, col, func(c *board.Cell) {
		// the precondition check ran outside the guard; another mover may
		// have committed this cell since
		if c.Value != 0 {
			result.Outcome = OutcomeCellAlreadyFilled
			return
		}

		if !m.board.IsValidMove(row, col, value) {
			m.addScore(playerID, -MovePenalty)
			result.Outcome = OutcomeRuleViolation
			return
		}

		if m.solution[row*board.GridSize+col] != value {
			m.addScore(playerID, -MovePenalty)
			result.Outcome = OutcomeWrongValue
			return
		}

		c.Value = value
		m.addScore(playerID, MoveReward)
		result.Outcome = OutcomeCorrect

		if m.board.IsFilled() && m.board.IsSolvedAgainst(m.solution) {
			if m.ended.CompareAndSwap(false, true) {
				result.GameComplete = true
			}
		}
	})
	if err != nil {
		result.Outcome = OutcomeInvalidCoordinates
		return result
	}
	if !acquired {
		log.Debug("Cell (%d, %d) is busy in game %s", row, col, m.code)
		result.Outcome = OutcomeBusy
		return result
	}

	return result
}

// HandleDisconnect ends the match because a player left. Idempotent: once the
// match has ended this is a no-op and returns false. The remaining player is
// declared winner regardless of score. Returns true when this call performed
// the end transition.
func (m *Match) HandleDisconnect(playerID int) bool {
	if !m.ended.CompareAndSwap(false, true) {
		return false
	}

	disconnected := m.PlayerByID(playerID)
	if disconnected == nil {
		return true
	}
	m.Broadcast(&messages.PlayerDisconnect{
		PlayerID:   disconnected.ID,
		PlayerName: disconnected.Name,
	})

	remaining := m.opponentOf(playerID)
	if remaining == nil {
		return true
	}
	m.Broadcast(&messages.GameEnd{
		WinnerID:   remaining.ID,
		WinnerName: remaining.Name,
		Score1:     m.Score1(),
		Score2:     m.Score2(),
		Reason:     "Opponent disconnected",
	})
	return true
}

// SendGameStart sends each player a GameStart with their own player id once
// both slots are filled.
func (m *Match) SendGameStart() {
	m.joinLock.Lock()
	player1, player2 := m.player1, m.player2
	m.joinLock.Unlock()

	if player1 == nil || player2 == nil {
		return
	}

	for _, p := range []*Player{player1, player2} {
		start := &messages.GameStart{
			Puzzle:       m.puzzle,
			Player1Name:  player1.Name,
			Player2Name:  player2.Name,
			YourPlayerID: p.ID,
		}
		if err := p.Send(start); err != nil {
			log.Error("Failed to send game start to player %d in game %s: %v", p.ID, m.code, err)
		}
	}
}

// SendGameEnd announces completion with the higher-scoring player as winner.
// Only meaningful after the match has ended through a completing move.
func (m *Match) SendGameEnd() {
	if !m.ended.Load() {
		return
	}

	winner := m.PlayerByID(2)
	if m.Score1() > m.Score2() {
		winner = m.PlayerByID(1)
	}
	if winner == nil {
		return
	}
	m.Broadcast(&messages.GameEnd{
		WinnerID:   winner.ID,
		WinnerName: winner.Name,
		Score1:     m.Score1(),
		Score2:     m.Score2(),
		Reason:     "Game completed",
	})
}

// Broadcast delivers a message to every connected, slot-filled player.
// Absent or disconnected players are silently skipped.
func (m *Match) Broadcast(msg messages.Message) {
	for _, p := range []*Player{m.PlayerByID(1), m.PlayerByID(2)} {
		if p == nil {
			continue
		}
		if err := p.Send(msg); err != nil {
			log.Error("Failed to send %s to player %d in game %s: %v", msg.MessageType(), p.ID, m.code, err)
		}
	}
}

// SendTo delivers a message to one player slot if occupied and connected.
func (m *Match) SendTo(playerID int, msg messages.Message) {
	p := m.PlayerByID(playerID)
	if p == nil {
		return
	}
	if err := p.Send(msg); err != nil {
		log.Error("Failed to send %s to player %d in game %s: %v", msg.MessageType(), playerID, m.code, err)
	}
}

// SendToOpponent delivers a message to the other player's slot.
func (m *Match) SendToOpponent(playerID int, msg messages.Message) {
	p := m.opponentOf(playerID)
	if p == nil {
		return
	}
	if err := p.Send(msg); err != nil {
		log.Error("Failed to send %s to opponent of player %d in game %s: %v", msg.MessageType(), playerID, m.code, err)
	}
}

// PlayerByID returns the player in slot 1 or 2, or nil if the slot is empty.
func (m *Match) PlayerByID(playerID int) *Player {
	m.joinLock.Lock()
	defer m.joinLock.Unlock()
	switch playerID {
	case 1:
		return m.player1
	case 2:
		return m.player2
	default:
		return nil
	}
}

func (m *Match) opponentOf(playerID int) *Player {
	switch playerID {
	case 1:
		return m.PlayerByID(2)
	case 2:
		return m.PlayerByID(1)
	default:
		return nil
	}
}

// Code returns the match's join code.
func (m *Match) Code() string {
	return m.code
}

// Difficulty returns the match's difficulty.
func (m *Match) Difficulty() puzzle.Difficulty {
	return m.difficulty
}

// Puzzle returns the flat clue grid sent at game start.
func (m *Match) Puzzle() []int {
	return m.puzzle
}

// Board returns the authoritative board.
func (m *Match) Board() *board.Board {
	return m.board
}

// Snapshot returns the current grid as a flat 81-element array.
func (m *Match) Snapshot() []int {
	return m.board.Flat()
}

// Score1 returns player 1's score.
func (m *Match) Score1() int {
	return int(m.score1.Load())
}

// Score2 returns player 2's score.
func (m *Match) Score2() int {
	return int(m.score2.Load())
}

// Started reports whether the second player has joined.
func (m *Match) Started() bool {
	return m.started.Load()
}

// Ended reports whether the match has reached a terminal state.
func (m *Match) Ended() bool {
	return m.ended.Load()
}

// IsWaiting reports whether the match has only its creator.
func (m *Match) IsWaiting() bool {
	m.joinLock.Lock()
	defer m.joinLock.Unlock()
	return m.player1 != nil && m.player2 == nil
}

// IsFull reports whether both slots are occupied.
func (m *Match) IsFull() bool {
	m.joinLock.Lock()
	defer m.joinLock.Unlock()
	return m.player1 != nil && m.player2 != nil
}

func (m *Match) addScore(playerID, delta int) {
	switch playerID {
	case 1:
		m.score1.Add(int32(delta))
	case 2:
		m.score2.Add(int32(delta))
	}
}
