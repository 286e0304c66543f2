package server

import (
	"errors"
	"fmt"
	"time"

	"github.com/jroark/cellduel/pkg/log"
	"github.com/jroark/cellduel/pkg/match"
	"github.com/jroark/cellduel/pkg/messages"
	"github.com/jroark/cellduel/pkg/puzzle"
	"github.com/jroark/cellduel/pkg/registry"
	"github.com/jroark/cellduel/pkg/repositories"
)

const scrubbedMoveReason = "Opponent made an incorrect move"

// Router dispatches inbound messages to registry and match operations and
// turns their outcomes into outbound messages. Every rule rejection comes
// back as a typed outcome; only decode failures and panics become
// ErrorMessages, and neither closes the connection.
type Router struct {
	registry           *registry.Registry
	saveGameRecordChan chan<- *repositories.GameRecord
}

// NewRouterOptions contains options for creating a new Router.
type NewRouterOptions struct {
	Registry           *registry.Registry
	SaveGameRecordChan chan<- *repositories.GameRecord
}

func NewRouter(opts NewRouterOptions) *Router {
	return &Router{
		registry:           opts.Registry,
		saveGameRecordChan: opts.SaveGameRecordChan,
	}
}

// HandleMessage decodes and routes one inbound frame. Exactly one registry or
// match operation runs per message. A panic in a handler is recovered here
// and reported as a generic error; the worker and the match survive.
func (r *Router) HandleMessage(session *Session, data []byte) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Error("Panic handling message from session %s: %v", session.ID, rec)
			r.sendError(session, "Server error")
		}
	}()

	msg, err := messages.Deserialize(data)
	if err != nil {
		log.Error("Failed to deserialize message from session %s: %v", session.ID, err)
		r.sendError(session, "Invalid message format")
		return
	}

	if msg.MessageType() != messages.MessageTypePing {
		log.Debug("[%s] Received %s message", session.PlayerName(), msg.MessageType())
	}

	switch m := msg.(type) {
	case *messages.CreateGameRequest:
		r.handleCreateGame(session, m)
	case *messages.JoinGameRequest:
		r.handleJoinGame(session, m)
	case *messages.ListGamesRequest:
		r.handleListGames(session)
	case *messages.MoveRequest:
		r.handleMoveRequest(session, m)
	case *messages.ExitGameRequest:
		r.handleExitGame(session)
	case *messages.Ping:
		if err := session.Send(&messages.Pong{}); err != nil {
			log.Trace("Failed to send pong to session %s: %v", session.ID, err)
		}
	default:
		r.sendError(session, fmt.Sprintf("Unexpected message type: %s", msg.MessageType()))
	}
}

// HandleDisconnect converts a closed connection into a match end.
func (r *Router) HandleDisconnect(session *Session) {
	gameCode, playerID, ok := session.Game()
	if !ok {
		return
	}
	log.Info("Player %q (ID: %d) disconnected from game %s", session.PlayerName(), playerID, gameCode)

	m := r.registry.Get(gameCode)
	if m == nil {
		return
	}
	if m.HandleDisconnect(playerID) {
		r.recordEndedMatch(m, otherPlayer(playerID), "Opponent disconnected")
	}
	r.registry.CleanupEnded()
}

func (r *Router) handleCreateGame(session *Session, req *messages.CreateGameRequest) {
	if _, _, inGame := session.Game(); inGame {
		r.sendError(session, "You are already in a game")
		return
	}

	difficulty := puzzle.ParseDifficulty(req.Difficulty)
	m, err := r.registry.CreateMatch(req.PlayerName, difficulty, session)
	if err != nil {
		log.Error("Failed to create game for %q: %v", req.PlayerName, err)
		r.sendError(session, "Failed to create game")
		return
	}

	session.SetGame(m.Code(), 1, req.PlayerName)

	if err := session.Send(&messages.CreateGameResponse{GameCode: m.Code(), PlayerID: 1}); err != nil {
		log.Error("Failed to send create game response to session %s: %v", session.ID, err)
	}
	if err := session.Send(&messages.WaitingForPlayer{GameCode: m.Code()}); err != nil {
		log.Error("Failed to send waiting message to session %s: %v", session.ID, err)
	}
}

func (r *Router) handleJoinGame(session *Session, req *messages.JoinGameRequest) {
	if _, _, inGame := session.Game(); inGame {
		r.sendError(session, "You are already in a game")
		return
	}

	m, playerID, err := r.registry.JoinMatch(req.GameCode, req.PlayerName, session)
	if err != nil {
		if registry.IsNotFound(err) {
			r.sendError(session, fmt.Sprintf("Game %s not found", req.GameCode))
			return
		}
		var full *match.ErrGameFull
		if errors.As(err, &full) {
			r.sendError(session, fmt.Sprintf("Game %s is full", req.GameCode))
			return
		}
		log.Error("Failed to join game %s: %v", req.GameCode, err)
		r.sendError(session, fmt.Sprintf("Failed to join game %s", req.GameCode))
		return
	}

	session.SetGame(req.GameCode, playerID, req.PlayerName)
	m.SendGameStart()
	log.Info("Game %s started", req.GameCode)
}

func (r *Router) handleListGames(session *Session) {
	waiting := r.registry.ListWaiting()
	games := make([]messages.GameInfo, 0, len(waiting))
	for _, w := range waiting {
		games = append(games, messages.GameInfo{
			GameCode:    w.Code,
			CreatorName: w.CreatorName,
		})
	}
	if err := session.Send(&messages.ListGamesResponse{Games: games}); err != nil {
		log.Error("Failed to send game list to session %s: %v", session.ID, err)
	}
}

func (r *Router) handleMoveRequest(session *Session, req *messages.MoveRequest) {
	gameCode, playerID, ok := session.Game()
	if !ok {
		r.sendError(session, "You are not in a game")
		return
	}
	m := r.registry.Get(gameCode)
	if m == nil {
		r.sendError(session, "Game not found")
		return
	}

	result := m.ProcessMove(playerID, req.Row, req.Col, req.Value)

	resultMsg := &messages.MoveResult{
		PlayerID: result.PlayerID,
		Row:      result.Row,
		Col:      result.Col,
		Value:    result.Value,
		Success:  result.Success(),
		Correct:  result.Success(),
		Reason:   result.Outcome.Reason(),
		Score1:   m.Score1(),
		Score2:   m.Score2(),
	}

	if result.Success() {
		m.Broadcast(resultMsg)
		log.Info("Player %q (ID: %d) filled (%d,%d) = %d in game %s",
			session.PlayerName(), playerID, result.Row, result.Col, result.Value, gameCode)

		if result.GameComplete {
			m.SendGameEnd()
			winnerID := 2
			if m.Score1() > m.Score2() {
				winnerID = 1
			}
			r.recordEndedMatch(m, winnerID, "Game completed")
			log.Info("Game %s completed", gameCode)
		}
		return
	}

	log.Debug("Player %q (ID: %d) move rejected: %s", session.PlayerName(), playerID, result.Outcome.Reason())
	m.SendTo(playerID, resultMsg)

	// a penalized rejection changes the score, so the opponent gets a
	// same-shape update with position and value scrubbed
	if result.Outcome.AffectsScore() {
		m.SendToOpponent(playerID, &messages.MoveResult{
			PlayerID: result.PlayerID,
			Row:      -1,
			Col:      -1,
			Value:    0,
			Success:  false,
			Correct:  false,
			Reason:   scrubbedMoveReason,
			Score1:   m.Score1(),
			Score2:   m.Score2(),
		})
	}
}

func (r *Router) handleExitGame(session *Session) {
	gameCode, playerID, ok := session.Game()
	if !ok {
		r.sendError(session, "You are not in a game")
		return
	}
	playerName := session.PlayerName()
	session.ClearGame()

	m := r.registry.Get(gameCode)
	if m == nil {
		r.sendError(session, "Game not found")
		return
	}

	log.Info("Player %q (ID: %d) exited game %s", playerName, playerID, gameCode)
	if m.HandleDisconnect(playerID) {
		r.recordEndedMatch(m, otherPlayer(playerID), "Opponent disconnected")
	}

	r.registry.CleanupEnded()
	log.Debug("Cleaned up ended games, %d active", r.registry.ActiveCount())
}

// recordEndedMatch queues a history record for a match that just ended. The
// save channel is drained by a worker so the message path never waits on the
// database.
func (r *Router) recordEndedMatch(m *match.Match, winnerID int, reason string) {
	if r.saveGameRecordChan == nil {
		return
	}
	if !m.Started() {
		// a match abandoned before the second join has no result worth keeping
		return
	}

	player1 := m.PlayerByID(1)
	player2 := m.PlayerByID(2)
	if player1 == nil || player2 == nil {
		return
	}

	boardData, err := repositories.EncodeBoardSnapshot(m.Snapshot())
	if err != nil {
		log.Error("Failed to encode board snapshot for game %s: %v", m.Code(), err)
	}

	record := &repositories.GameRecord{
		Code:        m.Code(),
		Difficulty:  m.Difficulty().String(),
		Player1Name: player1.Name,
		Player2Name: player2.Name,
		Score1:      m.Score1(),
		Score2:      m.Score2(),
		WinnerID:    winnerID,
		Reason:      reason,
		Board:       boardData,
		EndedAt:     time.Now(),
	}

	select {
	case r.saveGameRecordChan <- record:
	default:
		log.Warn("Game record channel full, dropping record for game %s", m.Code())
	}
}

func (r *Router) sendError(session *Session, text string) {
	if err := session.Send(&messages.ErrorMessage{Text: text}); err != nil {
		log.Trace("Failed to send error to session %s: %v", session.ID, err)
	}
}

func otherPlayer(playerID int) int {
	if playerID == 1 {
		return 2
	}
	return 1
}
