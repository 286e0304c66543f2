package server

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jroark/cellduel/pkg/log"
	"github.com/jroark/cellduel/pkg/messages"
)

const (
	// sendBufferSize is the outbound queue depth per connection.
	sendBufferSize = 64
	// writeWait is the deadline for a single outbound frame.
	writeWait = 10 * time.Second
)

// Session is one client connection and its player identity. It implements
// match.Sender: all outbound frames go through the send channel so a single
// writer goroutine owns the websocket write side.
type Session struct {
	ID   uuid.UUID
	conn *websocket.Conn

	send      chan []byte
	closed    chan struct{}
	closeOnce sync.Once

	lock       sync.RWMutex
	gameCode   string
	playerID   int
	playerName string
}

// NewSession wraps an upgraded connection. The caller must start the write
// pump with Start.
func NewSession(conn *websocket.Conn) *Session {
	return &Session{
		ID:     uuid.New(),
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
		closed: make(chan struct{}),
	}
}

// Start runs the write pump until the session closes.
func (s *Session) Start() {
	go s.writePump()
}

// Send serializes a message and queues it for the write pump.
func (s *Session) Send(msg messages.Message) error {
	data, err := messages.Serialize(msg)
	if err != nil {
		return fmt.Errorf("failed to serialize %s message: %v", msg.MessageType(), err)
	}

	select {
	case <-s.closed:
		return fmt.Errorf("session %s is closed", s.ID)
	case s.send <- data:
		return nil
	default:
		return fmt.Errorf("send buffer full for session %s", s.ID)
	}
}

// Connected reports whether the session is still open.
func (s *Session) Connected() bool {
	select {
	case <-s.closed:
		return false
	default:
		return true
	}
}

// Close tears the session down. Safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.closed)
		s.conn.Close()
	})
}

func (s *Session) writePump() {
	defer s.Close()
	for {
		select {
		case <-s.closed:
			return
		case data := <-s.send:
			if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Trace("Write failed for session %s: %v", s.ID, err)
				return
			}
		}
	}
}

// SetGame binds the session to a match slot.
func (s *Session) SetGame(gameCode string, playerID int, playerName string) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.gameCode = gameCode
	s.playerID = playerID
	s.playerName = playerName
}

// ClearGame unbinds the session from its match.
func (s *Session) ClearGame() {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.gameCode = ""
	s.playerID = 0
	s.playerName = ""
}

// Game returns the session's match binding; ok is false when the session is
// not in a game.
func (s *Session) Game() (gameCode string, playerID int, ok bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.gameCode, s.playerID, s.gameCode != ""
}

// PlayerName returns the display name bound at create/join time, or
// "unknown" for sessions not in a game.
func (s *Session) PlayerName() string {
	s.lock.RLock()
	defer s.lock.RUnlock()
	if s.playerName == "" {
		return "unknown"
	}
	return s.playerName
}
