package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jroark/cellduel/pkg/log"
)

const (
	// readWait bounds how long a connection may stay silent. Clients ping
	// well inside this window.
	readWait = 60 * time.Second
	// maxMessageSize bounds a single inbound frame.
	maxMessageSize = 4096
)

// WSServer accepts websocket connections and feeds inbound frames to the
// Router. Each connection gets a Session and a read loop; messages on one
// connection are handled in order.
type WSServer struct {
	router   *Router
	server   *http.Server
	upgrader websocket.Upgrader
}

// NewWSServerOptions contains options for creating a new WSServer.
type NewWSServerOptions struct {
	Port   int
	Router *Router
}

func NewWSServer(opts NewWSServerOptions) *WSServer {
	s := &WSServer{
		router: opts.Router,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  maxMessageSize,
			WriteBufferSize: maxMessageSize,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleUpgrade)
	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", opts.Port),
		Handler: mux,
	}

	return s
}

// Start starts the WSServer. It blocks until the server is shut down.
func (s *WSServer) Start() {
	log.Info("Websocket server listening on %s", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			log.Info("Websocket server closed")
			return
		}
		log.Error("Websocket server error: %v", err)
	}
}

// Stop stops the WSServer.
func (s *WSServer) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *WSServer) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("Failed to upgrade connection: %v", err)
		return
	}

	session := NewSession(conn)
	session.Start()
	log.Info("Session %s connected from %s", session.ID, r.RemoteAddr)

	go s.readLoop(session)
}

// readLoop reads frames until the connection drops, then hands the session
// to the router so an in-progress match can be ended.
func (s *WSServer) readLoop(session *Session) {
	defer func() {
		session.Close()
		s.router.HandleDisconnect(session)
		log.Info("Session %s disconnected", session.ID)
	}()

	session.conn.SetReadLimit(maxMessageSize)
	for {
		if err := session.conn.SetReadDeadline(time.Now().Add(readWait)); err != nil {
			return
		}
		_, data, err := session.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug("Read failed for session %s: %v", session.ID, err)
			}
			return
		}
		s.router.HandleMessage(session, data)
	}
}
