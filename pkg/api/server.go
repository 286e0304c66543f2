package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/jroark/cellduel/pkg/api/handlers"
	"github.com/jroark/cellduel/pkg/log"
	"github.com/jroark/cellduel/pkg/registry"
	"github.com/jroark/cellduel/pkg/repositories"
)

type APIServer struct {
	server *http.Server
}

type NewAPIServerOptions struct {
	Port       int
	Registry   *registry.Registry
	Repository repositories.Repository
}

// NewAPIServer creates a new http.Server for handling API requests
func NewAPIServer(opts NewAPIServerOptions) *APIServer {
	router := mux.NewRouter()
	router.HandleFunc("/healthz", handlers.HandleHealthz()).Methods(http.MethodGet)
	router.HandleFunc("/api/games", handlers.HandleListGames(opts.Registry)).Methods(http.MethodGet)
	router.HandleFunc("/api/history", handlers.HandleListHistory(opts.Repository)).Methods(http.MethodGet)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", opts.Port),
		Handler: router,
	}
	return &APIServer{
		server: server,
	}
}

// Start starts the APIServer
func (s *APIServer) Start() {
	log.Info("API server listening on %s", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			log.Info("API server closed")
			return
		}
		log.Error("API server error: %v", err)
	}
}

// Stop stops the APIServer
func (s *APIServer) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
