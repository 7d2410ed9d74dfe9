// Package api exposes the legacy request/response game-state service.
// It has no room or session awareness; it is a thin adapter over the
// same core engine the session router uses, kept so older clients keep
// working against one set of game rules.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/stickstrike/arena/pkg/api/handlers"
	"github.com/stickstrike/arena/pkg/game"
	"github.com/stickstrike/arena/pkg/log"
)

type APIServer struct {
	server *http.Server
}

type NewAPIServerOptions struct {
	Port    int
	Players *game.Directory
	Combat  *game.Resolver
}

// NewAPIServer creates a new http.Server for handling legacy game
// requests.
func NewAPIServer(opts NewAPIServerOptions) *APIServer {
	router := mux.NewRouter()
	router.HandleFunc("/game/join", handlers.HandleJoin(opts.Players)).Methods(http.MethodPost)
	router.HandleFunc("/game/move", handlers.HandleMove(opts.Players)).Methods(http.MethodPost)
	router.HandleFunc("/game/hit", handlers.HandleHit(opts.Players, opts.Combat)).Methods(http.MethodPost)
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

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
