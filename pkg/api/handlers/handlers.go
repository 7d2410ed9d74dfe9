package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/stickstrike/arena/pkg/game"
	"github.com/stickstrike/arena/pkg/geometry"
	"github.com/stickstrike/arena/pkg/log"
)

// GameStateResponse is the full player map the legacy service answers
// every request with.
type GameStateResponse struct {
	Players map[string]game.PlayerInfo `json:"players"`
}

type JoinRequest struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
}

type MoveRequest struct {
	PlayerID string            `json:"playerId"`
	Position *geometry.Vector2 `json:"position"`
	Velocity *geometry.Vector2 `json:"velocity"`
}

type HitRequest struct {
	AttackerID string            `json:"attackerId"`
	TargetID   string            `json:"targetId"`
	HitPoint   *geometry.Vector2 `json:"hitPoint"`
}

func HandleJoin(players *game.Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req JoinRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Failed to decode join request", http.StatusBadRequest)
			return
		}
		if req.PlayerID == "" {
			http.Error(w, "Player ID is required", http.StatusBadRequest)
			return
		}

		players.Ensure(req.PlayerID, req.PlayerName)
		writeGameState(w, players)
	}
}

func HandleMove(players *game.Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req MoveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Failed to decode move request", http.StatusBadRequest)
			return
		}
		if req.PlayerID == "" {
			http.Error(w, "Player ID is required", http.StatusBadRequest)
			return
		}

		// moves for unknown players are silently ignored
		players.SetPosition(req.PlayerID, req.Position, req.Velocity)
		writeGameState(w, players)
	}
}

func HandleHit(players *game.Directory, combat *game.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req HitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Failed to decode hit request", http.StatusBadRequest)
			return
		}

		result, err := combat.ResolveHit(req.AttackerID, req.TargetID, req.HitPoint)
		if err != nil {
			// the legacy service answers with the unchanged state when
			// either party is unknown
			log.Debug("Legacy hit ignored: %v", err)
			writeGameState(w, players)
			return
		}

		// legacy death-removal: the session path clamps health at zero
		// and keeps the player, this path removes it
		if result.RemainingHealth == 0 {
			players.Remove(req.TargetID)
		}
		writeGameState(w, players)
	}
}

func writeGameState(w http.ResponseWriter, players *game.Directory) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(GameStateResponse{Players: players.All()}); err != nil {
		log.Error("Failed to encode game state: %v", err)
		http.Error(w, "Failed to encode game state", http.StatusInternalServerError)
	}
}
