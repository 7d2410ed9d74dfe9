// Package router dispatches inbound connection events to the game
// core and fans the results back out through the broadcaster.
package router

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/stickstrike/arena/pkg/broadcast"
	"github.com/stickstrike/arena/pkg/game"
	"github.com/stickstrike/arena/pkg/log"
	"github.com/stickstrike/arena/pkg/messages"
	"github.com/stickstrike/arena/pkg/network"
	"github.com/stickstrike/arena/pkg/queue"
	"github.com/stickstrike/arena/pkg/repositories/models"
	"github.com/stickstrike/arena/pkg/sessions"
)

// Router owns the dispatch table for inbound message kinds. Every
// failure is answered with an error event to the sender only; nothing
// that happens while handling a message terminates the connection.
type Router struct {
	players      *game.Directory
	rooms        *game.RoomManager
	combat       *game.Resolver
	sessions     *sessions.Registry
	broadcaster  *broadcast.Broadcaster
	historyQueue queue.Queue
}

type NewRouterOptions struct {
	Players      *game.Directory
	Rooms        *game.RoomManager
	Combat       *game.Resolver
	Sessions     *sessions.Registry
	Broadcaster  *broadcast.Broadcaster
	HistoryQueue queue.Queue
}

// NewRouter creates a new Router.
func NewRouter(opts NewRouterOptions) *Router {
	return &Router{
		players:      opts.Players,
		rooms:        opts.Rooms,
		combat:       opts.Combat,
		sessions:     opts.Sessions,
		broadcaster:  opts.Broadcaster,
		historyQueue: opts.HistoryQueue,
	}
}

// HandleConnect registers the connection, issues a player identity,
// and welcomes the new connection with its player id.
func (r *Router) HandleConnect(conn network.Conn) string {
	sessionID, playerID := r.sessions.Connect(conn)
	log.Info("Session %s connected as player %s", sessionID, playerID)
	r.broadcaster.SendTo(conn, messages.NewConnected(playerID))
	return sessionID
}

// HandleDisconnect removes the player from any room it belongs to,
// drops the player and the session binding, and tells the remaining
// connections about the changed lobby. Unknown sessions are a no-op.
func (r *Router) HandleDisconnect(sessionID string) {
	playerID, ok := r.sessions.Disconnect(sessionID)
	if !ok {
		return
	}
	log.Info("Session %s disconnected, removing player %s", sessionID, playerID)

	if room, err := r.rooms.Leave(playerID); err == nil {
		if room.PlayerCount() == 0 {
			r.recordRoomEvent(room, models.RoomEventClosed)
		}
	}
	r.players.Remove(playerID)
	r.broadcastRoomList()
}

// HandleMessage dispatches one inbound frame by its declared type.
func (r *Router) HandleMessage(sessionID string, payload []byte) {
	conn, ok := r.sessions.ConnOfSession(sessionID)
	if !ok {
		log.Warn("Dropping message from untracked session %s", sessionID)
		return
	}

	defer func() {
		if rec := recover(); rec != nil {
			log.Error("Recovered from panic while handling message: %v", rec)
			r.sendError(conn, fmt.Sprintf("Error handling message: %v", rec))
		}
	}()

	var envelope messages.Envelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		r.sendError(conn, "Message could not be parsed")
		return
	}
	if envelope.Type == "" {
		r.sendError(conn, "Message type is required")
		return
	}

	playerID, ok := r.sessions.PlayerOf(sessionID)
	if !ok {
		r.sendError(conn, "Player not found")
		return
	}
	log.Trace("Dispatching %s from player %s", envelope.Type, playerID)

	switch envelope.Type {
	case messages.TypeGetRooms:
		r.handleGetRooms(conn)
	case messages.TypeCreateRoom:
		r.handleCreateRoom(conn, playerID, payload)
	case messages.TypeJoinRoom:
		r.handleJoinRoom(conn, playerID, payload)
	case messages.TypeLeaveRoom:
		r.handleLeaveRoom(conn, playerID)
	case messages.TypePosition:
		r.handlePosition(conn, playerID, payload)
	case messages.TypeHit:
		r.handleHit(conn, playerID, payload)
	default:
		r.sendError(conn, fmt.Sprintf("Unknown message type: %s", envelope.Type))
	}
}

func (r *Router) handleGetRooms(conn network.Conn) {
	r.broadcaster.SendTo(conn, messages.NewRoomList(r.joinableSummaries()))
}

func (r *Router) handleCreateRoom(conn network.Conn, playerID string, payload []byte) {
	var req messages.CreateRoomRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		r.sendError(conn, "Message could not be parsed")
		return
	}

	player := r.players.Ensure(playerID, req.PlayerName)
	room := r.rooms.Create(req.Name)
	if err := r.rooms.Join(room.ID, player); err != nil {
		r.sendError(conn, err.Error())
		return
	}

	r.broadcaster.SendTo(conn, messages.NewRoomCreated(room.Summary()))
	r.broadcastRoomList()
}

func (r *Router) handleJoinRoom(conn network.Conn, playerID string, payload []byte) {
	var req messages.JoinRoomRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		r.sendError(conn, "Message could not be parsed")
		return
	}
	if req.RoomID == "" {
		r.sendError(conn, "Room ID is required")
		return
	}

	player := r.players.Ensure(playerID, req.PlayerName)
	if err := r.rooms.Join(req.RoomID, player); err != nil {
		r.sendError(conn, joinErrorMessage(err, req.RoomID))
		return
	}

	room, ok := r.rooms.Get(req.RoomID)
	if !ok {
		// room emptied out between the join and the lookup
		r.sendError(conn, fmt.Sprintf("Room not found: %s", req.RoomID))
		return
	}

	r.broadcaster.SendTo(conn, messages.NewRoomJoined(room.Summary(), room.PlayerInfos()))

	// the join path drives the one-shot start transition
	if room.IsFull() && room.Start() {
		r.recordRoomEvent(room, models.RoomEventStarted)
		r.broadcaster.BroadcastToRoom(room, messages.NewGameStarted(room.Summary(), room.PlayerInfos()))
	}

	r.broadcastRoomList()
}

func joinErrorMessage(err error, roomID string) string {
	if game.IsNotFound(err) {
		return fmt.Sprintf("Room not found: %s", roomID)
	}
	return err.Error()
}

func (r *Router) handleLeaveRoom(conn network.Conn, playerID string) {
	room, err := r.rooms.Leave(playerID)
	if err != nil {
		r.sendError(conn, "You are not in any room")
		return
	}
	if room.PlayerCount() == 0 {
		r.recordRoomEvent(room, models.RoomEventClosed)
	}

	r.broadcaster.SendTo(conn, messages.NewRoomLeft())
	r.broadcastRoomList()
}

func (r *Router) handlePosition(conn network.Conn, playerID string, payload []byte) {
	var req messages.PositionRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		r.sendError(conn, "Message could not be parsed")
		return
	}

	if _, ok := r.players.Get(playerID); !ok {
		r.sendError(conn, "Player not found in registry")
		return
	}
	r.players.SetPosition(playerID, req.Position, req.Velocity)

	room, ok := r.rooms.FindRoomOf(playerID)
	if !ok {
		// not in a room: acknowledge the sender only
		r.broadcaster.SendTo(conn, messages.NewPositionUpdated())
		return
	}
	r.broadcaster.BroadcastToRoom(room, messages.NewGameState(room.PlayerInfos()))
}

func (r *Router) handleHit(conn network.Conn, playerID string, payload []byte) {
	var req messages.HitRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		r.sendError(conn, "Message could not be parsed")
		return
	}
	if req.TargetID == "" {
		r.sendError(conn, "Target ID is required")
		return
	}

	result, err := r.combat.ResolveHit(playerID, req.TargetID, req.HitPoint)
	if err != nil {
		r.sendError(conn, hitErrorMessage(err, playerID))
		return
	}
	log.Debug("Hit: %s hit %s in the %s for %d damage, %d health remaining",
		result.AttackerID, result.TargetID, result.Region, result.Damage, result.RemainingHealth)

	r.broadcaster.SendTo(conn, messages.NewHitConfirmed(result))
	r.recordCombatEvent(result)

	// the shared state broadcast only goes out when both parties are
	// members of the same room
	room, ok := r.rooms.FindRoomOf(playerID)
	if !ok || !room.HasPlayer(req.TargetID) {
		return
	}
	r.broadcaster.BroadcastToRoom(room, messages.NewGameState(room.PlayerInfos()))
}

func hitErrorMessage(err error, attackerID string) string {
	notFound, ok := err.(*game.ErrPlayerNotFound)
	if !ok {
		return err.Error()
	}
	if notFound.PlayerID == attackerID {
		return "Attacker not found in registry"
	}
	return "Target not found in registry"
}

func (r *Router) broadcastRoomList() {
	r.broadcaster.BroadcastAll(messages.NewRoomList(r.joinableSummaries()))
}

func (r *Router) joinableSummaries() []game.RoomSummary {
	joinable := r.rooms.ListJoinable()
	summaries := make([]game.RoomSummary, 0, len(joinable))
	for _, room := range joinable {
		summaries = append(summaries, room.Summary())
	}
	return summaries
}

func (r *Router) recordCombatEvent(result game.HitResult) {
	if r.historyQueue == nil {
		return
	}
	event := models.CombatEvent{
		AttackerID:      result.AttackerID,
		TargetID:        result.TargetID,
		Region:          result.Region,
		Damage:          result.Damage,
		RemainingHealth: result.RemainingHealth,
		Timestamp:       time.Now(),
	}
	if err := r.historyQueue.Enqueue(event); err != nil {
		log.Warn("Failed to enqueue combat event: %v", err)
	}
}

func (r *Router) recordRoomEvent(room *game.Room, kind string) {
	if r.historyQueue == nil {
		return
	}
	event := models.RoomEvent{
		RoomID:    room.ID,
		Name:      room.Name,
		Event:     kind,
		Timestamp: time.Now(),
	}
	if err := r.historyQueue.Enqueue(event); err != nil {
		log.Warn("Failed to enqueue room event: %v", err)
	}
}

func (r *Router) sendError(conn network.Conn, message string) {
	r.broadcaster.SendTo(conn, messages.NewError(message))
}
