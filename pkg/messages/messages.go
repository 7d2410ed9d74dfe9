// Package messages defines the wire protocol: flat JSON text frames
// with a required type discriminator. Inbound frames are decoded once
// at the boundary into the typed request structs; handlers never probe
// generic maps.
package messages

import (
	"github.com/stickstrike/arena/pkg/game"
	"github.com/stickstrike/arena/pkg/geometry"
)

// Inbound message types.
const (
	TypeGetRooms   = "get_rooms"
	TypeCreateRoom = "create_room"
	TypeJoinRoom   = "join_room"
	TypeLeaveRoom  = "leave_room"
	TypePosition   = "position"
	TypeHit        = "hit"
)

// Outbound event types.
const (
	TypeConnected       = "connected"
	TypeRoomList        = "room_list"
	TypeRoomCreated     = "room_created"
	TypeRoomJoined      = "room_joined"
	TypeGameStarted     = "game_started"
	TypeRoomLeft        = "room_left"
	TypeGameState       = "game_state"
	TypePositionUpdated = "position_updated"
	TypeHitConfirmed    = "hit_confirmed"
	TypeError           = "error"
)

// Envelope carries only the discriminator; the full frame is decoded
// into the per-type struct after dispatch.
type Envelope struct {
	Type string `json:"type"`
}

// CreateRoomRequest asks for a new room. Both fields are optional.
type CreateRoomRequest struct {
	Name       string `json:"name"`
	PlayerName string `json:"playerName"`
}

// JoinRoomRequest asks to join an existing room.
type JoinRoomRequest struct {
	RoomID     string `json:"roomId"`
	PlayerName string `json:"playerName"`
}

// PositionRequest carries a movement update. Nil vectors leave the
// corresponding player field untouched.
type PositionRequest struct {
	Position *geometry.Vector2 `json:"position"`
	Velocity *geometry.Vector2 `json:"velocity"`
}

// HitRequest reports a hit against a target. The hit point is optional;
// without it the hit lands for flat base damage.
type HitRequest struct {
	TargetID string            `json:"targetId"`
	HitPoint *geometry.Vector2 `json:"hitPoint"`
}

// Connected is sent to a connection as soon as it is established.
type Connected struct {
	Type     string `json:"type"`
	PlayerID string `json:"playerId"`
	Message  string `json:"message"`
}

func NewConnected(playerID string) Connected {
	return Connected{
		Type:     TypeConnected,
		PlayerID: playerID,
		Message:  "Welcome to the game server!",
	}
}

// RoomList carries the joinable rooms for lobby listings.
type RoomList struct {
	Type  string             `json:"type"`
	Rooms []game.RoomSummary `json:"rooms"`
}

func NewRoomList(rooms []game.RoomSummary) RoomList {
	if rooms == nil {
		rooms = []game.RoomSummary{}
	}
	return RoomList{Type: TypeRoomList, Rooms: rooms}
}

// RoomCreated confirms room creation to the creator.
type RoomCreated struct {
	Type string           `json:"type"`
	Room game.RoomSummary `json:"room"`
}

func NewRoomCreated(room game.RoomSummary) RoomCreated {
	return RoomCreated{Type: TypeRoomCreated, Room: room}
}

// RoomJoined confirms a join to the joining player, with the full
// member map.
type RoomJoined struct {
	Type    string                     `json:"type"`
	Room    game.RoomSummary           `json:"room"`
	Players map[string]game.PlayerInfo `json:"players"`
}

func NewRoomJoined(room game.RoomSummary, players map[string]game.PlayerInfo) RoomJoined {
	return RoomJoined{Type: TypeRoomJoined, Room: room, Players: players}
}

// GameStarted tells every member the room is full and the match is on.
// Same payload shape as RoomJoined.
type GameStarted struct {
	Type    string                     `json:"type"`
	Room    game.RoomSummary           `json:"room"`
	Players map[string]game.PlayerInfo `json:"players"`
}

func NewGameStarted(room game.RoomSummary, players map[string]game.PlayerInfo) GameStarted {
	return GameStarted{Type: TypeGameStarted, Room: room, Players: players}
}

// RoomLeft confirms a leave to the leaving player.
type RoomLeft struct {
	Type string `json:"type"`
}

func NewRoomLeft() RoomLeft {
	return RoomLeft{Type: TypeRoomLeft}
}

// GameState carries the full player map of a room.
type GameState struct {
	Type    string                     `json:"type"`
	Players map[string]game.PlayerInfo `json:"players"`
}

func NewGameState(players map[string]game.PlayerInfo) GameState {
	return GameState{Type: TypeGameState, Players: players}
}

// PositionUpdated acknowledges a movement update from a player that is
// not in any room.
type PositionUpdated struct {
	Type string `json:"type"`
}

func NewPositionUpdated() PositionUpdated {
	return PositionUpdated{Type: TypePositionUpdated}
}

// HitConfirmed reports a resolved hit to the attacker.
type HitConfirmed struct {
	Type            string `json:"type"`
	AttackerID      string `json:"attackerId"`
	TargetID        string `json:"targetId"`
	Damage          int    `json:"damage"`
	RemainingHealth int    `json:"remainingHealth"`
}

func NewHitConfirmed(result game.HitResult) HitConfirmed {
	return HitConfirmed{
		Type:            TypeHitConfirmed,
		AttackerID:      result.AttackerID,
		TargetID:        result.TargetID,
		Damage:          result.Damage,
		RemainingHealth: result.RemainingHealth,
	}
}

// ErrorEvent carries a human-readable failure message to the requester
// only; errors are never broadcast.
type ErrorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func NewError(message string) ErrorEvent {
	return ErrorEvent{Type: TypeError, Message: message}
}
