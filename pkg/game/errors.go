package game

import "fmt"

type ErrPlayerNotFound struct {
	PlayerID string
}

func (e *ErrPlayerNotFound) Error() string {
	return fmt.Sprintf("player not found: %s", e.PlayerID)
}

type ErrRoomNotFound struct {
	RoomID string
}

func (e *ErrRoomNotFound) Error() string {
	return fmt.Sprintf("room not found: %s", e.RoomID)
}

type ErrRoomFull struct {
	RoomID string
}

func (e *ErrRoomFull) Error() string {
	return "room is full"
}

type ErrRoomStarted struct {
	RoomID string
}

func (e *ErrRoomStarted) Error() string {
	return "game has already started"
}

type ErrNotInRoom struct {
	PlayerID string
}

func (e *ErrNotInRoom) Error() string {
	return "you are not in any room"
}

// IsNotFound reports whether err refers to a missing player or room.
func IsNotFound(err error) bool {
	switch err.(type) {
	case *ErrPlayerNotFound, *ErrRoomNotFound:
		return true
	}
	return false
}

// IsStateConflict reports whether err is a room state conflict
// (full, already started, or not a member of any room).
func IsStateConflict(err error) bool {
	switch err.(type) {
	case *ErrRoomFull, *ErrRoomStarted, *ErrNotInRoom:
		return true
	}
	return false
}
