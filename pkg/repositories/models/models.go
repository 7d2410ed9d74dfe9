package models

import "time"

// CombatEvent is one resolved hit, recorded for match history.
type CombatEvent struct {
	AttackerID      string
	TargetID        string
	Region          string
	Damage          int
	RemainingHealth int
	Timestamp       time.Time
}

// Room lifecycle outcomes recorded for match history.
const (
	RoomEventStarted = "started"
	RoomEventClosed  = "closed"
)

// RoomEvent is one room lifecycle transition.
type RoomEvent struct {
	RoomID    string
	Name      string
	Event     string
	Timestamp time.Time
}
