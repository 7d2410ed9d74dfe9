package router

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/stickstrike/arena/pkg/broadcast"
	"github.com/stickstrike/arena/pkg/game"
	"github.com/stickstrike/arena/pkg/queue"
	"github.com/stickstrike/arena/pkg/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	mu     sync.Mutex
	frames [][]byte
}

func (c *fakeConn) Send(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	frame := make([]byte, len(payload))
	copy(frame, payload)
	c.frames = append(c.frames, frame)
	return nil
}

func (c *fakeConn) Close() error {
	return nil
}

func (c *fakeConn) events(t *testing.T) []map[string]interface{} {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	events := make([]map[string]interface{}, 0, len(c.frames))
	for _, frame := range c.frames {
		var event map[string]interface{}
		require.NoError(t, json.Unmarshal(frame, &event))
		events = append(events, event)
	}
	return events
}

func (c *fakeConn) eventsOfType(t *testing.T, eventType string) []map[string]interface{} {
	t.Helper()
	var matching []map[string]interface{}
	for _, event := range c.events(t) {
		if event["type"] == eventType {
			matching = append(matching, event)
		}
	}
	return matching
}

func (c *fakeConn) lastOfType(t *testing.T, eventType string) map[string]interface{} {
	t.Helper()
	matching := c.eventsOfType(t, eventType)
	require.NotEmpty(t, matching, "expected at least one %q event", eventType)
	return matching[len(matching)-1]
}

type testServer struct {
	router  *Router
	players *game.Directory
	rooms   *game.RoomManager
	history *queue.InMemoryQueue
}

func newTestServer() *testServer {
	players := game.NewDirectory()
	rooms := game.NewRoomManager()
	registry := sessions.NewRegistry(players)
	broadcaster := broadcast.NewBroadcaster(registry)
	history := queue.NewInMemoryQueue()

	router := NewRouter(NewRouterOptions{
		Players:      players,
		Rooms:        rooms,
		Combat:       game.NewResolver(players),
		Sessions:     registry,
		Broadcaster:  broadcaster,
		HistoryQueue: history,
	})
	return &testServer{
		router:  router,
		players: players,
		rooms:   rooms,
		history: history,
	}
}

func (s *testServer) connect(t *testing.T) (*fakeConn, string, string) {
	t.Helper()
	conn := &fakeConn{}
	sessionID := s.router.HandleConnect(conn)
	connected := conn.lastOfType(t, "connected")
	playerID, _ := connected["playerId"].(string)
	require.NotEmpty(t, playerID)
	return conn, sessionID, playerID
}

func (s *testServer) send(sessionID, frame string) {
	s.router.HandleMessage(sessionID, []byte(frame))
}

// Scenario A: connect two sessions, create a room, join it, and watch
// the game start for both members.
func TestRouter_CreateJoinStart(t *testing.T) {
	server := newTestServer()

	conn1, session1, player1 := server.connect(t)
	conn2, session2, player2 := server.connect(t)
	assert.NotEqual(t, player1, player2)

	server.send(session1, `{"type":"create_room","name":"Arena"}`)
	created := conn1.lastOfType(t, "room_created")
	room := created["room"].(map[string]interface{})
	assert.Equal(t, "Arena", room["name"])
	assert.Equal(t, float64(1), room["playerCount"])
	assert.Equal(t, float64(2), room["maxPlayers"])
	assert.Equal(t, false, room["started"])
	roomID := room["id"].(string)

	server.send(session2, fmt.Sprintf(`{"type":"join_room","roomId":%q}`, roomID))

	joined := conn2.lastOfType(t, "room_joined")
	joinedPlayers := joined["players"].(map[string]interface{})
	assert.Contains(t, joinedPlayers, player1)
	assert.Contains(t, joinedPlayers, player2)

	for _, conn := range []*fakeConn{conn1, conn2} {
		started := conn.lastOfType(t, "game_started")
		startedRoom := started["room"].(map[string]interface{})
		assert.Equal(t, float64(2), startedRoom["playerCount"])
		assert.Equal(t, true, startedRoom["started"])
		startedPlayers := started["players"].(map[string]interface{})
		assert.Contains(t, startedPlayers, player1)
		assert.Contains(t, startedPlayers, player2)
	}

	// a full started room never shows up in the lobby
	conn3, session3, _ := server.connect(t)
	server.send(session3, `{"type":"get_rooms"}`)
	list := conn3.lastOfType(t, "room_list")
	assert.Empty(t, list["rooms"])
}

// Scenario B: a head shot inside the room is confirmed to the attacker
// and the updated shared state reaches both members.
func TestRouter_HitInRoom(t *testing.T) {
	server := newTestServer()

	conn1, session1, _ := server.connect(t)
	conn2, session2, player2 := server.connect(t)

	server.send(session1, `{"type":"create_room","name":"Arena"}`)
	roomID := conn1.lastOfType(t, "room_created")["room"].(map[string]interface{})["id"].(string)
	server.send(session2, fmt.Sprintf(`{"type":"join_room","roomId":%q}`, roomID))

	// target is at the origin; radius 20 puts y=-20 well above the band
	server.send(session1, fmt.Sprintf(`{"type":"hit","targetId":%q,"hitPoint":{"x":0,"y":-20}}`, player2))

	confirmed := conn1.lastOfType(t, "hit_confirmed")
	assert.Equal(t, float64(15), confirmed["damage"])
	assert.Equal(t, float64(85), confirmed["remainingHealth"])
	assert.Equal(t, player2, confirmed["targetId"])

	for _, conn := range []*fakeConn{conn1, conn2} {
		state := conn.lastOfType(t, "game_state")
		target := state["players"].(map[string]interface{})[player2].(map[string]interface{})
		assert.Equal(t, float64(85), target["health"])
	}

	// only the attacker gets the confirmation
	assert.Empty(t, conn2.eventsOfType(t, "hit_confirmed"))

	// the hit is queued for match history
	events, err := server.history.ReadAllMessages()
	require.NoError(t, err)
	require.NotEmpty(t, events)
}

// Scenario C: a member disconnecting empties nothing visible but the
// lobby never lists the room again.
func TestRouter_DisconnectCleansUp(t *testing.T) {
	server := newTestServer()

	conn1, session1, _ := server.connect(t)
	_, session2, player2 := server.connect(t)

	server.send(session1, `{"type":"create_room","name":"Arena"}`)
	roomID := conn1.lastOfType(t, "room_created")["room"].(map[string]interface{})["id"].(string)
	server.send(session2, fmt.Sprintf(`{"type":"join_room","roomId":%q}`, roomID))

	server.router.HandleDisconnect(session2)

	// the disconnected player is gone from the directory
	_, ok := server.players.Get(player2)
	assert.False(t, ok)

	// the survivor got a fresh lobby listing without the room
	list := conn1.lastOfType(t, "room_list")
	assert.Empty(t, list["rooms"])

	conn3, session3, _ := server.connect(t)
	server.send(session3, `{"type":"get_rooms"}`)
	assert.Empty(t, conn3.lastOfType(t, "room_list")["rooms"])

	// disconnecting the same session again is a no-op
	assert.NotPanics(t, func() {
		server.router.HandleDisconnect(session2)
	})
}

func TestRouter_DisconnectOfLastMemberRemovesRoom(t *testing.T) {
	server := newTestServer()

	conn1, session1, _ := server.connect(t)
	server.send(session1, `{"type":"create_room","name":"Arena"}`)
	roomID := conn1.lastOfType(t, "room_created")["room"].(map[string]interface{})["id"].(string)

	server.router.HandleDisconnect(session1)
	_, ok := server.rooms.Get(roomID)
	assert.False(t, ok)
}

func TestRouter_JoinValidation(t *testing.T) {
	server := newTestServer()
	conn1, session1, _ := server.connect(t)
	server.send(session1, `{"type":"create_room","name":"Arena"}`)
	roomID := conn1.lastOfType(t, "room_created")["room"].(map[string]interface{})["id"].(string)

	tests := []struct {
		name        string
		frame       string
		wantMessage string
	}{
		{
			name:        "missing room id",
			frame:       `{"type":"join_room"}`,
			wantMessage: "Room ID is required",
		},
		{
			name:        "unknown room",
			frame:       `{"type":"join_room","roomId":"nope"}`,
			wantMessage: "Room not found: nope",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, session, _ := server.connect(t)
			server.send(session, tt.frame)
			errEvent := conn.lastOfType(t, "error")
			assert.Equal(t, tt.wantMessage, errEvent["message"])
		})
	}

	// no mutation happened: the room still has exactly one member
	room, ok := server.rooms.Get(roomID)
	require.True(t, ok)
	assert.Equal(t, 1, room.PlayerCount())
	assert.False(t, room.IsStarted())
}

func TestRouter_JoinFullRoomFails(t *testing.T) {
	server := newTestServer()
	conn1, session1, _ := server.connect(t)
	_, session2, _ := server.connect(t)
	conn3, session3, _ := server.connect(t)

	server.send(session1, `{"type":"create_room"}`)
	roomID := conn1.lastOfType(t, "room_created")["room"].(map[string]interface{})["id"].(string)
	server.send(session2, fmt.Sprintf(`{"type":"join_room","roomId":%q}`, roomID))

	server.send(session3, fmt.Sprintf(`{"type":"join_room","roomId":%q}`, roomID))
	errEvent := conn3.lastOfType(t, "error")
	assert.Contains(t, []string{"room is full", "game has already started"}, errEvent["message"])

	room, ok := server.rooms.Get(roomID)
	require.True(t, ok)
	assert.Equal(t, 2, room.PlayerCount())
}

func TestRouter_LeaveRoom(t *testing.T) {
	server := newTestServer()
	conn1, session1, _ := server.connect(t)

	// leaving while in no room is a state conflict
	server.send(session1, `{"type":"leave_room"}`)
	assert.Equal(t, "You are not in any room", conn1.lastOfType(t, "error")["message"])

	server.send(session1, `{"type":"create_room","name":"Arena"}`)
	roomID := conn1.lastOfType(t, "room_created")["room"].(map[string]interface{})["id"].(string)

	server.send(session1, `{"type":"leave_room"}`)
	assert.NotEmpty(t, conn1.eventsOfType(t, "room_left"))

	_, ok := server.rooms.Get(roomID)
	assert.False(t, ok)
}

func TestRouter_PositionUpdates(t *testing.T) {
	server := newTestServer()
	conn1, session1, player1 := server.connect(t)

	// not in a room: private acknowledgement only
	server.send(session1, `{"type":"position","position":{"x":5,"y":6},"velocity":{"x":1,"y":0}}`)
	assert.NotEmpty(t, conn1.eventsOfType(t, "position_updated"))

	player, ok := server.players.Get(player1)
	require.True(t, ok)
	assert.Equal(t, 5.0, player.Info().Position.X)

	// in a room: the whole room sees the new shared state
	conn2, session2, _ := server.connect(t)
	server.send(session1, `{"type":"create_room","name":"Arena"}`)
	roomID := conn1.lastOfType(t, "room_created")["room"].(map[string]interface{})["id"].(string)
	server.send(session2, fmt.Sprintf(`{"type":"join_room","roomId":%q}`, roomID))

	server.send(session1, `{"type":"position","position":{"x":7,"y":8}}`)
	state := conn2.lastOfType(t, "game_state")
	moved := state["players"].(map[string]interface{})[player1].(map[string]interface{})
	position := moved["position"].(map[string]interface{})
	assert.Equal(t, float64(7), position["x"])
	assert.Equal(t, float64(8), position["y"])
}

func TestRouter_HitValidation(t *testing.T) {
	server := newTestServer()
	conn1, session1, _ := server.connect(t)

	server.send(session1, `{"type":"hit"}`)
	assert.Equal(t, "Target ID is required", conn1.lastOfType(t, "error")["message"])

	server.send(session1, `{"type":"hit","targetId":"missing"}`)
	assert.Equal(t, "Target not found in registry", conn1.lastOfType(t, "error")["message"])
}

func TestRouter_HitOutsideRoomSkipsBroadcast(t *testing.T) {
	server := newTestServer()
	conn1, session1, _ := server.connect(t)
	conn2, _, player2 := server.connect(t)

	server.send(session1, fmt.Sprintf(`{"type":"hit","targetId":%q}`, player2))

	confirmed := conn1.lastOfType(t, "hit_confirmed")
	assert.Equal(t, float64(10), confirmed["damage"])
	assert.Equal(t, float64(90), confirmed["remainingHealth"])
	assert.Empty(t, conn2.eventsOfType(t, "game_state"))
}

func TestRouter_MalformedInput(t *testing.T) {
	server := newTestServer()

	tests := []struct {
		name        string
		frame       string
		wantMessage string
	}{
		{
			name:        "unparseable frame",
			frame:       `{not json`,
			wantMessage: "Message could not be parsed",
		},
		{
			name:        "missing type",
			frame:       `{"roomId":"x"}`,
			wantMessage: "Message type is required",
		},
		{
			name:        "unknown type",
			frame:       `{"type":"teleport"}`,
			wantMessage: "Unknown message type: teleport",
		},
		{
			name:        "wrong field shape",
			frame:       `{"type":"position","position":"not-a-vector"}`,
			wantMessage: "Message could not be parsed",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, session, _ := server.connect(t)
			server.send(session, tt.frame)
			errEvent := conn.lastOfType(t, "error")
			assert.Equal(t, tt.wantMessage, errEvent["message"])
		})
	}
}

func TestRouter_ConcurrentJoinersNeverBothAdmitted(t *testing.T) {
	server := newTestServer()
	connCreator, sessionCreator, _ := server.connect(t)
	server.send(sessionCreator, `{"type":"create_room","name":"contested"}`)
	roomID := connCreator.lastOfType(t, "room_created")["room"].(map[string]interface{})["id"].(string)

	const contenders = 16
	var wg sync.WaitGroup
	conns := make([]*fakeConn, contenders)
	for i := 0; i < contenders; i++ {
		conn, session, _ := server.connect(t)
		conns[i] = conn
		wg.Add(1)
		go func(session string) {
			defer wg.Done()
			server.send(session, fmt.Sprintf(`{"type":"join_room","roomId":%q}`, roomID))
		}(session)
	}
	wg.Wait()

	winners := 0
	for _, conn := range conns {
		if len(conn.eventsOfType(t, "room_joined")) > 0 {
			winners++
		}
	}
	assert.Equal(t, 1, winners)

	room, ok := server.rooms.Get(roomID)
	require.True(t, ok)
	assert.Equal(t, 2, room.PlayerCount())
	assert.True(t, room.IsStarted())
}
