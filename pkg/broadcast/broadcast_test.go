package broadcast

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stickstrike/arena/pkg/game"
	"github.com/stickstrike/arena/pkg/messages"
	"github.com/stickstrike/arena/pkg/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	sent    [][]byte
	sendErr error
}

func (c *fakeConn) Send(payload []byte) error {
	if c.sendErr != nil {
		return c.sendErr
	}
	c.sent = append(c.sent, payload)
	return nil
}

func (c *fakeConn) Close() error {
	return nil
}

func TestBroadcaster_BroadcastAllIsolatesFailures(t *testing.T) {
	registry := sessions.NewRegistry(game.NewDirectory())
	broadcaster := NewBroadcaster(registry)

	healthy := &fakeConn{}
	broken := &fakeConn{sendErr: errors.New("connection reset")}
	registry.Connect(healthy)
	registry.Connect(broken)

	// the failed delivery must not prevent the healthy one
	broadcaster.BroadcastAll(messages.NewRoomLeft())
	require.Len(t, healthy.sent, 1)

	var event messages.RoomLeft
	require.NoError(t, json.Unmarshal(healthy.sent[0], &event))
	assert.Equal(t, messages.TypeRoomLeft, event.Type)
}

func TestBroadcaster_BroadcastToRoom(t *testing.T) {
	directory := game.NewDirectory()
	registry := sessions.NewRegistry(directory)
	rooms := game.NewRoomManager()
	broadcaster := NewBroadcaster(registry)

	memberConn := &fakeConn{}
	outsiderConn := &fakeConn{}
	_, memberID := registry.Connect(memberConn)
	registry.Connect(outsiderConn)

	room := rooms.Create("Arena")
	member, _ := directory.Get(memberID)
	require.NoError(t, rooms.Join(room.ID, member))

	// a member without a live session is skipped without error
	ghost := directory.Ensure("ghost", "")
	require.NoError(t, rooms.Join(room.ID, ghost))

	broadcaster.BroadcastToRoom(room, messages.NewGameState(room.PlayerInfos()))
	assert.Len(t, memberConn.sent, 1)
	assert.Empty(t, outsiderConn.sent)
}

func TestBroadcaster_SendToDropsClosedConnection(t *testing.T) {
	registry := sessions.NewRegistry(game.NewDirectory())
	broadcaster := NewBroadcaster(registry)

	closed := &fakeConn{sendErr: errors.New("connection is closed")}
	assert.NotPanics(t, func() {
		broadcaster.SendTo(closed, messages.NewRoomLeft())
	})
}
