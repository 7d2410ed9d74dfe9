package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stickstrike/arena/pkg/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postJSON(t *testing.T, handler http.HandlerFunc, body string) (*httptest.ResponseRecorder, GameStateResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler(rec, req)

	var state GameStateResponse
	if rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	}
	return rec, state
}

func TestHandleJoin(t *testing.T) {
	players := game.NewDirectory()
	handler := HandleJoin(players)

	rec, state := postJSON(t, handler, `{"playerId":"p1","playerName":"Alice"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, state.Players, "p1")
	assert.Equal(t, "Alice", state.Players["p1"].Name)
	assert.Equal(t, 100, state.Players["p1"].Health)

	rec, _ = postJSON(t, handler, `{"playerName":"NoID"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = postJSON(t, handler, `{bad json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleMove(t *testing.T) {
	players := game.NewDirectory()
	players.Ensure("p1", "Alice")
	handler := HandleMove(players)

	rec, state := postJSON(t, handler, `{"playerId":"p1","position":{"x":4,"y":5},"velocity":{"x":1,"y":0}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 4.0, state.Players["p1"].Position.X)
	assert.Equal(t, 5.0, state.Players["p1"].Position.Y)
	assert.Equal(t, 1.0, state.Players["p1"].Velocity.X)

	// moving an unknown player is ignored, the state comes back as is
	rec, state = postJSON(t, handler, `{"playerId":"ghost","position":{"x":9,"y":9}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, state.Players, "ghost")
}

func TestHandleHit_DeathRemoval(t *testing.T) {
	players := game.NewDirectory()
	players.Ensure("attacker", "")
	players.Ensure("target", "")
	combat := game.NewResolver(players)
	handler := HandleHit(players, combat)

	// nine body hits bring the target to 10 health
	for i := 0; i < 9; i++ {
		rec, _ := postJSON(t, handler, `{"attackerId":"attacker","targetId":"target"}`)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	target, ok := players.Get("target")
	require.True(t, ok)
	assert.Equal(t, 10, target.Health())

	// the killing blow removes the target through this path
	rec, state := postJSON(t, handler, `{"attackerId":"attacker","targetId":"target"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, state.Players, "target")
	_, ok = players.Get("target")
	assert.False(t, ok)
}

func TestHandleHit_UnknownPlayersReturnStateUnchanged(t *testing.T) {
	players := game.NewDirectory()
	players.Ensure("known", "")
	combat := game.NewResolver(players)
	handler := HandleHit(players, combat)

	rec, state := postJSON(t, handler, `{"attackerId":"ghost","targetId":"known"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 100, state.Players["known"].Health)
}
