package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/dota2-beta/Dungeon-Game/internal/engine"
	"github.com/dota2-beta/Dungeon-Game/internal/network"
	"github.com/dota2-beta/Dungeon-Game/pkg/api"
	"github.com/dota2-beta/Dungeon-Game/pkg/dungeon"
	"github.com/dota2-beta/Dungeon-Game/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

type wireMessage struct {
	Type    string          `json:"actionType"`
	Payload json.RawMessage `json:"payload"`
}

func newTestServer(t *testing.T) (*httptest.Server, *engine.Manager) {
	t.Helper()

	catalog, err := dungeon.DefaultCatalog()
	require.NoError(t, err)
	rules := engine.DefaultRules()
	factory := dungeon.NewFactory(catalog, rules.PlayerStartAP)
	world, err := dungeon.NewWorld("", factory)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	hub := network.NewBroadcaster()
	manager := engine.NewManager(ctx, world, factory, hub, rules)

	srv := New(manager, hub, "0", "warrior")
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		manager.Shutdown()
		cancel()
	})
	return ts, manager
}

func dial(t *testing.T, ts *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws" + query
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, action string, payload any) {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(api.ClientCommand{Action: action, Payload: raw}))
}

// readUntil читает сообщения, пока не придёт сообщение типа typ
func readUntil(t *testing.T, conn *websocket.Conn, typ string) wireMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	for {
		var msg wireMessage
		require.NoError(t, conn.ReadJSON(&msg), "waiting for %s", typ)
		if msg.Type == typ {
			return msg
		}
	}
}

func readError(t *testing.T, conn *websocket.Conn) api.ErrorPayload {
	t.Helper()
	msg := readUntil(t, conn, api.MsgError)
	var p api.ErrorPayload
	require.NoError(t, json.Unmarshal(msg.Payload, &p))
	return p
}

func join(t *testing.T, conn *websocket.Conn, userID, sessionID string) api.JoinedPayload {
	t.Helper()
	send(t, conn, api.ActionJoin, api.JoinPayload{SessionID: sessionID, UserID: userID})
	msg := readUntil(t, conn, api.MsgJoined)
	var joined api.JoinedPayload
	require.NoError(t, json.Unmarshal(msg.Payload, &joined))
	return joined
}

func TestServer_JoinAndCommands(t *testing.T) {
	ts, manager := newTestServer(t)
	conn := dial(t, ts, "")

	joined := join(t, conn, "alice", "s1")
	assert.Equal(t, "s1", joined.SessionID)
	assert.Equal(t, "alice", joined.UserID)
	require.NotEmpty(t, joined.EntityID)

	var snap engine.SessionSnapshot
	require.NoError(t, json.Unmarshal(readUntil(t, conn, api.MsgSnapshot).Payload, &snap))
	assert.Equal(t, "s1", snap.ID)
	found := false
	for _, e := range snap.Entities {
		if e.ID == joined.EntityID {
			found = true
		}
	}
	assert.True(t, found, "snapshot must contain the joined player")

	t.Run("rule rejection arrives as error event", func(t *testing.T) {
		send(t, conn, api.ActionMove, api.MovePayload{Q: 1000, R: 0})
		assert.Equal(t, "MOVE_INVALID_DISTANCE", readError(t, conn).Code)
	})

	t.Run("unknown action", func(t *testing.T) {
		send(t, conn, "DANCE", nil)
		assert.Equal(t, api.CodeUnknownAction, readError(t, conn).Code)
	})

	t.Run("invalid payload", func(t *testing.T) {
		send(t, conn, api.ActionAttack, api.AttackPayload{})
		assert.Equal(t, api.CodeBadRequest, readError(t, conn).Code)
	})

	t.Run("snapshot on request", func(t *testing.T) {
		send(t, conn, api.ActionSnapshot, nil)
		readUntil(t, conn, api.MsgSnapshot)
	})

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool {
		return len(manager.Sessions()) == 0
	}, 3*time.Second, 10*time.Millisecond, "empty session must be removed after disconnect")
}

func TestServer_SecondPlayerSeesJoin(t *testing.T) {
	ts, _ := newTestServer(t)

	alice := dial(t, ts, "")
	join(t, alice, "alice", "shared")

	bob := dial(t, ts, "")
	bobJoined := join(t, bob, "bob", "shared")

	msg := readUntil(t, alice, "player_joined")
	var payload struct {
		Entity struct {
			ID string `json:"id"`
		} `json:"entity"`
	}
	require.NoError(t, json.Unmarshal(msg.Payload, &payload))
	assert.Equal(t, bobJoined.EntityID, payload.Entity.ID)
}

func TestServer_HandshakeRequiresJoin(t *testing.T) {
	ts, _ := newTestServer(t)
	conn := dial(t, ts, "")

	send(t, conn, api.ActionMove, api.MovePayload{Q: 1})
	assert.Equal(t, api.CodeBadRequest, readError(t, conn).Code)

	// Сервер закрывает соединение после неудачного handshake
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
}

func TestServer_UnknownClassRejected(t *testing.T) {
	ts, manager := newTestServer(t)
	conn := dial(t, ts, "")

	send(t, conn, api.ActionJoin, api.JoinPayload{UserID: "carol", ClassID: "bard"})
	assert.Equal(t, api.CodeBadRequest, readError(t, conn).Code)

	// После ошибки приходит close frame, а не обрыв соединения
	_, _, err := conn.ReadMessage()
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNoStatusReceived), "got %v", err)

	assert.Empty(t, manager.Sessions(), "session left without players must be removed")
}

func TestServer_MsgpackCodec(t *testing.T) {
	ts, _ := newTestServer(t)
	conn := dial(t, ts, "?codec=msgpack")

	send(t, conn, api.ActionJoin, api.JoinPayload{UserID: "dave"})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	for {
		typ, data, err := conn.ReadMessage()
		require.NoError(t, err)
		require.Equal(t, websocket.BinaryMessage, typ)

		var msg map[string]any
		require.NoError(t, msgpack.Unmarshal(data, &msg))
		if msg["actionType"] != api.MsgJoined {
			continue
		}
		payload, ok := msg["payload"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "dave", payload["userId"])
		assert.Equal(t, engine.DefaultSessionID, payload["sessionId"])
		return
	}
}

func TestServer_HTTPEndpoints(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))

	conn := dial(t, ts, "")
	join(t, conn, "erin", "dbg")

	resp, err = http.Get(ts.URL + "/debug/sessions")
	require.NoError(t, err)
	var sessions []struct {
		ID      string `json:"id"`
		Players int    `json:"players"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&sessions))
	resp.Body.Close()
	require.Len(t, sessions, 1)
	assert.Equal(t, "dbg", sessions[0].ID)
	assert.Equal(t, 1, sessions[0].Players)

	resp, err = http.Get(ts.URL + "/debug/sessions?id=missing")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/version")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
