package chat

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ebm/src/types"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWSServer(t *testing.T, hub *Hub) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		partyId := r.URL.Query().Get("uid")
		role := types.PartyRole(r.URL.Query().Get("role"))
		ServeWS(hub, w, r, partyId, role)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dialWS(t *testing.T, srv *httptest.Server, partyId string, role types.PartyRole) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "?uid=" + partyId + "&role=" + string(role)
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	return conn
}

func readServerEvent(t *testing.T, conn *websocket.Conn) ServerEvent {
	t.Helper()
	var ev ServerEvent
	require.NoError(t, conn.ReadJSON(&ev))
	return ev
}

func TestServeWSJoinAndMessage(t *testing.T) {
	hub := NewHub(NewRegistry(), NewStore(newTestDB(t)))
	srv := newWSServer(t, hub)

	customer := dialWS(t, srv, "u1", types.ROLE_CUSTOMER)
	engineer := dialWS(t, srv, "e1", types.ROLE_ENGINEER)

	join := Event{Type: EventJoin, UserID: "u1", EngineerID: "e1"}
	require.NoError(t, customer.WriteJSON(join))
	require.NoError(t, engineer.WriteJSON(join))

	roomId := RoomIDFor("u1", "e1")
	for _, conn := range []*websocket.Conn{customer, engineer} {
		ev := readServerEvent(t, conn)
		assert.Equal(t, EventJoined, ev.Type)
		assert.Equal(t, roomId, ev.RoomID)
	}

	require.NoError(t, customer.WriteJSON(Event{Type: EventMessage, RoomID: roomId, Content: "hello"}))

	for _, conn := range []*websocket.Conn{customer, engineer} {
		ev := readServerEvent(t, conn)
		assert.Equal(t, EventMessage, ev.Type)
		require.NotNil(t, ev.Message)
		assert.Equal(t, "u1", ev.Message.SenderID)
		assert.Equal(t, "hello", ev.Message.Content)
	}
}

func TestServeWSRejectsForeignJoin(t *testing.T) {
	hub := NewHub(NewRegistry(), NewStore(newTestDB(t)))
	srv := newWSServer(t, hub)

	stranger := dialWS(t, srv, "u9", types.ROLE_CUSTOMER)
	require.NoError(t, stranger.WriteJSON(Event{Type: EventJoin, UserID: "u1", EngineerID: "e1"}))

	ev := readServerEvent(t, stranger)
	assert.Equal(t, EventError, ev.Type)
	assert.Equal(t, ErrUnauthorized.Error(), ev.Error)
}

func TestServeWSMessageBeforeJoin(t *testing.T) {
	hub := NewHub(NewRegistry(), NewStore(newTestDB(t)))
	srv := newWSServer(t, hub)

	customer := dialWS(t, srv, "u1", types.ROLE_CUSTOMER)
	roomId := RoomIDFor("u1", "e1")
	require.NoError(t, customer.WriteJSON(Event{Type: EventMessage, RoomID: roomId, Content: "hello"}))

	ev := readServerEvent(t, customer)
	assert.Equal(t, EventError, ev.Type)
	assert.Equal(t, ErrNotJoined.Error(), ev.Error)
}
