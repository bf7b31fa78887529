package chat

import (
	"context"
	"testing"

	"ebm/src/models"
	"ebm/src/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(partyId string, role types.PartyRole) *Client {
	return &Client{
		send:    make(chan ServerEvent, sendBufferSize),
		partyId: partyId,
		role:    role,
	}
}

func receivedEvent(t *testing.T, c *Client) ServerEvent {
	t.Helper()
	select {
	case ev := <-c.send:
		return ev
	default:
		t.Fatal("expected a queued event")
		return ServerEvent{}
	}
}

func TestHubJoinAndSend(t *testing.T) {
	hub := NewHub(NewRegistry(), NewStore(newTestDB(t)))
	customer := testClient("u1", types.ROLE_CUSTOMER)
	engineer := testClient("e1", types.ROLE_ENGINEER)

	roomId, err := hub.Join(customer, "u1", "e1")
	require.NoError(t, err)
	assert.Equal(t, RoomIDFor("u1", "e1"), roomId)

	// The engineer joins with the arguments in its own order, same room.
	engineerRoom, err := hub.Join(engineer, "u1", "e1")
	require.NoError(t, err)
	assert.Equal(t, roomId, engineerRoom)

	msg, err := hub.Send(context.Background(), customer, roomId, "hello")
	require.NoError(t, err)
	assert.NotZero(t, msg.ID)

	// Both participants receive the stored copy, sender included.
	for _, c := range []*Client{customer, engineer} {
		ev := receivedEvent(t, c)
		assert.Equal(t, EventMessage, ev.Type)
		assert.Equal(t, roomId, ev.RoomID)
		require.NotNil(t, ev.Message)
		assert.Equal(t, msg.ID, ev.Message.ID)
		assert.Equal(t, "u1", ev.Message.SenderID)
		assert.Equal(t, "hello", ev.Message.Content)
		assert.Empty(t, c.send)
	}
}

func TestHubJoinRejectsThirdParty(t *testing.T) {
	hub := NewHub(NewRegistry(), NewStore(newTestDB(t)))
	stranger := testClient("u9", types.ROLE_CUSTOMER)

	_, err := hub.Join(stranger, "u1", "e1")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = hub.Join(stranger, "", "e1")
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = hub.Join(stranger, "u9", "")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestHubSendRequiresJoin(t *testing.T) {
	store := NewStore(newTestDB(t))
	hub := NewHub(NewRegistry(), store)
	customer := testClient("u1", types.ROLE_CUSTOMER)
	roomId := RoomIDFor("u1", "e1")

	_, err := hub.Send(context.Background(), customer, roomId, "hello")
	assert.ErrorIs(t, err, ErrNotJoined)

	messages, err := store.ListByRoom(context.Background(), roomId)
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestHubSendEmptyContent(t *testing.T) {
	hub := NewHub(NewRegistry(), NewStore(newTestDB(t)))
	customer := testClient("u1", types.ROLE_CUSTOMER)
	roomId, err := hub.Join(customer, "u1", "e1")
	require.NoError(t, err)

	_, err = hub.Send(context.Background(), customer, roomId, "   ")
	assert.ErrorIs(t, err, ErrEmptyContent)
	assert.Empty(t, customer.send)
}

func TestHubSendPersistenceFailureNotBroadcast(t *testing.T) {
	d := newTestDB(t)
	hub := NewHub(NewRegistry(), NewStore(d))
	customer := testClient("u1", types.ROLE_CUSTOMER)
	engineer := testClient("e1", types.ROLE_ENGINEER)

	roomId, err := hub.Join(customer, "u1", "e1")
	require.NoError(t, err)
	_, err = hub.Join(engineer, "u1", "e1")
	require.NoError(t, err)

	require.NoError(t, d.Migrator().DropTable(&models.ChatMessage{}))

	_, err = hub.Send(context.Background(), customer, roomId, "hello")
	assert.Error(t, err)
	assert.Empty(t, customer.send)
	assert.Empty(t, engineer.send)
}

func TestHubDisconnect(t *testing.T) {
	hub := NewHub(NewRegistry(), NewStore(newTestDB(t)))
	customer := testClient("u1", types.ROLE_CUSTOMER)

	roomA, err := hub.Join(customer, "u1", "e1")
	require.NoError(t, err)
	roomB, err := hub.Join(customer, "u1", "e2")
	require.NoError(t, err)

	hub.Disconnect(customer)

	_, err = hub.Send(context.Background(), customer, roomA, "hello")
	assert.ErrorIs(t, err, ErrNotJoined)
	_, err = hub.Send(context.Background(), customer, roomB, "hello")
	assert.ErrorIs(t, err, ErrNotJoined)
}

func TestClientEnqueueDropsWhenFull(t *testing.T) {
	c := &Client{send: make(chan ServerEvent, 1), partyId: "u1"}
	c.enqueue(ServerEvent{Type: EventMessage})
	c.enqueue(ServerEvent{Type: EventMessage})
	assert.Len(t, c.send, 1)
}
