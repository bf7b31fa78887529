package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoomIDForIsOrderInsensitive(t *testing.T) {
	assert.Equal(t, RoomIDFor("u1", "e1"), RoomIDFor("e1", "u1"))
	assert.Equal(t, "chat:e1:u1", RoomIDFor("u1", "e1"))
}

func TestRoomIDForDistinctPairs(t *testing.T) {
	assert.NotEqual(t, RoomIDFor("u1", "e1"), RoomIDFor("u1", "e2"))
	assert.NotEqual(t, RoomIDFor("u1", "e1"), RoomIDFor("u2", "e1"))
}

func TestRegistryJoinLeave(t *testing.T) {
	reg := NewRegistry()
	a := &Client{partyId: "u1"}
	b := &Client{partyId: "e1"}
	roomId := RoomIDFor("u1", "e1")

	reg.Join(a, roomId)
	reg.Join(a, roomId)
	reg.Join(b, roomId)

	assert.True(t, reg.Joined(a, roomId))
	assert.True(t, reg.Joined(b, roomId))
	assert.Len(t, reg.Members(roomId), 2)

	reg.Leave(a, roomId)
	assert.False(t, reg.Joined(a, roomId))
	assert.Len(t, reg.Members(roomId), 1)
}

func TestRegistryLeaveAll(t *testing.T) {
	reg := NewRegistry()
	c := &Client{partyId: "u1"}
	roomA := RoomIDFor("u1", "e1")
	roomB := RoomIDFor("u1", "e2")

	reg.Join(c, roomA)
	reg.Join(c, roomB)
	reg.LeaveAll(c)

	assert.False(t, reg.Joined(c, roomA))
	assert.False(t, reg.Joined(c, roomB))
	assert.Empty(t, reg.Members(roomA))
	assert.Empty(t, reg.Members(roomB))
}

func TestRegistryMembersSnapshot(t *testing.T) {
	reg := NewRegistry()
	c := &Client{partyId: "u1"}
	roomId := RoomIDFor("u1", "e1")
	reg.Join(c, roomId)

	snapshot := reg.Members(roomId)
	reg.Leave(c, roomId)
	assert.Len(t, snapshot, 1)
}
