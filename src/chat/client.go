package chat

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"ebm/src/types"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufferSize = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Cross-origin policy is enforced by the CORS layer in front.
		return true
	},
}

// Client is one live connection and its identity. The read pump processes
// inbound events in arrival order, which keeps a single sender's messages
// ordered; the write pump drains the buffered send channel.
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	send    chan ServerEvent
	partyId string
	role    types.PartyRole
}

// ServeWS upgrades the request and starts the connection's pumps.
func ServeWS(hub *Hub, w http.ResponseWriter, r *http.Request, partyId string, role types.PartyRole) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed for [%s]: %s\n", partyId, err.Error())
		return err
	}
	c := &Client{
		hub:     hub,
		conn:    conn,
		send:    make(chan ServerEvent, sendBufferSize),
		partyId: partyId,
		role:    role,
	}
	go c.writePump()
	go c.readPump()
	return nil
}

// enqueue hands an outbound event to the write pump. A consumer whose
// buffer is full misses the event rather than stalling the room.
func (c *Client) enqueue(ev ServerEvent) {
	select {
	case c.send <- ev:
	default:
		log.Printf("[ws] dropping event for slow consumer [%s]\n", c.partyId)
	}
}

func (c *Client) fail(err error) {
	c.enqueue(ServerEvent{Type: EventError, Error: err.Error()})
}

func (c *Client) readPump() {
	defer func() {
		c.hub.Disconnect(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[ws] read error for [%s]: %s\n", c.partyId, err.Error())
			}
			return
		}
		var ev Event
		if err := json.Unmarshal(raw, &ev); err != nil {
			c.fail(err)
			continue
		}
		switch ev.Type {
		case EventJoin:
			roomId, err := c.hub.Join(c, ev.UserID, ev.EngineerID)
			if err != nil {
				c.fail(err)
				continue
			}
			c.enqueue(ServerEvent{Type: EventJoined, RoomID: roomId})
		case EventLeave:
			c.hub.Leave(c, ev.RoomID)
		case EventMessage:
			if _, err := c.hub.Send(context.Background(), c, ev.RoomID, ev.Content); err != nil {
				c.fail(err)
			}
		default:
			log.Printf("[ws] unknown event type [%s] from [%s]\n", ev.Type, c.partyId)
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case ev, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
