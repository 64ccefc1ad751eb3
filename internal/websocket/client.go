package websocket

import (
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// Enough headroom for a max-length body plus the event envelope.
	maxMessageSize = 16 * 1024
)

// Client is a middleman between one websocket connection and the hub.
// Authentication happened at handshake time; UserID and Role are trusted
// for the lifetime of the connection, but room access is re-checked on
// every event.
type Client struct {
	Hub *Hub

	// The websocket connection.
	Conn *websocket.Conn

	UserID uuid.UUID
	Role   string

	// Buffered channel of outbound frames. Never closed; shutdown is
	// signaled on done so concurrent broadcasts cannot race a close.
	Send chan []byte

	// Closed by the hub when the client is unregistered.
	done chan struct{}

	gateway *Gateway

	mu   sync.RWMutex
	room uuid.UUID // hire request currently joined, Nil when none
}

func (c *Client) CurrentRoom() uuid.UUID {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.room
}

func (c *Client) setRoom(roomID uuid.UUID) {
	c.mu.Lock()
	c.room = roomID
	c.mu.Unlock()
}

// readPump pumps events from the websocket connection into the gateway.
func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.logger.Warn("Client", "Unexpected close", map[string]interface{}{"user_id": c.UserID, "error": err.Error()})
			}
			break
		}
		c.gateway.HandleEvent(c, raw)
	}
}

// writePump pumps frames from the hub to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}

			// Drain any queued frames into their own websocket messages so
			// each event arrives as a standalone JSON document.
			n := len(c.Send)
			for i := 0; i < n; i++ {
				frame, ok := <-c.Send
				if !ok {
					return
				}
				if err := c.Conn.WriteMessage(websocket.TextMessage, frame); err != nil {
					return
				}
			}
		case <-c.done:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ServeClient wires an upgraded, authenticated connection into the hub and
// runs its pumps. Blocks until the connection closes.
func ServeClient(hub *Hub, gateway *Gateway, conn *websocket.Conn, userID uuid.UUID, role string) {
	client := &Client{
		Hub:     hub,
		Conn:    conn,
		UserID:  userID,
		Role:    role,
		Send:    make(chan []byte, 256),
		done:    make(chan struct{}),
		gateway: gateway,
	}
	client.Hub.register <- client

	go client.writePump()
	client.readPump()
}
