package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"collabotree-be/internal/dto"
	"collabotree-be/internal/pkg/logger"
	"collabotree-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Hub owns the gateway's only mutable shared state: the connection
// registry (user -> connections) and the per-hire-request room channels.
// It is a cache rebuilt from nothing on restart; room access rights are
// always recomputed from the hire request, never from here.
type Hub struct {
	// Registry: UserID -> connections (multiple tabs/devices per user)
	clients map[uuid.UUID][]*Client

	// Room channels: HireRequestID -> member connections
	rooms map[uuid.UUID]map[*Client]struct{}

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	// In-process chat bus; every append-then-broadcast goes through it.
	bus *gochannel.GoChannel

	// Redis connection for cross-instance fan-out
	rdb *redis.Client

	// Identifies this process on the Redis channel.
	instanceID string

	logger logger.ILogger
}

const redisChannel = "chat_events"

// redisEnvelope carries a pre-encoded frame between instances. Origin lets
// the publishing instance skip its own echo; it already delivered locally.
type redisEnvelope struct {
	Origin        string          `json:"origin"`
	HireRequestID string          `json:"hire_request_id"`
	ExcludeUserID string          `json:"exclude_user_id,omitempty"`
	Frame         json.RawMessage `json:"frame"`
}

func NewHub(bus *gochannel.GoChannel, rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID][]*Client),
		rooms:      make(map[uuid.UUID]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		bus:        bus,
		rdb:        rdb,
		instanceID: uuid.NewString(),
		logger:     log,
	}
}

func (h *Hub) Run() {
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"user_id": client.UserID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.UserID]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.UserID] = append(clients[:i], clients[i+1:]...)
						// Send stays open: a broadcast holding a member
						// snapshot may still write to it. The write pump
						// shuts down on done instead.
						close(client.done)
						break
					}
				}
				if len(h.clients[client.UserID]) == 0 {
					delete(h.clients, client.UserID)
				}
			}
			h.removeFromRoomLocked(client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client unregistered", map[string]interface{}{"user_id": client.UserID})
		}
	}
}

// JoinRoom moves the connection into the hire request's channel. A
// connection is a member of at most one room at a time; joining another
// room implicitly leaves the previous one.
func (h *Hub) JoinRoom(c *Client, hireRequestID uuid.UUID) {
	h.mu.Lock()
	h.removeFromRoomLocked(c)
	members, ok := h.rooms[hireRequestID]
	if !ok {
		members = make(map[*Client]struct{})
		h.rooms[hireRequestID] = members
	}
	members[c] = struct{}{}
	c.setRoom(hireRequestID)
	h.mu.Unlock()
}

// LeaveRoom returns the connection to the authenticated-but-unjoined state.
func (h *Hub) LeaveRoom(c *Client) {
	h.mu.Lock()
	h.removeFromRoomLocked(c)
	h.mu.Unlock()
}

func (h *Hub) removeFromRoomLocked(c *Client) {
	roomID := c.CurrentRoom()
	if roomID == uuid.Nil {
		return
	}
	if members, ok := h.rooms[roomID]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, roomID)
		}
	}
	c.setRoom(uuid.Nil)
}

// InRoom reports whether the connection currently belongs to the channel.
func (h *Hub) InRoom(c *Client, hireRequestID uuid.UUID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	members, ok := h.rooms[hireRequestID]
	if !ok {
		return false
	}
	_, member := members[c]
	return member
}

// BroadcastToRoom delivers a frame to every connection in the room channel
// (including the sender's own connections unless excluded) and forwards it
// to other instances over Redis.
func (h *Hub) BroadcastToRoom(hireRequestID uuid.UUID, frame []byte, excludeUserID uuid.UUID) {
	h.deliverLocal(hireRequestID, frame, excludeUserID)

	if h.rdb != nil {
		exclude := ""
		if excludeUserID != uuid.Nil {
			exclude = excludeUserID.String()
		}
		payload, _ := json.Marshal(redisEnvelope{
			Origin:        h.instanceID,
			HireRequestID: hireRequestID.String(),
			ExcludeUserID: exclude,
			Frame:         frame,
		})
		h.rdb.Publish(context.Background(), redisChannel, payload)
	}
}

func (h *Hub) deliverLocal(hireRequestID uuid.UUID, frame []byte, excludeUserID uuid.UUID) {
	h.mu.RLock()
	members := make([]*Client, 0, len(h.rooms[hireRequestID]))
	for c := range h.rooms[hireRequestID] {
		if excludeUserID != uuid.Nil && c.UserID == excludeUserID {
			continue
		}
		members = append(members, c)
	}
	h.mu.RUnlock()

	for _, c := range members {
		select {
		case c.Send <- frame:
		default:
			h.logger.Warn("Hub", "Client send buffer full, dropping connection", map[string]interface{}{"user_id": c.UserID})
			h.unregister <- c
		}
	}
}

// ConsumeBus subscribes the hub to the in-process chat bus. Messages
// appended via REST and via the socket both surface here, so connected
// peers see them exactly once regardless of the send path.
func (h *Hub) ConsumeBus(ctx context.Context) error {
	messages, err := h.bus.Subscribe(ctx, events.ChatTopic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			h.handleBusMessage(msg)
			msg.Ack()
		}
	}()

	return nil
}

func (h *Hub) handleBusMessage(msg *message.Message) {
	var evt events.ChatEvent
	if err := json.Unmarshal(msg.Payload, &evt); err != nil {
		h.logger.Error("Hub", "Malformed bus event", map[string]interface{}{"error": err.Error()})
		return
	}

	frame := frameForEvent(&evt)
	if frame == nil {
		return
	}
	h.BroadcastToRoom(evt.HireRequestId, frame, uuid.Nil)
}

func frameForEvent(evt *events.ChatEvent) []byte {
	switch evt.Type {
	case events.ChatEventMessageCreated:
		if evt.Message == nil {
			return nil
		}
		return newMessageFrame(&dto.MessageResponse{
			Id:            evt.Message.Id,
			ChatRoomId:    evt.RoomId,
			HireRequestId: evt.HireRequestId,
			SenderId:      evt.Message.SenderId,
			SenderName:    evt.Message.SenderName,
			Body:          evt.Message.Body,
			CreatedAt:     evt.Message.CreatedAt,
		})
	case events.ChatEventMessagesRead:
		if evt.Read == nil {
			return nil
		}
		return newReadFrame(&dto.ReadReceiptResponse{
			MessageIds: evt.Read.MessageIds,
			ReaderId:   evt.Read.ReaderId,
			ReadAt:     evt.Read.ReadAt,
		})
	default:
		return nil
	}
}

func (h *Hub) subscribeToRedis() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, redisChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var envelope redisEnvelope
		if err := json.Unmarshal([]byte(msg.Payload), &envelope); err != nil {
			h.logger.Error("Hub", "Malformed Redis envelope", map[string]interface{}{"error": err.Error()})
			continue
		}
		if envelope.Origin == h.instanceID {
			continue
		}

		hireID, err := uuid.Parse(envelope.HireRequestID)
		if err != nil {
			continue
		}
		exclude := uuid.Nil
		if envelope.ExcludeUserID != "" {
			exclude, _ = uuid.Parse(envelope.ExcludeUserID)
		}

		// Local delivery only; the publishing instance already forwarded.
		h.deliverLocal(hireID, envelope.Frame, exclude)
	}
}
