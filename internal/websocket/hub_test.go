package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"collabotree-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

func newTestHub() (*Hub, *gochannel.GoChannel) {
	bus := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false))
	hub := NewHub(bus, nil, nopLogger{})
	go hub.Run()
	return hub, bus
}

func newTestClient(hub *Hub, userID uuid.UUID) *Client {
	return &Client{
		Hub:    hub,
		UserID: userID,
		Role:   "user",
		Send:   make(chan []byte, 16),
		done:   make(chan struct{}),
	}
}

func receiveFrame(t *testing.T, c *Client) serverFrame {
	t.Helper()
	select {
	case raw := <-c.Send:
		var frame serverFrame
		assert.NoError(t, json.Unmarshal(raw, &frame))
		return frame
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for frame")
		return serverFrame{}
	}
}

func assertNoFrame(t *testing.T, c *Client) {
	t.Helper()
	select {
	case raw := <-c.Send:
		t.Fatalf("unexpected frame: %s", raw)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestJoinAndLeaveRoom(t *testing.T) {
	hub, _ := newTestHub()
	client := newTestClient(hub, uuid.New())
	roomA := uuid.New()
	roomB := uuid.New()

	hub.JoinRoom(client, roomA)
	assert.True(t, hub.InRoom(client, roomA))

	// One room per connection: joining another implicitly leaves the first.
	hub.JoinRoom(client, roomB)
	assert.False(t, hub.InRoom(client, roomA))
	assert.True(t, hub.InRoom(client, roomB))
	assert.Equal(t, roomB, client.CurrentRoom())

	hub.LeaveRoom(client)
	assert.False(t, hub.InRoom(client, roomB))
	assert.Equal(t, uuid.Nil, client.CurrentRoom())
}

func TestBroadcastToRoom(t *testing.T) {
	hub, _ := newTestHub()
	buyerID := uuid.New()
	studentID := uuid.New()

	buyerTab1 := newTestClient(hub, buyerID)
	buyerTab2 := newTestClient(hub, buyerID)
	student := newTestClient(hub, studentID)
	outsider := newTestClient(hub, uuid.New())

	roomID := uuid.New()
	hub.JoinRoom(buyerTab1, roomID)
	hub.JoinRoom(buyerTab2, roomID)
	hub.JoinRoom(student, roomID)
	hub.JoinRoom(outsider, uuid.New())

	t.Run("reaches every connection in the room", func(t *testing.T) {
		hub.BroadcastToRoom(roomID, encodeFrame("message", "hi"), uuid.Nil)
		for _, c := range []*Client{buyerTab1, buyerTab2, student} {
			frame := receiveFrame(t, c)
			assert.Equal(t, "message", frame.Type)
		}
		assertNoFrame(t, outsider)
	})

	t.Run("excludes every connection of the excluded user", func(t *testing.T) {
		hub.BroadcastToRoom(roomID, encodeFrame("typing", nil), buyerID)
		frame := receiveFrame(t, student)
		assert.Equal(t, "typing", frame.Type)
		assertNoFrame(t, buyerTab1)
		assertNoFrame(t, buyerTab2)
	})
}

func TestConsumeBusBroadcastsChatEvents(t *testing.T) {
	hub, bus := newTestHub()
	assert.NoError(t, hub.ConsumeBus(context.Background()))

	hireID := uuid.New()
	sender := newTestClient(hub, uuid.New())
	peer := newTestClient(hub, uuid.New())
	hub.JoinRoom(sender, hireID)
	hub.JoinRoom(peer, hireID)

	evt := &events.ChatEvent{
		Type:          events.ChatEventMessageCreated,
		HireRequestId: hireID,
		RoomId:        uuid.New(),
		Message: &events.MessagePayload{
			Id:         uuid.New(),
			SenderId:   sender.UserID,
			SenderName: "Bayu Pratama",
			Body:       "hello",
			CreatedAt:  time.Now(),
		},
	}
	payload, err := json.Marshal(evt)
	assert.NoError(t, err)
	assert.NoError(t, bus.Publish(events.ChatTopic, message.NewMessage(watermill.NewUUID(), payload)))

	// The bus path is transport-agnostic: the sender's own connection gets
	// the same copy as the peer's.
	for _, c := range []*Client{sender, peer} {
		frame := receiveFrame(t, c)
		assert.Equal(t, "message", frame.Type)
	}
}

// A broadcast may snapshot room members right before a disconnect is
// processed. Delivery must stay safe against the unregister path; closing
// the Send channel there would panic a concurrent send.
func TestBroadcastDuringClientChurn(t *testing.T) {
	hub, _ := newTestHub()
	roomID := uuid.New()

	stop := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
					hub.BroadcastToRoom(roomID, encodeFrame("message", "hi"), uuid.Nil)
				}
			}
		}()
	}

	for i := 0; i < 2000; i++ {
		c := newTestClient(hub, uuid.New())
		hub.register <- c
		hub.JoinRoom(c, roomID)
		hub.unregister <- c

		select {
		case <-c.done:
		case <-time.After(2 * time.Second):
			t.Fatal("unregister did not signal shutdown")
		}
	}
	close(stop)
	wg.Wait()
}

func TestConsumeBusBroadcastsReadReceipts(t *testing.T) {
	hub, bus := newTestHub()
	assert.NoError(t, hub.ConsumeBus(context.Background()))

	hireID := uuid.New()
	member := newTestClient(hub, uuid.New())
	hub.JoinRoom(member, hireID)

	evt := &events.ChatEvent{
		Type:          events.ChatEventMessagesRead,
		HireRequestId: hireID,
		RoomId:        uuid.New(),
		Read: &events.ReadPayload{
			MessageIds: []uuid.UUID{uuid.New()},
			ReaderId:   uuid.New(),
			ReadAt:     time.Now(),
		},
	}
	payload, err := json.Marshal(evt)
	assert.NoError(t, err)
	assert.NoError(t, bus.Publish(events.ChatTopic, message.NewMessage(watermill.NewUUID(), payload)))

	frame := receiveFrame(t, member)
	assert.Equal(t, "read", frame.Type)
}
