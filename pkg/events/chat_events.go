package events

import (
	"time"

	"github.com/google/uuid"
)

// ChatTopic is the in-process bus topic both send paths publish to. The
// websocket hub is the only subscriber; every broadcast originates there,
// so REST-created messages reach socket-connected peers too.
const ChatTopic = "chat.events"

const (
	ChatEventMessageCreated = "MESSAGE_CREATED"
	ChatEventMessagesRead   = "MESSAGES_READ"
)

// ChatEvent is the envelope carried on ChatTopic.
type ChatEvent struct {
	Type          string          `json:"type"`
	HireRequestId uuid.UUID       `json:"hire_request_id"`
	RoomId        uuid.UUID       `json:"room_id"`
	Message       *MessagePayload `json:"message,omitempty"`
	Read          *ReadPayload    `json:"read,omitempty"`
}

type MessagePayload struct {
	Id         uuid.UUID `json:"id"`
	SenderId   uuid.UUID `json:"sender_id"`
	SenderName string    `json:"sender_name"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
}

type ReadPayload struct {
	MessageIds []uuid.UUID `json:"message_ids"`
	ReaderId   uuid.UUID   `json:"reader_id"`
	ReadAt     time.Time   `json:"read_at"`
}
