package entity

import (
	"time"

	"github.com/google/uuid"
)

// ChatRoom is the single conversation channel bound to one hire request.
// At most one room exists per hire request; the storage layer enforces it.
type ChatRoom struct {
	Id            uuid.UUID
	HireRequestId uuid.UUID
	CreatedAt     time.Time
}

// Message is immutable once created. Ordering within a room follows
// (CreatedAt, Id), assigned by the store.
type Message struct {
	Id         uuid.UUID
	ChatRoomId uuid.UUID
	SenderId   uuid.UUID
	Body       string
	CreatedAt  time.Time
}

// MessageRead records that a user has seen a message. At most one receipt
// exists per (message, user); absence means unread.
type MessageRead struct {
	MessageId uuid.UUID
	UserId    uuid.UUID
	ReadAt    time.Time
}
