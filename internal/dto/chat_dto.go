package dto

import (
	"time"

	"github.com/google/uuid"
)

type SendMessageRequest struct {
	Body string `json:"body" validate:"required,max=2000"`
}

// MessageResponse is the message shape shared by the REST surface and the
// websocket broadcast payload.
type MessageResponse struct {
	Id            uuid.UUID `json:"id"`
	ChatRoomId    uuid.UUID `json:"chat_room_id"`
	HireRequestId uuid.UUID `json:"hire_request_id"`
	SenderId      uuid.UUID `json:"sender_id"`
	SenderName    string    `json:"sender_name"`
	Body          string    `json:"body"`
	CreatedAt     time.Time `json:"created_at"`
}

// ListMessagesResponse pages oldest-to-newest within the page while paging
// backward from the newest overall. NextCursor feeds the next older page.
type ListMessagesResponse struct {
	Messages   []*MessageResponse `json:"messages"`
	HasMore    bool               `json:"has_more"`
	NextCursor *uuid.UUID         `json:"next_cursor,omitempty"`
}

type MarkReadResponse struct {
	MarkedCount int `json:"marked_count"`
}

type UnreadCountResponse struct {
	Count int `json:"count"`
}

// RoomContextResponse is returned on a successful socket join.
type RoomContextResponse struct {
	RoomId        uuid.UUID `json:"room_id"`
	HireRequestId uuid.UUID `json:"hire_request_id"`
	BuyerId       uuid.UUID `json:"buyer_id"`
	StudentId     uuid.UUID `json:"student_id"`
	ServiceTitle  string    `json:"service_title"`
}

type ReadReceiptResponse struct {
	MessageIds []uuid.UUID `json:"message_ids"`
	ReaderId   uuid.UUID   `json:"reader_id"`
	ReadAt     time.Time   `json:"read_at"`
}
