package dto

import (
	"time"

	"collabotree-be/pkg/events"

	"github.com/google/uuid"
)

// ToMessageCreatedEvent converts the response shape into the bus envelope
// the websocket hub broadcasts.
func (m *MessageResponse) ToMessageCreatedEvent() *events.ChatEvent {
	return &events.ChatEvent{
		Type:          events.ChatEventMessageCreated,
		HireRequestId: m.HireRequestId,
		RoomId:        m.ChatRoomId,
		Message: &events.MessagePayload{
			Id:         m.Id,
			SenderId:   m.SenderId,
			SenderName: m.SenderName,
			Body:       m.Body,
			CreatedAt:  m.CreatedAt,
		},
	}
}

func NewMessagesReadEvent(hireRequestID, roomID uuid.UUID, messageIds []uuid.UUID, readerID uuid.UUID, readAt time.Time) *events.ChatEvent {
	return &events.ChatEvent{
		Type:          events.ChatEventMessagesRead,
		HireRequestId: hireRequestID,
		RoomId:        roomID,
		Read: &events.ReadPayload{
			MessageIds: messageIds,
			ReaderId:   readerID,
			ReadAt:     readAt,
		},
	}
}
