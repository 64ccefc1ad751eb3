package model

import (
	"time"

	"github.com/google/uuid"
)

type Message struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ChatRoomId uuid.UUID `gorm:"type:uuid;not null;index:idx_messages_room_created,priority:1"`
	SenderId   uuid.UUID `gorm:"type:uuid;not null"`
	Body       string    `gorm:"type:text;not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index:idx_messages_room_created,priority:2"`
}

func (Message) TableName() string {
	return "messages"
}
