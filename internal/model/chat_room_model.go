package model

import (
	"time"

	"github.com/google/uuid"
)

type ChatRoom struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	HireRequestId uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
}

func (ChatRoom) TableName() string {
	return "chat_rooms"
}
