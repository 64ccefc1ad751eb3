package model

import (
	"time"

	"github.com/google/uuid"
)

// MessageRead uses a composite primary key; the key is what makes receipt
// creation idempotent under concurrent markings.
type MessageRead struct {
	MessageId uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserId    uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	ReadAt    time.Time `gorm:"autoCreateTime"`
}

func (MessageRead) TableName() string {
	return "message_reads"
}
