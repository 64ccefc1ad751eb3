package model

import (
	"time"

	"github.com/google/uuid"
)

// HireRequest is owned by the hire-request lifecycle service. Chat maps it
// read-only; nothing in this backend writes the table outside cmd/seed.
type HireRequest struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BuyerId      uuid.UUID `gorm:"type:uuid;not null;index"`
	StudentId    uuid.UUID `gorm:"type:uuid;not null;index"`
	ServiceTitle string    `gorm:"type:varchar(200);not null"`
	Status       string    `gorm:"type:varchar(20);not null;default:'PENDING'"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

func (HireRequest) TableName() string {
	return "hire_requests"
}
