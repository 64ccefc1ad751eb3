package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// User is owned by the identity service. Skills is an ordered list, not an
// opaque serialized blob.
type User struct {
	Id           uuid.UUID                   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FullName     string                      `gorm:"type:varchar(100);not null"`
	Email        string                      `gorm:"type:varchar(255);unique;not null"`
	Role         string                      `gorm:"type:varchar(20);not null;default:'user'"`
	Skills       datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	PasswordHash string                      `gorm:"type:varchar(255)"`
	CreatedAt    time.Time                   `gorm:"autoCreateTime"`
}

func (User) TableName() string {
	return "users"
}
