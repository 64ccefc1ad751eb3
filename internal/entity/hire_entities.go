package entity

import (
	"time"

	"github.com/google/uuid"
)

// HireRequest is a read model owned by the hire-request lifecycle service.
// Chat only reads it: the status gates availability and the buyer/student
// pair defines the participants. This backend never transitions a status.
type HireRequest struct {
	Id           uuid.UUID
	BuyerId      uuid.UUID
	StudentId    uuid.UUID
	ServiceTitle string
	Status       string
	CreatedAt    time.Time
}

// User is a read model owned by the identity service.
type User struct {
	Id           uuid.UUID
	FullName     string
	Email        string
	Role         string
	Skills       []string
	PasswordHash string
	CreatedAt    time.Time
}
