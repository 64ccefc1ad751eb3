package specification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByChatRoomID struct {
	ChatRoomID uuid.UUID
}

func (s ByChatRoomID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("chat_room_id = ?", s.ChatRoomID)
}

type ByHireRequestID struct {
	HireRequestID uuid.UUID
}

func (s ByHireRequestID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("hire_request_id = ?", s.HireRequestID)
}

// CreatedBefore walks the message history backward from a cursor message.
// The (created_at, id) tuple comparison keeps ordering stable when several
// messages share a timestamp.
type CreatedBefore struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

func (s CreatedBefore) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("(created_at, id) < (?, ?)", s.CreatedAt, s.ID)
}

// NewestFirst orders messages for backward paging.
type NewestFirst struct{}

func (s NewestFirst) Apply(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC, id DESC")
}

// UnreadBy keeps messages the given user has no read receipt for,
// excluding the user's own messages.
type UnreadBy struct {
	UserID uuid.UUID
}

func (s UnreadBy) Apply(db *gorm.DB) *gorm.DB {
	return db.
		Joins("LEFT JOIN message_reads ON message_reads.message_id = messages.id AND message_reads.user_id = ?", s.UserID).
		Where("message_reads.message_id IS NULL").
		Where("messages.sender_id <> ?", s.UserID)
}
