package contract

import (
	"context"

	"collabotree-be/internal/entity"

	"github.com/google/uuid"
)

type ChatRoomRepository interface {
	// Create persists a new room. Returns ErrDuplicate when a room for the
	// same hire request already exists.
	Create(ctx context.Context, room *entity.ChatRoom) error
	FindByHireRequestID(ctx context.Context, hireRequestID uuid.UUID) (*entity.ChatRoom, error)
}
