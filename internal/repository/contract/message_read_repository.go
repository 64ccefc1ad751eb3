package contract

import (
	"context"

	"collabotree-be/internal/entity"

	"github.com/google/uuid"
)

type MessageReadRepository interface {
	// CreateIgnoreDuplicates inserts read receipts, silently skipping any
	// (message, user) pair that already has one.
	CreateIgnoreDuplicates(ctx context.Context, reads []*entity.MessageRead) error
	Exists(ctx context.Context, messageID, userID uuid.UUID) (bool, error)
}
