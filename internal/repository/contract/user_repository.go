package contract

import (
	"context"

	"collabotree-be/internal/entity"

	"github.com/google/uuid"
)

type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	Create(ctx context.Context, user *entity.User) error
	Count(ctx context.Context) (int64, error)
}
