package contract

import (
	"context"

	"collabotree-be/internal/entity"

	"github.com/google/uuid"
)

// HireRequestRepository is read-only. The hire-request lifecycle service
// owns the table; chat only checks participants and status.
type HireRequestRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.HireRequest, error)
}
