package implementation

import (
	"context"
	"errors"

	"collabotree-be/internal/entity"
	"collabotree-be/internal/mapper"
	"collabotree-be/internal/model"
	"collabotree-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type HireRequestRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatMapper
}

func NewHireRequestRepository(db *gorm.DB) contract.HireRequestRepository {
	return &HireRequestRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatMapper(),
	}
}

func (r *HireRequestRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*entity.HireRequest, error) {
	var m model.HireRequest
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.HireRequestToEntity(&m), nil
}
