package implementation

import (
	"context"
	"errors"

	"collabotree-be/internal/entity"
	"collabotree-be/internal/mapper"
	"collabotree-be/internal/model"
	"collabotree-be/internal/repository/contract"
	"collabotree-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChatRoomRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatMapper
}

func NewChatRoomRepository(db *gorm.DB) contract.ChatRoomRepository {
	return &ChatRoomRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatMapper(),
	}
}

func (r *ChatRoomRepositoryImpl) Create(ctx context.Context, room *entity.ChatRoom) error {
	m := r.mapper.ChatRoomToModel(room)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if isUniqueViolation(err) {
			return contract.ErrDuplicate
		}
		return err
	}
	*room = *r.mapper.ChatRoomToEntity(m)
	return nil
}

func (r *ChatRoomRepositoryImpl) FindByHireRequestID(ctx context.Context, hireRequestID uuid.UUID) (*entity.ChatRoom, error) {
	var m model.ChatRoom
	query := specification.ByHireRequestID{HireRequestID: hireRequestID}.Apply(r.db.WithContext(ctx))
	err := query.First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ChatRoomToEntity(&m), nil
}
