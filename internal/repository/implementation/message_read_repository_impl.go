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
	"gorm.io/gorm/clause"
)

type MessageReadRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatMapper
}

func NewMessageReadRepository(db *gorm.DB) contract.MessageReadRepository {
	return &MessageReadRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatMapper(),
	}
}

func (r *MessageReadRepositoryImpl) CreateIgnoreDuplicates(ctx context.Context, reads []*entity.MessageRead) error {
	if len(reads) == 0 {
		return nil
	}
	models := make([]*model.MessageRead, len(reads))
	for i, read := range reads {
		models[i] = r.mapper.MessageReadToModel(read)
	}
	// ON CONFLICT DO NOTHING on the composite key makes re-marking a no-op.
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(models).Error
}

func (r *MessageReadRepositoryImpl) Exists(ctx context.Context, messageID, userID uuid.UUID) (bool, error) {
	var m model.MessageRead
	err := r.db.WithContext(ctx).
		Where("message_id = ? AND user_id = ?", messageID, userID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
