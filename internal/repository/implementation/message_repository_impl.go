package implementation

import (
	"context"
	"errors"

	"collabotree-be/internal/entity"
	"collabotree-be/internal/mapper"
	"collabotree-be/internal/model"
	"collabotree-be/internal/repository/contract"
	"collabotree-be/internal/repository/specification"

	"gorm.io/gorm"
)

type MessageRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatMapper
}

func NewMessageRepository(db *gorm.DB) contract.MessageRepository {
	return &MessageRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatMapper(),
	}
}

func (r *MessageRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *MessageRepositoryImpl) Create(ctx context.Context, message *entity.Message) error {
	m := r.mapper.MessageToModel(message)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*message = *r.mapper.MessageToEntity(m)
	return nil
}

func (r *MessageRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Message, error) {
	var m model.Message
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.MessageToEntity(&m), nil
}

func (r *MessageRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Message, error) {
	var models []*model.Message
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Message{}), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Message, len(models))
	for i, m := range models {
		entities[i] = r.mapper.MessageToEntity(m)
	}
	return entities, nil
}

func (r *MessageRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Message{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
