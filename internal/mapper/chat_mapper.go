package mapper

import (
	"collabotree-be/internal/entity"
	"collabotree-be/internal/model"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

func (m *ChatMapper) ChatRoomToModel(e *entity.ChatRoom) *model.ChatRoom {
	return &model.ChatRoom{
		Id:            e.Id,
		HireRequestId: e.HireRequestId,
		CreatedAt:     e.CreatedAt,
	}
}

func (m *ChatMapper) ChatRoomToEntity(mo *model.ChatRoom) *entity.ChatRoom {
	return &entity.ChatRoom{
		Id:            mo.Id,
		HireRequestId: mo.HireRequestId,
		CreatedAt:     mo.CreatedAt,
	}
}

func (m *ChatMapper) MessageToModel(e *entity.Message) *model.Message {
	return &model.Message{
		Id:         e.Id,
		ChatRoomId: e.ChatRoomId,
		SenderId:   e.SenderId,
		Body:       e.Body,
		CreatedAt:  e.CreatedAt,
	}
}

func (m *ChatMapper) MessageToEntity(mo *model.Message) *entity.Message {
	return &entity.Message{
		Id:         mo.Id,
		ChatRoomId: mo.ChatRoomId,
		SenderId:   mo.SenderId,
		Body:       mo.Body,
		CreatedAt:  mo.CreatedAt,
	}
}

func (m *ChatMapper) MessageReadToModel(e *entity.MessageRead) *model.MessageRead {
	return &model.MessageRead{
		MessageId: e.MessageId,
		UserId:    e.UserId,
		ReadAt:    e.ReadAt,
	}
}

func (m *ChatMapper) MessageReadToEntity(mo *model.MessageRead) *entity.MessageRead {
	return &entity.MessageRead{
		MessageId: mo.MessageId,
		UserId:    mo.UserId,
		ReadAt:    mo.ReadAt,
	}
}

func (m *ChatMapper) HireRequestToEntity(mo *model.HireRequest) *entity.HireRequest {
	return &entity.HireRequest{
		Id:           mo.Id,
		BuyerId:      mo.BuyerId,
		StudentId:    mo.StudentId,
		ServiceTitle: mo.ServiceTitle,
		Status:       mo.Status,
		CreatedAt:    mo.CreatedAt,
	}
}

func (m *ChatMapper) UserToEntity(mo *model.User) *entity.User {
	return &entity.User{
		Id:           mo.Id,
		FullName:     mo.FullName,
		Email:        mo.Email,
		Role:         mo.Role,
		Skills:       mo.Skills,
		PasswordHash: mo.PasswordHash,
		CreatedAt:    mo.CreatedAt,
	}
}

func (m *ChatMapper) UserToModel(e *entity.User) *model.User {
	return &model.User{
		Id:           e.Id,
		FullName:     e.FullName,
		Email:        e.Email,
		Role:         e.Role,
		Skills:       e.Skills,
		PasswordHash: e.PasswordHash,
		CreatedAt:    e.CreatedAt,
	}
}
