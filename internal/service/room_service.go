package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"collabotree-be/internal/entity"
	"collabotree-be/internal/pkg/apperror"
	"collabotree-be/internal/repository/contract"
	"collabotree-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// IRoomService resolves the single chat room bound to a hire request.
// Callers must have passed authorization before resolving a room.
type IRoomService interface {
	GetOrCreate(ctx context.Context, hireRequestID uuid.UUID) (*entity.ChatRoom, error)
	Find(ctx context.Context, hireRequestID uuid.UUID) (*entity.ChatRoom, error)
}

type roomService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewRoomService(uowFactory unitofwork.RepositoryFactory) IRoomService {
	return &roomService{
		uowFactory: uowFactory,
	}
}

func (s *roomService) Find(ctx context.Context, hireRequestID uuid.UUID) (*entity.ChatRoom, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	room, err := uow.ChatRoomRepository().FindByHireRequestID(ctx, hireRequestID)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}
	return room, nil
}

func (s *roomService) GetOrCreate(ctx context.Context, hireRequestID uuid.UUID) (*entity.ChatRoom, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.ChatRoomRepository()

	room, err := repo.FindByHireRequestID(ctx, hireRequestID)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}
	if room != nil {
		return room, nil
	}

	room = &entity.ChatRoom{
		Id:            uuid.New(),
		HireRequestId: hireRequestID,
		CreatedAt:     time.Now(),
	}
	err = repo.Create(ctx, room)
	if err == nil {
		return room, nil
	}
	if !errors.Is(err, contract.ErrDuplicate) {
		return nil, apperror.NewInternal(err)
	}

	// Lost the creation race: the REST path and the socket path can both
	// trigger creation for the same hire request. Re-read the winner.
	room, err = repo.FindByHireRequestID(ctx, hireRequestID)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}
	if room == nil {
		return nil, apperror.NewInternal(fmt.Errorf("chat room for hire request %s vanished after duplicate create", hireRequestID))
	}
	return room, nil
}
