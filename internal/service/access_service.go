package service

import (
	"context"

	"collabotree-be/internal/constant"
	"collabotree-be/internal/entity"
	"collabotree-be/internal/pkg/apperror"
	"collabotree-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// IAccessService answers whether a user may act on a hire request's chat.
// Checks are pure reads and run on every operation so a status change
// (e.g. a cancellation mid-conversation) takes effect immediately.
type IAccessService interface {
	// Authorize loads the hire request and enforces both gates: the caller
	// must be a participant (or admin) and the status must be ACCEPTED.
	// Missing hire request -> NotFound; stranger or locked chat -> Forbidden.
	Authorize(ctx context.Context, userID uuid.UUID, role string, hireRequestID uuid.UUID) (*entity.HireRequest, error)

	IsParticipant(userID uuid.UUID, role string, hire *entity.HireRequest) bool
	ChatAvailable(hire *entity.HireRequest) bool
}

type accessService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewAccessService(uowFactory unitofwork.RepositoryFactory) IAccessService {
	return &accessService{
		uowFactory: uowFactory,
	}
}

func (s *accessService) Authorize(ctx context.Context, userID uuid.UUID, role string, hireRequestID uuid.UUID) (*entity.HireRequest, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	hire, err := uow.HireRequestRepository().FindByID(ctx, hireRequestID)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}
	if hire == nil {
		return nil, apperror.NewNotFound("hire request not found")
	}

	// Two independent gates: who you are, then whether chat is unlocked.
	if !s.IsParticipant(userID, role, hire) {
		return nil, apperror.NewForbidden("you are not a participant of this hire request")
	}
	if !s.ChatAvailable(hire) {
		return nil, apperror.NewForbidden("chat is not available until the hire request is accepted")
	}

	return hire, nil
}

func (s *accessService) IsParticipant(userID uuid.UUID, role string, hire *entity.HireRequest) bool {
	if hire == nil || userID == uuid.Nil {
		return false
	}
	if role == constant.RoleAdmin {
		return true
	}
	return userID == hire.BuyerId || userID == hire.StudentId
}

func (s *accessService) ChatAvailable(hire *entity.HireRequest) bool {
	return hire != nil && hire.Status == constant.HireStatusAccepted
}
