package unitofwork

import (
	"context"

	"collabotree-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ChatRoomRepository() contract.ChatRoomRepository
	MessageRepository() contract.MessageRepository
	MessageReadRepository() contract.MessageReadRepository
	HireRequestRepository() contract.HireRequestRepository
	UserRepository() contract.UserRepository
}
