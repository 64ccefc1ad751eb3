package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"collabotree-be/internal/constant"
	"collabotree-be/internal/dto"
	"collabotree-be/internal/entity"
	"collabotree-be/internal/pkg/apperror"
	"collabotree-be/internal/pkg/logger"
	"collabotree-be/internal/repository/memory"
	"collabotree-be/internal/repository/specification"
	"collabotree-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IMessageService interface {
	// Send appends a message and publishes it on the chat bus. Both the
	// REST controller and the socket gateway go through here, so every
	// persisted message reaches every connected participant exactly once.
	Send(ctx context.Context, userID uuid.UUID, role string, hireRequestID uuid.UUID, body string) (*dto.MessageResponse, error)

	// ListPage pages backward from the newest message (or the cursor),
	// returning the page oldest-to-newest for display.
	ListPage(ctx context.Context, userID uuid.UUID, role string, hireRequestID uuid.UUID, cursor *uuid.UUID, limit int) (*dto.ListMessagesResponse, error)

	// MarkAllRead inserts receipts for every message the caller has not
	// read yet. Re-marking is a no-op.
	MarkAllRead(ctx context.Context, userID uuid.UUID, role string, hireRequestID uuid.UUID) (*dto.MarkReadResponse, error)

	// MarkRead records a receipt for one message (socket path). Returns
	// (nil, nil) when the receipt already existed, so callers skip the
	// broadcast.
	MarkRead(ctx context.Context, userID uuid.UUID, role string, hireRequestID, messageID uuid.UUID) (*dto.ReadReceiptResponse, error)

	UnreadCount(ctx context.Context, userID uuid.UUID, role string, hireRequestID uuid.UUID) (*dto.UnreadCountResponse, error)
}

type messageService struct {
	uowFactory   unitofwork.RepositoryFactory
	access       IAccessService
	rooms        IRoomService
	busPublisher IChatPublisherService
	notifier     INotificationService
	profiles     *memory.ProfileCache
	logger       logger.ILogger
}

func NewMessageService(
	uowFactory unitofwork.RepositoryFactory,
	access IAccessService,
	rooms IRoomService,
	busPublisher IChatPublisherService,
	notifier INotificationService,
	profiles *memory.ProfileCache,
	log logger.ILogger,
) IMessageService {
	return &messageService{
		uowFactory:   uowFactory,
		access:       access,
		rooms:        rooms,
		busPublisher: busPublisher,
		notifier:     notifier,
		profiles:     profiles,
		logger:       log,
	}
}

func validateBody(body string) error {
	if strings.TrimSpace(body) == "" {
		return apperror.NewValidation("message body must not be empty")
	}
	if utf8.RuneCountInString(body) > constant.MaxMessageBodyLen {
		return apperror.NewValidation("message body exceeds the maximum length")
	}
	return nil
}

func (s *messageService) Send(ctx context.Context, userID uuid.UUID, role string, hireRequestID uuid.UUID, body string) (*dto.MessageResponse, error) {
	hire, err := s.access.Authorize(ctx, userID, role, hireRequestID)
	if err != nil {
		return nil, err
	}
	if err := validateBody(body); err != nil {
		return nil, err
	}

	room, err := s.rooms.GetOrCreate(ctx, hireRequestID)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	msg := &entity.Message{
		Id:         uuid.New(),
		ChatRoomId: room.Id,
		SenderId:   userID,
		Body:       body,
		CreatedAt:  time.Now(),
	}
	if err := uow.MessageRepository().Create(ctx, msg); err != nil {
		return nil, apperror.NewInternal(err)
	}

	senderName := s.displayName(ctx, uow, userID)

	res := s.toMessageResponse(msg, hireRequestID, senderName)

	if err := s.busPublisher.PublishChatEvent(ctx, res.ToMessageCreatedEvent()); err != nil {
		// The message is persisted; peers still see it on next list.
		s.logger.Warn("MessageService", "Failed to publish message event", map[string]interface{}{
			"message_id": msg.Id,
			"error":      err.Error(),
		})
	}

	if recipient := peerOf(hire, userID); recipient != uuid.Nil {
		s.notifier.Notify(ctx, recipient, constant.NotifChatMessageCreated,
			"New message", senderName+" sent you a message")
	}

	return res, nil
}

func (s *messageService) ListPage(ctx context.Context, userID uuid.UUID, role string, hireRequestID uuid.UUID, cursor *uuid.UUID, limit int) (*dto.ListMessagesResponse, error) {
	if _, err := s.access.Authorize(ctx, userID, role, hireRequestID); err != nil {
		return nil, err
	}

	room, err := s.rooms.Find(ctx, hireRequestID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		// No message has been sent yet; an empty page, not an error.
		return &dto.ListMessagesResponse{Messages: []*dto.MessageResponse{}}, nil
	}

	if limit <= 0 {
		limit = constant.DefaultMessagePageSize
	}
	if limit > constant.MaxMessagePageSize {
		limit = constant.MaxMessagePageSize
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.MessageRepository()

	specs := []specification.Specification{
		specification.ByChatRoomID{ChatRoomID: room.Id},
	}
	if cursor != nil {
		cursorMsg, err := repo.FindOne(ctx,
			specification.ByID{ID: *cursor},
			specification.ByChatRoomID{ChatRoomID: room.Id},
		)
		if err != nil {
			return nil, apperror.NewInternal(err)
		}
		if cursorMsg == nil {
			return nil, apperror.NewValidation("unknown cursor")
		}
		specs = append(specs, specification.CreatedBefore{CreatedAt: cursorMsg.CreatedAt, ID: cursorMsg.Id})
	}
	specs = append(specs, specification.NewestFirst{}, specification.Limit{Limit: limit + 1})

	page, err := repo.FindAll(ctx, specs...)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}

	hasMore := len(page) > limit
	if hasMore {
		page = page[:limit]
	}

	res := &dto.ListMessagesResponse{
		Messages: make([]*dto.MessageResponse, len(page)),
		HasMore:  hasMore,
	}
	if len(page) > 0 {
		oldest := page[len(page)-1].Id
		res.NextCursor = &oldest
	}
	// page is newest-first; reverse for oldest-to-newest display order.
	for i, msg := range page {
		res.Messages[len(page)-1-i] = s.toMessageResponse(msg, hireRequestID, s.displayName(ctx, uow, msg.SenderId))
	}

	return res, nil
}

func (s *messageService) MarkAllRead(ctx context.Context, userID uuid.UUID, role string, hireRequestID uuid.UUID) (*dto.MarkReadResponse, error) {
	if _, err := s.access.Authorize(ctx, userID, role, hireRequestID); err != nil {
		return nil, err
	}

	room, err := s.rooms.Find(ctx, hireRequestID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return &dto.MarkReadResponse{MarkedCount: 0}, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	unread, err := uow.MessageRepository().FindAll(ctx,
		specification.ByChatRoomID{ChatRoomID: room.Id},
		specification.UnreadBy{UserID: userID},
	)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}
	if len(unread) == 0 {
		return &dto.MarkReadResponse{MarkedCount: 0}, nil
	}

	now := time.Now()
	reads := make([]*entity.MessageRead, len(unread))
	messageIds := make([]uuid.UUID, len(unread))
	for i, msg := range unread {
		reads[i] = &entity.MessageRead{MessageId: msg.Id, UserId: userID, ReadAt: now}
		messageIds[i] = msg.Id
	}
	if err := uow.MessageReadRepository().CreateIgnoreDuplicates(ctx, reads); err != nil {
		return nil, apperror.NewInternal(err)
	}

	s.publishReadEvent(ctx, hireRequestID, room.Id, messageIds, userID, now)

	return &dto.MarkReadResponse{MarkedCount: len(unread)}, nil
}

func (s *messageService) MarkRead(ctx context.Context, userID uuid.UUID, role string, hireRequestID, messageID uuid.UUID) (*dto.ReadReceiptResponse, error) {
	if _, err := s.access.Authorize(ctx, userID, role, hireRequestID); err != nil {
		return nil, err
	}

	room, err := s.rooms.Find(ctx, hireRequestID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, apperror.NewNotFound("message not found in this chat")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	msg, err := uow.MessageRepository().FindOne(ctx,
		specification.ByID{ID: messageID},
		specification.ByChatRoomID{ChatRoomID: room.Id},
	)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}
	if msg == nil {
		return nil, apperror.NewNotFound("message not found in this chat")
	}

	alreadyRead, err := uow.MessageReadRepository().Exists(ctx, messageID, userID)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}
	if alreadyRead {
		return nil, nil
	}

	now := time.Now()
	read := &entity.MessageRead{MessageId: messageID, UserId: userID, ReadAt: now}
	if err := uow.MessageReadRepository().CreateIgnoreDuplicates(ctx, []*entity.MessageRead{read}); err != nil {
		return nil, apperror.NewInternal(err)
	}

	s.publishReadEvent(ctx, hireRequestID, room.Id, []uuid.UUID{messageID}, userID, now)

	return &dto.ReadReceiptResponse{
		MessageIds: []uuid.UUID{messageID},
		ReaderId:   userID,
		ReadAt:     now,
	}, nil
}

func (s *messageService) UnreadCount(ctx context.Context, userID uuid.UUID, role string, hireRequestID uuid.UUID) (*dto.UnreadCountResponse, error) {
	if _, err := s.access.Authorize(ctx, userID, role, hireRequestID); err != nil {
		return nil, err
	}

	room, err := s.rooms.Find(ctx, hireRequestID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return &dto.UnreadCountResponse{Count: 0}, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	count, err := uow.MessageRepository().Count(ctx,
		specification.ByChatRoomID{ChatRoomID: room.Id},
		specification.UnreadBy{UserID: userID},
	)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}

	return &dto.UnreadCountResponse{Count: int(count)}, nil
}

func (s *messageService) publishReadEvent(ctx context.Context, hireRequestID, roomID uuid.UUID, messageIds []uuid.UUID, readerID uuid.UUID, readAt time.Time) {
	evt := dto.NewMessagesReadEvent(hireRequestID, roomID, messageIds, readerID, readAt)
	if err := s.busPublisher.PublishChatEvent(ctx, evt); err != nil {
		s.logger.Warn("MessageService", "Failed to publish read event", map[string]interface{}{
			"room_id": roomID,
			"error":   err.Error(),
		})
	}
}

func (s *messageService) toMessageResponse(msg *entity.Message, hireRequestID uuid.UUID, senderName string) *dto.MessageResponse {
	return &dto.MessageResponse{
		Id:            msg.Id,
		ChatRoomId:    msg.ChatRoomId,
		HireRequestId: hireRequestID,
		SenderId:      msg.SenderId,
		SenderName:    senderName,
		Body:          msg.Body,
		CreatedAt:     msg.CreatedAt,
	}
}

// displayName resolves the sender's name for broadcast payloads, caching
// briefly. Display info only; authorization never reads this cache.
func (s *messageService) displayName(ctx context.Context, uow unitofwork.UnitOfWork, userID uuid.UUID) string {
	if cached, ok := s.profiles.Get(userID); ok {
		return cached.FullName
	}
	user, err := uow.UserRepository().FindByID(ctx, userID)
	if err != nil || user == nil {
		return "Unknown"
	}
	s.profiles.Save(user)
	return user.FullName
}

// peerOf returns the other participant to notify, or Nil when the sender
// is an observing admin.
func peerOf(hire *entity.HireRequest, senderID uuid.UUID) uuid.UUID {
	switch senderID {
	case hire.BuyerId:
		return hire.StudentId
	case hire.StudentId:
		return hire.BuyerId
	default:
		return uuid.Nil
	}
}
