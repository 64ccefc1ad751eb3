package service

import (
	"context"
	"time"

	"collabotree-be/internal/pkg/logger"
	"collabotree-be/pkg/events"

	"github.com/google/uuid"
)

// EventPublisher is satisfied by the NATS publisher. Kept as an interface
// so tests can observe dispatches without a broker.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// INotificationService enqueues notifications with the external dispatch
// collaborator. Delivery is fire-and-forget: chat never waits on the
// result and ignores failures beyond logging them.
type INotificationService interface {
	Notify(ctx context.Context, userID uuid.UUID, typeCode, title, body string)
}

type notificationService struct {
	publisher EventPublisher
	logger    logger.ILogger
}

func NewNotificationService(publisher EventPublisher, log logger.ILogger) INotificationService {
	return &notificationService{
		publisher: publisher,
		logger:    log,
	}
}

func (s *notificationService) Notify(ctx context.Context, userID uuid.UUID, typeCode, title, body string) {
	if s.publisher == nil {
		// NATS was unreachable at boot; notifications are best-effort.
		return
	}

	evt := events.BaseEvent{
		Type: typeCode,
		Data: map[string]interface{}{
			"user_id": userID.String(),
			"title":   title,
			"body":    body,
		},
		OccurredAt: time.Now(),
	}

	if err := s.publisher.Publish(ctx, evt); err != nil {
		s.logger.Warn("NotificationService", "Failed to dispatch notification", map[string]interface{}{
			"user_id": userID,
			"type":    typeCode,
			"error":   err.Error(),
		})
	}
}
