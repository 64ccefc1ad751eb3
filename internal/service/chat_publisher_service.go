package service

import (
	"context"
	"encoding/json"

	"collabotree-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// IChatPublisherService puts chat events on the in-process bus. The
// websocket hub is the subscriber; routing both the REST send path and the
// socket send path through here is what keeps the two transports
// consistent.
type IChatPublisherService interface {
	PublishChatEvent(ctx context.Context, event *events.ChatEvent) error
}

type chatPublisherService struct {
	pubSub *gochannel.GoChannel
}

func NewChatPublisherService(pubSub *gochannel.GoChannel) IChatPublisherService {
	return &chatPublisherService{
		pubSub: pubSub,
	}
}

func (s *chatPublisherService) PublishChatEvent(_ context.Context, event *events.ChatEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	return s.pubSub.Publish(events.ChatTopic, msg)
}
