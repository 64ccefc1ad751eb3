package bootstrap

import (
	"context"
	"log"

	"collabotree-be/internal/config"
	"collabotree-be/internal/controller"
	"collabotree-be/internal/pkg/logger"
	"collabotree-be/internal/repository/memory"
	"collabotree-be/internal/repository/unitofwork"
	"collabotree-be/internal/service"
	"collabotree-be/internal/websocket"

	pktNats "collabotree-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController controller.IChatController

	// WebSockets
	ChatSocketHandler *websocket.ChatSocketHandler
	WebSocketHub      *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	// NATS. Chat works without it; notifications are best-effort.
	var eventPublisher service.EventPublisher
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	} else {
		eventPublisher = natsPub
	}

	// Redis. Without it broadcasts stay instance-local, which is correct
	// for a single-process deployment.
	var rdb *redis.Client
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb = redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// WebSocket Hub
	chatLogger := logger.NewIsolatedLogger(cfg.App.ChatLogFilePath)
	wsHub := websocket.NewHub(pubSub, rdb, chatLogger)
	go wsHub.Run()
	if err := wsHub.ConsumeBus(context.Background()); err != nil {
		log.Fatalf("[FATAL] Failed to subscribe hub to chat bus: %v", err)
	}

	// 3. Services
	profileCache := memory.NewProfileCache()

	accessService := service.NewAccessService(uowFactory)
	roomService := service.NewRoomService(uowFactory)
	chatPublisher := service.NewChatPublisherService(pubSub)
	notifService := service.NewNotificationService(eventPublisher, sysLogger)

	messageService := service.NewMessageService(
		uowFactory,
		accessService,
		roomService,
		chatPublisher,
		notifService,
		profileCache,
		sysLogger,
	)

	// 4. Gateway & Controllers
	gateway := websocket.NewGateway(wsHub, accessService, roomService, messageService, chatLogger)
	socketHandler := websocket.NewChatSocketHandler(wsHub, gateway)

	return &Container{
		ChatController:    controller.NewChatController(messageService),
		ChatSocketHandler: socketHandler,
		WebSocketHub:      wsHub,
	}
}
