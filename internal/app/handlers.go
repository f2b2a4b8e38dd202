package app

import (
	"github.com/novinresanehco/lifeos-backend/internal/http/handlers"
	"github.com/novinresanehco/lifeos-backend/internal/pkg/logger"
	"github.com/novinresanehco/lifeos-backend/internal/realtime"
)

type Handlers struct {
	Auth         *handlers.AuthHandler
	User         *handlers.UserHandler
	Item         *handlers.ItemHandler
	AI           *handlers.AIHandler
	Notification *handlers.NotificationHandler
	Realtime     *handlers.RealtimeHandler
}

func wireHandlers(log *logger.Logger, s Services, hub *realtime.Hub) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Auth:         handlers.NewAuthHandler(s.Auth),
		User:         handlers.NewUserHandler(s.User),
		Item:         handlers.NewItemHandler(s.Item),
		AI:           handlers.NewAIHandler(s.Item, s.Processor, s.ModelCatalog, s.Registry, s.Notification),
		Notification: handlers.NewNotificationHandler(s.Notification),
		Realtime:     handlers.NewRealtimeHandler(hub),
	}
}
