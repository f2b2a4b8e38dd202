package app

import (
	"github.com/gin-gonic/gin"

	"github.com/novinresanehco/lifeos-backend/internal/pkg/logger"
	"github.com/novinresanehco/lifeos-backend/internal/server"
)

func wireRouter(log *logger.Logger, cfg Config, h Handlers, m Middleware) *gin.Engine {
	log.Info("Wiring router...")
	return server.NewRouter(server.RouterConfig{
		Log:                 log,
		ServiceName:         cfg.ServiceName,
		AllowedOrigins:      cfg.AllowedOrigins,
		AuthMiddleware:      m.Auth,
		AuthHandler:         h.Auth,
		UserHandler:         h.User,
		ItemHandler:         h.Item,
		AIHandler:           h.AI,
		NotificationHandler: h.Notification,
		RealtimeHandler:     h.Realtime,
	})
}
