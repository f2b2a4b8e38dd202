package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/novinresanehco/lifeos-backend/internal/http/handlers"
	"github.com/novinresanehco/lifeos-backend/internal/http/middleware"
	"github.com/novinresanehco/lifeos-backend/internal/pkg/logger"
)

type RouterConfig struct {
	Log                 *logger.Logger
	ServiceName         string
	AllowedOrigins      []string
	AuthMiddleware      *middleware.AuthMiddleware
	AuthHandler         *handlers.AuthHandler
	UserHandler         *handlers.UserHandler
	ItemHandler         *handlers.ItemHandler
	AIHandler           *handlers.AIHandler
	NotificationHandler *handlers.NotificationHandler
	RealtimeHandler     *handlers.RealtimeHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLog(cfg.Log))
	router.Use(otelgin.Middleware(cfg.ServiceName))
	router.Use(middleware.AttachTraceContext())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// Public
	router.GET("/healthcheck", handlers.HealthCheck)
	router.POST("/api/register", cfg.AuthHandler.Register)
	router.POST("/api/login", cfg.AuthHandler.Login)
	router.POST("/api/refresh", cfg.AuthHandler.Refresh)

	// The hub validates its own session handshake.
	router.GET("/ws", cfg.RealtimeHandler.Stream)

	// Protected
	api := router.Group("/api")
	api.Use(cfg.AuthMiddleware.RequireAuth())

	api.POST("/logout", cfg.AuthHandler.Logout)

	api.GET("/user", cfg.UserHandler.GetMe)
	api.PATCH("/user/locale", cfg.UserHandler.UpdateLocale)
	api.GET("/user/settings", cfg.UserHandler.GetSettings)
	api.POST("/user/settings", cfg.UserHandler.UpdateSettings)

	api.GET("/items", cfg.ItemHandler.List)
	api.POST("/items", cfg.ItemHandler.Create)
	api.GET("/items/:id", cfg.ItemHandler.Get)
	api.PATCH("/items/:id", cfg.ItemHandler.Update)
	api.DELETE("/items/:id", cfg.ItemHandler.Delete)
	api.GET("/items/:id/comments", cfg.ItemHandler.ListComments)
	api.POST("/items/:id/comments", cfg.ItemHandler.AddComment)

	api.POST("/item-relations", cfg.ItemHandler.CreateRelation)
	api.DELETE("/item-relations/:id", cfg.ItemHandler.DeleteRelation)

	api.POST("/items/:id/process", cfg.AIHandler.ProcessItem)
	api.GET("/items/:id/ai-insights", cfg.AIHandler.ItemInsights)
	api.GET("/items/:id/ai-logs", cfg.AIHandler.ItemLogs)
	api.GET("/ai-models", cfg.AIHandler.ListModels)
	api.PATCH("/ai-models/:id/status", cfg.AIHandler.SetModelStatus)

	api.GET("/notifications", cfg.NotificationHandler.List)
	api.POST("/notifications/:id/read", cfg.NotificationHandler.MarkRead)

	return router
}
