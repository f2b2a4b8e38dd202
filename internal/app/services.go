package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/novinresanehco/lifeos-backend/internal/clients/ollama"
	"github.com/novinresanehco/lifeos-backend/internal/clients/redis"
	"github.com/novinresanehco/lifeos-backend/internal/clients/telegram"
	"github.com/novinresanehco/lifeos-backend/internal/pkg/envutil"
	"github.com/novinresanehco/lifeos-backend/internal/pkg/logger"
	"github.com/novinresanehco/lifeos-backend/internal/realtime"
	"github.com/novinresanehco/lifeos-backend/internal/services"
)

type Services struct {
	Auth         services.AuthService
	User         services.UserService
	Item         services.ItemService
	Notification services.NotificationService
	Processor    services.ProcessorService
	ModelCatalog services.ModelCatalogService
	Registry     services.ModelRegistry
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, hub *realtime.Hub) (Services, error) {
	log.Info("Wiring services...")

	sessions, err := newSessionStore(log)
	if err != nil {
		return Services{}, fmt.Errorf("init session store: %w", err)
	}

	tuning, err := services.LoadStrategyTuning(cfg.StrategyTuningPath)
	if err != nil {
		return Services{}, err
	}

	ollamaClient := ollama.NewClient(log)
	telegramClient := telegram.NewFromEnv(log)

	auth := services.NewAuthService(db, log, r.User, r.UserToken, sessions, cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	notification := services.NewNotificationService(db, log, r.Notification, r.UserSettings, hub, telegramClient)

	return Services{
		Auth:         auth,
		User:         services.NewUserService(db, log, r.User, r.UserSettings),
		Item:         services.NewItemService(db, log, r.Item, r.ItemRelation, r.Comment, r.AIResult, r.AILog),
		Notification: notification,
		Processor:    services.NewProcessorService(db, log, ollamaClient, r.Item, r.AIModel, r.AILog, r.AIResult, tuning),
		ModelCatalog: services.NewModelCatalogService(db, log, r.AIModel),
		Registry:     services.NewModelRegistry(db, log, ollamaClient, r.AIModel),
	}, nil
}

// newSessionStore prefers redis and degrades to the in-process store when no
// REDIS_ADDR is configured.
func newSessionStore(log *logger.Logger) (redis.SessionStore, error) {
	if envutil.Str("REDIS_ADDR", "") == "" {
		log.Warn("REDIS_ADDR not set, using in-memory session store")
		return redis.NewMemorySessionStore(), nil
	}
	return redis.NewSessionStore(log)
}
