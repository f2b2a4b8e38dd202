package repos

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/novinresanehco/lifeos-backend/internal/pkg/logger"
	"github.com/novinresanehco/lifeos-backend/internal/types"
)

type UserSettingsRepo interface {
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UserSettings, error)
	// Upsert patches the user's settings row, creating it on first write.
	Upsert(ctx context.Context, tx *gorm.DB, userID uuid.UUID, patch map[string]any) (*types.UserSettings, error)
}

type userSettingsRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserSettingsRepo(db *gorm.DB, baseLog *logger.Logger) UserSettingsRepo {
	return &userSettingsRepo{db: db, log: baseLog.With("repo", "UserSettingsRepo")}
}

func (r *userSettingsRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UserSettings, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var settings types.UserSettings
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&settings).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *userSettingsRepo) Upsert(ctx context.Context, tx *gorm.DB, userID uuid.UUID, patch map[string]any) (*types.UserSettings, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	existing, err := r.GetByUserID(ctx, transaction, userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		settings := &types.UserSettings{
			ID:     uuid.New(),
			UserID: userID,
		}
		applySettingsPatch(settings, patch)
		if err := transaction.WithContext(ctx).Create(settings).Error; err != nil {
			return nil, err
		}
		return settings, nil
	}

	patch["updated_at"] = time.Now()
	if err := transaction.WithContext(ctx).
		Model(&types.UserSettings{}).
		Where("id = ?", existing.ID).
		Updates(patch).Error; err != nil {
		return nil, err
	}
	return r.GetByUserID(ctx, transaction, userID)
}

func applySettingsPatch(settings *types.UserSettings, patch map[string]any) {
	if v, ok := patch["telegram_chat_id"].(string); ok {
		settings.TelegramChatID = v
	}
	if v, ok := patch["execution_module_settings"].(map[string]any); ok {
		settings.ExecutionModuleSettings = v
	}
	if v, ok := patch["notification_settings"].(map[string]any); ok {
		settings.NotificationSettings = v
	}
}
