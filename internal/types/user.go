package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username string    `gorm:"uniqueIndex;not null;column:username" json:"username"`
	Password string    `gorm:"not null;column:password" json:"-"`
	Email    string    `gorm:"column:email" json:"email"`
	Locale   string    `gorm:"not null;default:'fa-IR';column:locale" json:"locale"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (User) TableName() string { return "users" }

type UserToken struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	AccessToken  string    `gorm:"not null;column:access_token" json:"-"`
	RefreshToken string    `gorm:"not null;column:refresh_token" json:"-"`
	ExpiresAt    time.Time `gorm:"not null;column:expires_at" json:"expires_at"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (UserToken) TableName() string { return "user_tokens" }

type UserSettings struct {
	ID                      uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	UserID                  uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex;column:user_id" json:"user_id"`
	TelegramChatID          string            `gorm:"column:telegram_chat_id" json:"telegram_chat_id"`
	ExecutionModuleSettings datatypes.JSONMap `gorm:"column:execution_module_settings" json:"execution_module_settings"`
	NotificationSettings    datatypes.JSONMap `gorm:"column:notification_settings" json:"notification_settings"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (UserSettings) TableName() string { return "user_settings" }
