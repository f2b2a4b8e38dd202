package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Notification struct {
	ID              uuid.UUID                                `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID                                `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	Title           string                                   `gorm:"not null;column:title" json:"title"`
	Content         string                                   `gorm:"not null;column:content" json:"content"`
	ItemID          *uuid.UUID                               `gorm:"type:uuid;column:item_id" json:"item_id,omitempty"`
	InteractionType InteractionType                          `gorm:"not null;default:'INFO';column:interaction_type" json:"interaction_type"`
	InteractionData datatypes.JSONMap                        `gorm:"column:interaction_data" json:"interaction_data"`
	Channels        datatypes.JSONSlice[NotificationChannel] `gorm:"column:channels" json:"channels"`
	IsRead          bool                                     `gorm:"not null;default:false;column:is_read" json:"is_read"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }

// NotificationPayload is the service-level input; the persisted row is the
// source of truth for unread state.
type NotificationPayload struct {
	Title           string                `json:"title"`
	Content         string                `json:"content"`
	ItemID          *uuid.UUID            `json:"itemId,omitempty"`
	InteractionType InteractionType       `json:"interactionType"`
	InteractionData map[string]any        `json:"interactionData,omitempty"`
	Channels        []NotificationChannel `json:"channels"`
}
