package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AIModel struct {
	ID         uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	Name       string            `gorm:"not null;index:idx_ai_models_name_type,unique;column:name" json:"name"`
	ModelType  ModelType         `gorm:"not null;index:idx_ai_models_name_type,unique;column:model_type" json:"model_type"`
	Endpoint   string            `gorm:"column:endpoint" json:"endpoint"`
	IsActive   bool              `gorm:"not null;default:true;column:is_active" json:"is_active"`
	Parameters datatypes.JSONMap `gorm:"column:parameters" json:"parameters"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (AIModel) TableName() string { return "ai_models" }

// AIProcessingLog rows are append-only; nothing mutates them after insert
// except the soft-delete flag.
type AIProcessingLog struct {
	ID        uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	ItemID    uuid.UUID         `gorm:"type:uuid;not null;index;column:item_id" json:"item_id"`
	ModelID   *uuid.UUID        `gorm:"type:uuid;column:model_id" json:"model_id,omitempty"`
	LogLevel  LogLevel          `gorm:"not null;default:'INFO';column:log_level" json:"log_level"`
	Message   string            `gorm:"not null;column:message" json:"message"`
	Details   datatypes.JSONMap `gorm:"column:details" json:"details"`
	Timestamp time.Time         `gorm:"not null;column:timestamp" json:"timestamp"`
	IsDeleted bool              `gorm:"not null;default:false;column:is_deleted" json:"is_deleted"`
}

func (AIProcessingLog) TableName() string { return "ai_processing_logs" }

// AIAnalysisResult is immutable once created.
type AIAnalysisResult struct {
	ID                  uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	ItemID              uuid.UUID          `gorm:"type:uuid;not null;index;column:item_id" json:"item_id"`
	Title               string             `gorm:"not null;column:title" json:"title"`
	Content             datatypes.JSON     `gorm:"not null;column:content" json:"content"`
	ProcessingStrategy  ProcessingStrategy `gorm:"not null;column:processing_strategy" json:"processing_strategy"`
	IsVisibleInOverview bool               `gorm:"not null;default:false;column:is_visible_in_overview" json:"is_visible_in_overview"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (AIAnalysisResult) TableName() string { return "ai_analysis_results" }
