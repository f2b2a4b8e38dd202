package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/novinresanehco/lifeos-backend/internal/pkg/logger"
	"github.com/novinresanehco/lifeos-backend/internal/types"
)

type AIResultRepo interface {
	Create(ctx context.Context, tx *gorm.DB, result *types.AIAnalysisResult) (*types.AIAnalysisResult, error)
	ListByItem(ctx context.Context, tx *gorm.DB, itemID uuid.UUID) ([]*types.AIAnalysisResult, error)
}

type aiResultRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAIResultRepo(db *gorm.DB, baseLog *logger.Logger) AIResultRepo {
	return &aiResultRepo{db: db, log: baseLog.With("repo", "AIResultRepo")}
}

func (r *aiResultRepo) Create(ctx context.Context, tx *gorm.DB, result *types.AIAnalysisResult) (*types.AIAnalysisResult, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if result.ID == uuid.Nil {
		result.ID = uuid.New()
	}
	if err := transaction.WithContext(ctx).Create(result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

func (r *aiResultRepo) ListByItem(ctx context.Context, tx *gorm.DB, itemID uuid.UUID) ([]*types.AIAnalysisResult, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.AIAnalysisResult
	if err := transaction.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
