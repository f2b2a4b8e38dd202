package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/novinresanehco/lifeos-backend/internal/pkg/logger"
	"github.com/novinresanehco/lifeos-backend/internal/types"
)

type AIModelRepo interface {
	Create(ctx context.Context, tx *gorm.DB, model *types.AIModel) (*types.AIModel, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.AIModel, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.AIModel, error)
	ListByType(ctx context.Context, tx *gorm.DB, modelType types.ModelType) ([]*types.AIModel, error)
	ListActiveByType(ctx context.Context, tx *gorm.DB, modelType types.ModelType) ([]*types.AIModel, error)
	SetActive(ctx context.Context, tx *gorm.DB, id uuid.UUID, isActive bool) error
}

type aiModelRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAIModelRepo(db *gorm.DB, baseLog *logger.Logger) AIModelRepo {
	return &aiModelRepo{db: db, log: baseLog.With("repo", "AIModelRepo")}
}

func (r *aiModelRepo) Create(ctx context.Context, tx *gorm.DB, model *types.AIModel) (*types.AIModel, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if model.ID == uuid.Nil {
		model.ID = uuid.New()
	}
	if err := transaction.WithContext(ctx).Create(model).Error; err != nil {
		return nil, err
	}
	return model, nil
}

func (r *aiModelRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.AIModel, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var model types.AIModel
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, err
	}
	return &model, nil
}

func (r *aiModelRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.AIModel, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var models []*types.AIModel
	if err := transaction.WithContext(ctx).
		Order("name ASC").
		Find(&models).Error; err != nil {
		return nil, err
	}
	return models, nil
}

func (r *aiModelRepo) ListByType(ctx context.Context, tx *gorm.DB, modelType types.ModelType) ([]*types.AIModel, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var models []*types.AIModel
	if err := transaction.WithContext(ctx).
		Where("model_type = ?", modelType).
		Order("name ASC").
		Find(&models).Error; err != nil {
		return nil, err
	}
	return models, nil
}

func (r *aiModelRepo) ListActiveByType(ctx context.Context, tx *gorm.DB, modelType types.ModelType) ([]*types.AIModel, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var models []*types.AIModel
	if err := transaction.WithContext(ctx).
		Where("model_type = ? AND is_active = ?", modelType, true).
		Order("name ASC").
		Find(&models).Error; err != nil {
		return nil, err
	}
	return models, nil
}

func (r *aiModelRepo) SetActive(ctx context.Context, tx *gorm.DB, id uuid.UUID, isActive bool) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.AIModel{}).
		Where("id = ?", id).
		Update("is_active", isActive).Error
}
