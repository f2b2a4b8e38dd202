package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/novinresanehco/lifeos-backend/internal/pkg/logger"
	"github.com/novinresanehco/lifeos-backend/internal/types"
)

type ItemRelationRepo interface {
	Create(ctx context.Context, tx *gorm.DB, relation *types.ItemRelation) (*types.ItemRelation, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ItemRelation, error)
	// ListTouching returns every edge where the item is either endpoint.
	ListTouching(ctx context.Context, tx *gorm.DB, itemID uuid.UUID) ([]*types.ItemRelation, error)
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type itemRelationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewItemRelationRepo(db *gorm.DB, baseLog *logger.Logger) ItemRelationRepo {
	return &itemRelationRepo{db: db, log: baseLog.With("repo", "ItemRelationRepo")}
}

func (r *itemRelationRepo) Create(ctx context.Context, tx *gorm.DB, relation *types.ItemRelation) (*types.ItemRelation, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if relation.ID == uuid.Nil {
		relation.ID = uuid.New()
	}
	if err := transaction.WithContext(ctx).Create(relation).Error; err != nil {
		return nil, err
	}
	return relation, nil
}

func (r *itemRelationRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ItemRelation, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var relation types.ItemRelation
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&relation).Error; err != nil {
		return nil, err
	}
	return &relation, nil
}

func (r *itemRelationRepo) ListTouching(ctx context.Context, tx *gorm.DB, itemID uuid.UUID) ([]*types.ItemRelation, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var relations []*types.ItemRelation
	if err := transaction.WithContext(ctx).
		Where("from_item_id = ? OR to_item_id = ?", itemID, itemID).
		Find(&relations).Error; err != nil {
		return nil, err
	}
	return relations, nil
}

func (r *itemRelationRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.ItemRelation{}).Error
}
