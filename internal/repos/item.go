package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/novinresanehco/lifeos-backend/internal/pkg/logger"
	"github.com/novinresanehco/lifeos-backend/internal/types"
)

// ItemFilters narrows ListByUser. Zero values mean "no filter"; SortBy is
// restricted to a known column set to keep user input out of SQL.
type ItemFilters struct {
	Type       types.ItemType
	Status     types.ItemStatus
	Importance types.Importance
	Search     string
	SortBy     string
	SortAsc    bool
}

var sortableItemColumns = map[string]bool{
	"title":      true,
	"type":       true,
	"status":     true,
	"importance": true,
	"due_date":   true,
	"created_at": true,
	"updated_at": true,
}

type ItemRepo interface {
	Create(ctx context.Context, tx *gorm.DB, item *types.Item) (*types.Item, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Item, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Item, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, filters ItemFilters) ([]*types.Item, error)
	Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]any) (*types.Item, error)
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type itemRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewItemRepo(db *gorm.DB, baseLog *logger.Logger) ItemRepo {
	return &itemRepo{db: db, log: baseLog.With("repo", "ItemRepo")}
}

func (r *itemRepo) Create(ctx context.Context, tx *gorm.DB, item *types.Item) (*types.Item, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	if err := transaction.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (r *itemRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Item, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var item types.Item
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Item, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var items []*types.Item
	if len(ids) == 0 {
		return items, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *itemRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, filters ItemFilters) ([]*types.Item, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	query := transaction.WithContext(ctx).
		Model(&types.Item{}).
		Where("user_id = ?", userID)

	if filters.Type != "" {
		query = query.Where("type = ?", filters.Type)
	}
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.Importance != "" {
		query = query.Where("importance = ?", filters.Importance)
	}
	if filters.Search != "" {
		pattern := "%" + filters.Search + "%"
		query = query.Where("title LIKE ? OR description LIKE ?", pattern, pattern)
	}

	sortBy := filters.SortBy
	if !sortableItemColumns[sortBy] {
		sortBy = "updated_at"
	}
	direction := "DESC"
	if filters.SortAsc {
		direction = "ASC"
	}

	var items []*types.Item
	if err := query.Order(sortBy + " " + direction).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *itemRepo) Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]any) (*types.Item, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	fields["updated_at"] = time.Now()
	if err := transaction.WithContext(ctx).
		Model(&types.Item{}).
		Where("id = ?", id).
		Updates(fields).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, tx, id)
}

func (r *itemRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.Item{}).Error
}
