package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/novinresanehco/lifeos-backend/internal/pkg/logger"
	"github.com/novinresanehco/lifeos-backend/internal/types"
)

type AILogRepo interface {
	Create(ctx context.Context, tx *gorm.DB, log *types.AIProcessingLog) (*types.AIProcessingLog, error)
	ListByItem(ctx context.Context, tx *gorm.DB, itemID uuid.UUID, level types.LogLevel) ([]*types.AIProcessingLog, error)
	SoftDelete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type aiLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAILogRepo(db *gorm.DB, baseLog *logger.Logger) AILogRepo {
	return &aiLogRepo{db: db, log: baseLog.With("repo", "AILogRepo")}
}

func (r *aiLogRepo) Create(ctx context.Context, tx *gorm.DB, entry *types.AIProcessingLog) (*types.AIProcessingLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	if err := transaction.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

// ListByItem filters soft-deleted rows out; level narrows to one log level
// when non-empty.
func (r *aiLogRepo) ListByItem(ctx context.Context, tx *gorm.DB, itemID uuid.UUID, level types.LogLevel) ([]*types.AIProcessingLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	query := transaction.WithContext(ctx).
		Where("item_id = ? AND is_deleted = ?", itemID, false)
	if level != "" {
		query = query.Where("log_level = ?", level)
	}
	var entries []*types.AIProcessingLog
	if err := query.Order("timestamp DESC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *aiLogRepo) SoftDelete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.AIProcessingLog{}).
		Where("id = ?", id).
		Update("is_deleted", true).Error
}
