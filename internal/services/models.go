package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/novinresanehco/lifeos-backend/internal/pkg/logger"
	"github.com/novinresanehco/lifeos-backend/internal/platform/apierr"
	"github.com/novinresanehco/lifeos-backend/internal/repos"
	"github.com/novinresanehco/lifeos-backend/internal/types"
)

// ModelCatalogService is the operator-facing view of the persisted catalog.
// Activation is an explicit operator action; discovery never flips a model
// back on.
type ModelCatalogService interface {
	List(ctx context.Context) ([]*types.AIModel, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) (*types.AIModel, error)
}

type modelCatalogService struct {
	db   *gorm.DB
	log  *logger.Logger
	repo repos.AIModelRepo
}

func NewModelCatalogService(db *gorm.DB, log *logger.Logger, repo repos.AIModelRepo) ModelCatalogService {
	return &modelCatalogService{db: db, log: log.With("service", "ModelCatalogService"), repo: repo}
}

func (s *modelCatalogService) List(ctx context.Context) ([]*types.AIModel, error) {
	models, err := s.repo.List(ctx, nil)
	if err != nil {
		return nil, apierr.Persistence(err)
	}
	return models, nil
}

func (s *modelCatalogService) SetActive(ctx context.Context, id uuid.UUID, active bool) (*types.AIModel, error) {
	if _, err := s.repo.GetByID(ctx, nil, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("model")
		}
		return nil, apierr.Persistence(err)
	}
	if err := s.repo.SetActive(ctx, nil, id, active); err != nil {
		return nil, apierr.Persistence(err)
	}
	model, err := s.repo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, apierr.Persistence(err)
	}
	s.log.Info("Model activation changed", "id", id, "active", active)
	return model, nil
}
