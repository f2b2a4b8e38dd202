package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/novinresanehco/lifeos-backend/internal/pkg/logger"
	"github.com/novinresanehco/lifeos-backend/internal/platform/apierr"
	"github.com/novinresanehco/lifeos-backend/internal/repos"
	"github.com/novinresanehco/lifeos-backend/internal/types"
)

type UserService interface {
	Me(ctx context.Context, userID uuid.UUID) (*types.User, error)
	UpdateLocale(ctx context.Context, userID uuid.UUID, locale string) (*types.User, error)
	Settings(ctx context.Context, userID uuid.UUID) (*types.UserSettings, error)
	UpdateSettings(ctx context.Context, userID uuid.UUID, patch map[string]any) (*types.UserSettings, error)
}

type userService struct {
	db           *gorm.DB
	log          *logger.Logger
	userRepo     repos.UserRepo
	settingsRepo repos.UserSettingsRepo
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, settingsRepo repos.UserSettingsRepo) UserService {
	return &userService{
		db:           db,
		log:          log.With("service", "UserService"),
		userRepo:     userRepo,
		settingsRepo: settingsRepo,
	}
}

func (s *userService) Me(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	user, err := s.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("user")
		}
		return nil, apierr.Persistence(err)
	}
	return user, nil
}

func (s *userService) UpdateLocale(ctx context.Context, userID uuid.UUID, locale string) (*types.User, error) {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return nil, apierr.Validation(errors.New("locale is required"))
	}
	if err := s.userRepo.UpdateLocale(ctx, nil, userID, locale); err != nil {
		return nil, apierr.Persistence(err)
	}
	return s.Me(ctx, userID)
}

func (s *userService) Settings(ctx context.Context, userID uuid.UUID) (*types.UserSettings, error) {
	settings, err := s.settingsRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// A user without a settings row gets defaults, not a 404.
			return &types.UserSettings{UserID: userID}, nil
		}
		return nil, apierr.Persistence(err)
	}
	return settings, nil
}

func (s *userService) UpdateSettings(ctx context.Context, userID uuid.UUID, patch map[string]any) (*types.UserSettings, error) {
	if len(patch) == 0 {
		return nil, apierr.Validation(errors.New("no settings to update"))
	}
	settings, err := s.settingsRepo.Upsert(ctx, nil, userID, patch)
	if err != nil {
		return nil, apierr.Persistence(err)
	}
	return settings, nil
}
