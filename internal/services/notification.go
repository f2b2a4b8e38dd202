package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/novinresanehco/lifeos-backend/internal/clients/telegram"
	"github.com/novinresanehco/lifeos-backend/internal/pkg/logger"
	"github.com/novinresanehco/lifeos-backend/internal/platform/apierr"
	"github.com/novinresanehco/lifeos-backend/internal/realtime"
	"github.com/novinresanehco/lifeos-backend/internal/repos"
	"github.com/novinresanehco/lifeos-backend/internal/types"
)

// RealtimeSender is the slice of the hub the notification service needs.
type RealtimeSender interface {
	SendToUser(userID uuid.UUID, msg realtime.Message)
}

type NotificationService interface {
	// Send persists the notification row first, then fans out to the
	// requested channels. Persistence and delivery are independent: a failed
	// push is not retried and never rolls the row back.
	Send(ctx context.Context, userID uuid.UUID, payload types.NotificationPayload) bool
	List(ctx context.Context, userID uuid.UUID) ([]*types.Notification, error)
	Unread(ctx context.Context, userID uuid.UUID) ([]*types.Notification, error)
	MarkAsRead(ctx context.Context, callerID, notificationID uuid.UUID) error
}

type notificationService struct {
	db           *gorm.DB
	log          *logger.Logger
	repo         repos.NotificationRepo
	settingsRepo repos.UserSettingsRepo
	hub          RealtimeSender
	telegram     telegram.Client
}

func NewNotificationService(
	db *gorm.DB,
	log *logger.Logger,
	repo repos.NotificationRepo,
	settingsRepo repos.UserSettingsRepo,
	hub RealtimeSender,
	telegramClient telegram.Client,
) NotificationService {
	return &notificationService{
		db:           db,
		log:          log.With("service", "NotificationService"),
		repo:         repo,
		settingsRepo: settingsRepo,
		hub:          hub,
		telegram:     telegramClient,
	}
}

func (s *notificationService) Send(ctx context.Context, userID uuid.UUID, payload types.NotificationPayload) bool {
	interactionType := payload.InteractionType
	if interactionType == "" {
		interactionType = types.InteractionInfo
	}

	notification := &types.Notification{
		UserID:          userID,
		Title:           payload.Title,
		Content:         payload.Content,
		ItemID:          payload.ItemID,
		InteractionType: interactionType,
		InteractionData: payload.InteractionData,
		Channels:        payload.Channels,
		IsRead:          false,
	}
	persisted, err := s.repo.Create(ctx, nil, notification)
	if err != nil {
		s.log.Error("Failed to persist notification", "user_id", userID, "error", err)
		return false
	}

	for _, channel := range payload.Channels {
		switch channel {
		case types.ChannelInApp:
			s.hub.SendToUser(userID, realtime.Message{
				Type:    realtime.EventNotification,
				Payload: persisted,
			})
		case types.ChannelBrowser:
			// The client decides whether to surface an OS-level push.
			s.hub.SendToUser(userID, realtime.Message{
				Type: realtime.EventBrowserNotification,
				Payload: map[string]any{
					"id":     persisted.ID,
					"title":  persisted.Title,
					"body":   persisted.Content,
					"itemId": persisted.ItemID,
				},
			})
		case types.ChannelTelegram:
			s.sendTelegram(ctx, userID, persisted)
		}
	}
	return true
}

func (s *notificationService) sendTelegram(ctx context.Context, userID uuid.UUID, notification *types.Notification) {
	settings, err := s.settingsRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Warn("Failed to load settings for telegram delivery", "user_id", userID, "error", err)
		}
		return
	}
	if settings.TelegramChatID == "" {
		return
	}
	text := notification.Title + "\n" + notification.Content
	if err := s.telegram.SendMessage(ctx, settings.TelegramChatID, text); err != nil {
		s.log.Warn("Telegram delivery failed", "user_id", userID, "error", err)
	}
}

func (s *notificationService) List(ctx context.Context, userID uuid.UUID) ([]*types.Notification, error) {
	notifications, err := s.repo.ListByUser(ctx, nil, userID)
	if err != nil {
		return nil, apierr.Persistence(err)
	}
	return notifications, nil
}

func (s *notificationService) Unread(ctx context.Context, userID uuid.UUID) ([]*types.Notification, error) {
	notifications, err := s.repo.ListUnreadByUser(ctx, nil, userID)
	if err != nil {
		return nil, apierr.Persistence(err)
	}
	return notifications, nil
}

func (s *notificationService) MarkAsRead(ctx context.Context, callerID, notificationID uuid.UUID) error {
	notification, err := s.repo.GetByID(ctx, nil, notificationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierr.NotFound("notification")
		}
		return apierr.Persistence(err)
	}
	if notification.UserID != callerID {
		return apierr.Forbidden()
	}
	if err := s.repo.MarkRead(ctx, nil, notificationID); err != nil {
		return apierr.Persistence(err)
	}
	return nil
}
