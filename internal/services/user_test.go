package services

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/novinresanehco/lifeos-backend/internal/pkg/logger"
	"github.com/novinresanehco/lifeos-backend/internal/platform/apierr"
	"github.com/novinresanehco/lifeos-backend/internal/repos"
)

func newUserService(gdb *gorm.DB) UserService {
	log := logger.NewNop()
	return NewUserService(gdb, log, repos.NewUserRepo(gdb, log), repos.NewUserSettingsRepo(gdb, log))
}

func TestUpdateLocale(t *testing.T) {
	gdb := newTestDB(t)
	user := seedUser(t, gdb)
	svc := newUserService(gdb)

	updated, err := svc.UpdateLocale(context.Background(), user.ID, "en-US")
	if err != nil {
		t.Fatalf("UpdateLocale: %v", err)
	}
	if updated.Locale != "en-US" {
		t.Fatalf("expected locale en-US, got %s", updated.Locale)
	}

	if _, err := svc.UpdateLocale(context.Background(), user.ID, "  "); !apierr.Is(err, apierr.CodeValidation) {
		t.Fatalf("expected validation error for blank locale, got %v", err)
	}
}

func TestSettingsDefaultsAndUpsert(t *testing.T) {
	gdb := newTestDB(t)
	user := seedUser(t, gdb)
	svc := newUserService(gdb)
	ctx := context.Background()

	settings, err := svc.Settings(ctx, user.ID)
	if err != nil {
		t.Fatalf("Settings without a row: %v", err)
	}
	if settings.UserID != user.ID || settings.TelegramChatID != "" {
		t.Fatalf("expected empty defaults, got %+v", settings)
	}

	if _, err := svc.UpdateSettings(ctx, user.ID, nil); !apierr.Is(err, apierr.CodeValidation) {
		t.Fatalf("expected validation error for empty patch, got %v", err)
	}

	updated, err := svc.UpdateSettings(ctx, user.ID, map[string]any{"telegram_chat_id": "987"})
	if err != nil {
		t.Fatalf("UpdateSettings: %v", err)
	}
	if updated.TelegramChatID != "987" {
		t.Fatalf("expected chat id persisted, got %q", updated.TelegramChatID)
	}

	again, err := svc.Settings(ctx, user.ID)
	if err != nil {
		t.Fatalf("Settings after upsert: %v", err)
	}
	if again.TelegramChatID != "987" {
		t.Fatalf("expected chat id readable, got %q", again.TelegramChatID)
	}
}
