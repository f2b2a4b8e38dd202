package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/novinresanehco/lifeos-backend/internal/clients/redis"
	"github.com/novinresanehco/lifeos-backend/internal/pkg/logger"
	"github.com/novinresanehco/lifeos-backend/internal/platform/apierr"
	"github.com/novinresanehco/lifeos-backend/internal/repos"
	"github.com/novinresanehco/lifeos-backend/internal/requestdata"
)

func newAuthService(gdb *gorm.DB) AuthService {
	log := logger.NewNop()
	return NewAuthService(
		gdb,
		log,
		repos.NewUserRepo(gdb, log),
		repos.NewUserTokenRepo(gdb, log),
		redis.NewMemorySessionStore(),
		"test-secret",
		time.Hour,
		24*time.Hour,
	)
}

func TestRegisterAndLogin(t *testing.T) {
	gdb := newTestDB(t)
	svc := newAuthService(gdb)
	ctx := context.Background()

	user, err := svc.Register(ctx, Credentials{Username: "sara", Password: "hunter22"}, "sara@example.com", "")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Password == "hunter22" {
		t.Fatalf("password must be stored hashed")
	}

	if _, err := svc.Register(ctx, Credentials{Username: "sara", Password: "other"}, "", ""); !apierr.Is(err, apierr.CodeValidation) {
		t.Fatalf("expected validation error for duplicate username, got %v", err)
	}

	pair, err := svc.Login(ctx, Credentials{Username: "sara", Password: "hunter22"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" || pair.SessionID == uuid.Nil {
		t.Fatalf("incomplete token pair: %+v", pair)
	}

	if _, err := svc.Login(ctx, Credentials{Username: "sara", Password: "wrong"}); !apierr.Is(err, apierr.CodeUnauthorized) {
		t.Fatalf("expected unauthorized for wrong password, got %v", err)
	}
}

func TestSetContextFromToken(t *testing.T) {
	gdb := newTestDB(t)
	svc := newAuthService(gdb)
	ctx := context.Background()

	user, err := svc.Register(ctx, Credentials{Username: "omid", Password: "s3cret!!"}, "", "fa-IR")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	pair, err := svc.Login(ctx, Credentials{Username: "omid", Password: "s3cret!!"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	authed, err := svc.SetContextFromToken(ctx, pair.AccessToken)
	if err != nil {
		t.Fatalf("SetContextFromToken: %v", err)
	}
	rd := requestdata.GetRequestData(authed)
	if rd == nil || rd.UserID != user.ID || rd.SessionID != pair.SessionID {
		t.Fatalf("unexpected request data: %+v", rd)
	}

	if _, err := svc.SetContextFromToken(ctx, "not-a-jwt"); !apierr.Is(err, apierr.CodeUnauthorized) {
		t.Fatalf("expected unauthorized for garbage token, got %v", err)
	}
}

func TestRefreshRotatesSession(t *testing.T) {
	gdb := newTestDB(t)
	svc := newAuthService(gdb)
	ctx := context.Background()

	if _, err := svc.Register(ctx, Credentials{Username: "nika", Password: "pa55word"}, "", ""); err != nil {
		t.Fatalf("Register: %v", err)
	}
	first, err := svc.Login(ctx, Credentials{Username: "nika", Password: "pa55word"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	second, err := svc.Refresh(ctx, first.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if second.SessionID == first.SessionID {
		t.Fatalf("refresh must rotate the session id")
	}

	if _, err := svc.Refresh(ctx, first.RefreshToken); !apierr.Is(err, apierr.CodeUnauthorized) {
		t.Fatalf("expected old refresh token invalidated, got %v", err)
	}
}

func TestResolveSessionFallsBackToStorage(t *testing.T) {
	gdb := newTestDB(t)
	log := logger.NewNop()
	sessions := redis.NewMemorySessionStore()
	svc := NewAuthService(gdb, log, repos.NewUserRepo(gdb, log), repos.NewUserTokenRepo(gdb, log), sessions, "test-secret", time.Hour, 24*time.Hour)
	ctx := context.Background()

	user, err := svc.Register(ctx, Credentials{Username: "reza", Password: "longpass"}, "", "")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	pair, err := svc.Login(ctx, Credentials{Username: "reza", Password: "longpass"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	// Drop the cached entry; resolution must still succeed from the token row.
	if err := sessions.Delete(ctx, pair.SessionID); err != nil {
		t.Fatalf("drop session: %v", err)
	}
	owner, err := svc.ResolveSession(ctx, pair.SessionID)
	if err != nil {
		t.Fatalf("ResolveSession: %v", err)
	}
	if owner != user.ID {
		t.Fatalf("expected session resolved to %s, got %s", user.ID, owner)
	}

	unknown, err := svc.ResolveSession(ctx, uuid.New())
	if err != nil {
		t.Fatalf("ResolveSession(unknown): %v", err)
	}
	if unknown != uuid.Nil {
		t.Fatalf("unknown session must resolve to uuid.Nil, got %s", unknown)
	}
}

func TestLogoutDropsSession(t *testing.T) {
	gdb := newTestDB(t)
	svc := newAuthService(gdb)
	ctx := context.Background()

	if _, err := svc.Register(ctx, Credentials{Username: "dana", Password: "qwerty99"}, "", ""); err != nil {
		t.Fatalf("Register: %v", err)
	}
	pair, err := svc.Login(ctx, Credentials{Username: "dana", Password: "qwerty99"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	authed, err := svc.SetContextFromToken(ctx, pair.AccessToken)
	if err != nil {
		t.Fatalf("SetContextFromToken: %v", err)
	}
	if err := svc.Logout(authed); err != nil {
		t.Fatalf("Logout: %v", err)
	}

	owner, err := svc.ResolveSession(ctx, pair.SessionID)
	if err != nil {
		t.Fatalf("ResolveSession after logout: %v", err)
	}
	if owner != uuid.Nil {
		t.Fatalf("expected session gone after logout, got %s", owner)
	}

	if err := svc.Logout(ctx); !apierr.Is(err, apierr.CodeUnauthorized) {
		t.Fatalf("logout without request data must be unauthorized, got %v", err)
	}
}
