package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/novinresanehco/lifeos-backend/internal/clients/redis"
	"github.com/novinresanehco/lifeos-backend/internal/pkg/logger"
	"github.com/novinresanehco/lifeos-backend/internal/platform/apierr"
	"github.com/novinresanehco/lifeos-backend/internal/repos"
	"github.com/novinresanehco/lifeos-backend/internal/requestdata"
	"github.com/novinresanehco/lifeos-backend/internal/types"
)

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	SessionID    uuid.UUID `json:"session_id"`
}

type AuthService interface {
	Register(ctx context.Context, creds Credentials, email, locale string) (*types.User, error)
	Login(ctx context.Context, creds Credentials) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context) error
	// SetContextFromToken validates a JWT and attaches request data to ctx.
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	// ResolveSession maps a session id to its owning user; uuid.Nil when unknown.
	ResolveSession(ctx context.Context, sessionID uuid.UUID) (uuid.UUID, error)
}

type authService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	userTokenRepo repos.UserTokenRepo
	sessions      redis.SessionStore
	jwtSecretKey  string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	userTokenRepo repos.UserTokenRepo,
	sessions redis.SessionStore,
	jwtSecretKey string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) AuthService {
	return &authService{
		db:            db,
		log:           log.With("service", "AuthService"),
		userRepo:      userRepo,
		userTokenRepo: userTokenRepo,
		sessions:      sessions,
		jwtSecretKey:  jwtSecretKey,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

func (as *authService) Register(ctx context.Context, creds Credentials, email, locale string) (*types.User, error) {
	username := strings.TrimSpace(creds.Username)
	if username == "" {
		return nil, apierr.Validation(errors.New("username is required"))
	}
	if creds.Password == "" {
		return nil, apierr.Validation(errors.New("password is required"))
	}

	exists, err := as.userRepo.UsernameExists(ctx, nil, username)
	if err != nil {
		return nil, apierr.Persistence(err)
	}
	if exists {
		return nil, apierr.Validation(errors.New("username is already in use"))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &types.User{
		ID:       uuid.New(),
		Username: username,
		Password: string(hash),
		Email:    strings.TrimSpace(email),
	}
	if locale != "" {
		user.Locale = locale
	}
	if _, err := as.userRepo.Create(ctx, nil, user); err != nil {
		return nil, apierr.Persistence(err)
	}
	as.log.Info("User registered", "user_id", user.ID, "username", username)
	return user, nil
}

func (as *authService) Login(ctx context.Context, creds Credentials) (*TokenPair, error) {
	username := strings.TrimSpace(creds.Username)
	if username == "" || creds.Password == "" {
		return nil, apierr.Validation(errors.New("username and password are required"))
	}

	user, err := as.userRepo.GetByUsername(ctx, nil, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.Unauthorized(errors.New("invalid credentials"))
		}
		return nil, apierr.Persistence(err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(creds.Password)); err != nil {
		return nil, apierr.Unauthorized(errors.New("invalid credentials"))
	}

	return as.issueTokens(ctx, user)
}

func (as *authService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if refreshToken == "" {
		return nil, apierr.Validation(errors.New("refresh token is required"))
	}
	token, err := as.userTokenRepo.GetByRefreshToken(ctx, nil, refreshToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.Unauthorized(errors.New("unknown refresh token"))
		}
		return nil, apierr.Persistence(err)
	}
	if token.ExpiresAt.Before(time.Now()) {
		_ = as.userTokenRepo.DeleteByID(ctx, nil, token.ID)
		_ = as.sessions.Delete(ctx, token.ID)
		return nil, apierr.Unauthorized(errors.New("refresh token expired"))
	}
	user, err := as.userRepo.GetByID(ctx, nil, token.UserID)
	if err != nil {
		return nil, apierr.Persistence(err)
	}

	if err := as.userTokenRepo.DeleteByID(ctx, nil, token.ID); err != nil {
		return nil, apierr.Persistence(err)
	}
	_ = as.sessions.Delete(ctx, token.ID)

	return as.issueTokens(ctx, user)
}

func (as *authService) Logout(ctx context.Context) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.SessionID == uuid.Nil {
		return apierr.Unauthorized(errors.New("not authenticated"))
	}
	if err := as.userTokenRepo.DeleteByID(ctx, nil, rd.SessionID); err != nil {
		return apierr.Persistence(err)
	}
	if err := as.sessions.Delete(ctx, rd.SessionID); err != nil {
		as.log.Warn("Failed to drop session from store", "session_id", rd.SessionID, "error", err)
	}
	return nil
}

// issueTokens creates the session row, caches it, and signs the access JWT.
// The user_token row id doubles as the session id carried by WebSocket
// handshakes.
func (as *authService) issueTokens(ctx context.Context, user *types.User) (*TokenPair, error) {
	sessionID := uuid.New()
	now := time.Now()

	claims := jwt.MapClaims{
		"sub": user.ID.String(),
		"sid": sessionID.String(),
		"iat": now.Unix(),
		"exp": now.Add(as.accessTTL).Unix(),
	}
	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(as.jwtSecretKey))
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refreshToken := uuid.New().String()

	userToken := &types.UserToken{
		ID:           sessionID,
		UserID:       user.ID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    now.Add(as.refreshTTL),
	}
	if _, err := as.userTokenRepo.Create(ctx, nil, userToken); err != nil {
		return nil, apierr.Persistence(err)
	}
	if err := as.sessions.Put(ctx, sessionID, user.ID, as.refreshTTL); err != nil {
		as.log.Warn("Failed to cache session", "session_id", sessionID, "error", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		SessionID:    sessionID,
	}, nil
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	parsed, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(as.jwtSecretKey), nil
	})
	if err != nil || !parsed.Valid {
		return ctx, apierr.Unauthorized(errors.New("invalid token"))
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return ctx, apierr.Unauthorized(errors.New("invalid token claims"))
	}
	sub, _ := claims["sub"].(string)
	sid, _ := claims["sid"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return ctx, apierr.Unauthorized(errors.New("invalid subject claim"))
	}
	sessionID, err := uuid.Parse(sid)
	if err != nil {
		return ctx, apierr.Unauthorized(errors.New("invalid session claim"))
	}

	rd := &requestdata.RequestData{
		TokenString: tokenString,
		UserID:      userID,
		SessionID:   sessionID,
	}
	return requestdata.WithRequestData(ctx, rd), nil
}

func (as *authService) ResolveSession(ctx context.Context, sessionID uuid.UUID) (uuid.UUID, error) {
	userID, err := as.sessions.Resolve(ctx, sessionID)
	if err != nil {
		return uuid.Nil, err
	}
	if userID != uuid.Nil {
		return userID, nil
	}
	// Session cache miss: fall back to the persisted token row so a cache
	// restart does not drop live connections.
	token, err := as.userTokenRepo.GetByID(ctx, nil, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, nil
		}
		return uuid.Nil, err
	}
	if token.ExpiresAt.Before(time.Now()) {
		return uuid.Nil, nil
	}
	return token.UserID, nil
}
