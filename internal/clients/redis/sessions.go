package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/novinresanehco/lifeos-backend/internal/pkg/envutil"
	"github.com/novinresanehco/lifeos-backend/internal/pkg/logger"
)

// SessionStore maps session ids to user ids with a TTL. Auth writes it on
// login/refresh; the WebSocket handshake validates its (userId, sessionId)
// query pair against it before a connection reaches Open.
type SessionStore interface {
	Put(ctx context.Context, sessionID, userID uuid.UUID, ttl time.Duration) error
	// Resolve returns the owning user id, or uuid.Nil when the session is
	// unknown or expired.
	Resolve(ctx context.Context, sessionID uuid.UUID) (uuid.UUID, error)
	Delete(ctx context.Context, sessionID uuid.UUID) error
	Close() error
}

type sessionStore struct {
	log *logger.Logger
	rdb *goredis.Client
}

func NewSessionStore(log *logger.Logger) (SessionStore, error) {
	addr := envutil.Str("REDIS_ADDR", "localhost:6379")

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &sessionStore{
		log: log.With("client", "RedisSessionStore"),
		rdb: rdb,
	}, nil
}

func sessionKey(sessionID uuid.UUID) string {
	return "session:" + sessionID.String()
}

func (s *sessionStore) Put(ctx context.Context, sessionID, userID uuid.UUID, ttl time.Duration) error {
	return s.rdb.Set(ctx, sessionKey(sessionID), userID.String(), ttl).Err()
}

func (s *sessionStore) Resolve(ctx context.Context, sessionID uuid.UUID) (uuid.UUID, error) {
	val, err := s.rdb.Get(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return uuid.Nil, nil
		}
		return uuid.Nil, err
	}
	userID, err := uuid.Parse(strings.TrimSpace(val))
	if err != nil {
		return uuid.Nil, nil
	}
	return userID, nil
}

func (s *sessionStore) Delete(ctx context.Context, sessionID uuid.UUID) error {
	return s.rdb.Del(ctx, sessionKey(sessionID)).Err()
}

func (s *sessionStore) Close() error {
	return s.rdb.Close()
}

// MemorySessionStore is the in-process fallback used when Redis is not
// configured, and by tests.
type MemorySessionStore struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]memoryEntry
}

type memoryEntry struct {
	userID    uuid.UUID
	expiresAt time.Time
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{entries: make(map[uuid.UUID]memoryEntry)}
}

func (s *MemorySessionStore) Put(_ context.Context, sessionID, userID uuid.UUID, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[sessionID] = memoryEntry{userID: userID, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (s *MemorySessionStore) Resolve(_ context.Context, sessionID uuid.UUID) (uuid.UUID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[sessionID]
	if !ok || time.Now().After(entry.expiresAt) {
		return uuid.Nil, nil
	}
	return entry.userID, nil
}

func (s *MemorySessionStore) Delete(_ context.Context, sessionID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, sessionID)
	return nil
}

func (s *MemorySessionStore) Close() error { return nil }
