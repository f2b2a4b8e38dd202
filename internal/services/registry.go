package services

import (
	"context"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/novinresanehco/lifeos-backend/internal/clients/ollama"
	"github.com/novinresanehco/lifeos-backend/internal/pkg/logger"
	"github.com/novinresanehco/lifeos-backend/internal/repos"
	"github.com/novinresanehco/lifeos-backend/internal/types"
)

const discoveryInterval = 5 * time.Minute

// DiscoveredModel is one entry of the registry's in-memory view of the
// inference server. Online reflects the outcome of the latest discovery,
// not anything persisted.
type DiscoveredModel struct {
	Name   string `json:"name"`
	Online bool   `json:"online"`
}

type ModelRegistry interface {
	// Discover refreshes the in-memory model list from the inference server
	// and reconciles the persisted catalog. On failure the previous list is
	// returned with every entry marked offline; storage is left untouched.
	Discover(ctx context.Context) []DiscoveredModel
	// Snapshot returns the current in-memory list without touching the server.
	Snapshot() []DiscoveredModel
	// Run discovers once immediately, then every five minutes until ctx is
	// cancelled.
	Run(ctx context.Context)
}

type modelRegistry struct {
	db     *gorm.DB
	log    *logger.Logger
	client ollama.Client
	repo   repos.AIModelRepo

	mu     sync.RWMutex
	models []DiscoveredModel
}

func NewModelRegistry(db *gorm.DB, log *logger.Logger, client ollama.Client, repo repos.AIModelRepo) ModelRegistry {
	return &modelRegistry{
		db:     db,
		log:    log.With("service", "ModelRegistry"),
		client: client,
		repo:   repo,
	}
}

func (s *modelRegistry) Discover(ctx context.Context) []DiscoveredModel {
	names, err := s.client.ListModels(ctx)
	if err != nil {
		s.log.Warn("Model discovery failed, serving stale list", "base_url", s.client.BaseURL(), "error", err)
		s.mu.Lock()
		for i := range s.models {
			s.models[i].Online = false
		}
		stale := snapshotLocked(s.models)
		s.mu.Unlock()
		return stale
	}

	discovered := make([]DiscoveredModel, 0, len(names))
	for _, name := range names {
		discovered = append(discovered, DiscoveredModel{Name: name, Online: true})
	}

	s.mu.Lock()
	s.models = discovered
	fresh := snapshotLocked(s.models)
	s.mu.Unlock()

	if err := s.sync(ctx, names); err != nil {
		s.log.Error("Model catalog sync failed", "error", err)
	}
	return fresh
}

func (s *modelRegistry) Snapshot() []DiscoveredModel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshotLocked(s.models)
}

// sync reconciles the persisted catalog with the discovered names: unknown
// local models are inserted active, vanished ones are deactivated. A model an
// operator deactivated stays inactive even when it reappears.
func (s *modelRegistry) sync(ctx context.Context, discovered []string) error {
	persisted, err := s.repo.ListByType(ctx, nil, types.ModelTypeOllamaLocal)
	if err != nil {
		return err
	}

	known := make(map[string]*types.AIModel, len(persisted))
	for _, model := range persisted {
		known[model.Name] = model
	}
	seen := make(map[string]bool, len(discovered))
	for _, name := range discovered {
		seen[name] = true
		if _, ok := known[name]; ok {
			continue
		}
		created, err := s.repo.Create(ctx, nil, &types.AIModel{
			Name:      name,
			ModelType: types.ModelTypeOllamaLocal,
			Endpoint:  s.client.BaseURL(),
			IsActive:  true,
		})
		if err != nil {
			return err
		}
		s.log.Info("Registered new local model", "name", created.Name, "id", created.ID)
	}

	for _, model := range persisted {
		if seen[model.Name] || !model.IsActive {
			continue
		}
		if err := s.repo.SetActive(ctx, nil, model.ID, false); err != nil {
			return err
		}
		s.log.Info("Deactivated vanished local model", "name", model.Name, "id", model.ID)
	}
	return nil
}

func (s *modelRegistry) Run(ctx context.Context) {
	s.Discover(ctx)
	ticker := time.NewTicker(discoveryInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Discover(ctx)
		}
	}
}

func snapshotLocked(models []DiscoveredModel) []DiscoveredModel {
	out := make([]DiscoveredModel, len(models))
	copy(out, models)
	return out
}
