package services

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/novinresanehco/lifeos-backend/internal/pkg/logger"
	"github.com/novinresanehco/lifeos-backend/internal/repos"
	"github.com/novinresanehco/lifeos-backend/internal/types"
)

func newRegistry(gdb *gorm.DB, client *fakeOllama) ModelRegistry {
	log := logger.NewNop()
	return NewModelRegistry(gdb, log, client, repos.NewAIModelRepo(gdb, log))
}

func loadModelsByName(t *testing.T, gdb *gorm.DB) map[string]*types.AIModel {
	t.Helper()
	models, err := repos.NewAIModelRepo(gdb, logger.NewNop()).List(context.Background(), nil)
	if err != nil {
		t.Fatalf("list models: %v", err)
	}
	byName := make(map[string]*types.AIModel, len(models))
	for _, model := range models {
		byName[model.Name] = model
	}
	return byName
}

func TestDiscoverInsertsAndDeactivates(t *testing.T) {
	gdb := newTestDB(t)
	seedModel(t, gdb, "kept", true)
	seedModel(t, gdb, "vanished", true)

	registry := newRegistry(gdb, &fakeOllama{models: []string{"kept", "brand-new"}})
	discovered := registry.Discover(context.Background())

	if len(discovered) != 2 {
		t.Fatalf("expected 2 discovered models, got %d", len(discovered))
	}
	for _, model := range discovered {
		if !model.Online {
			t.Fatalf("expected %s online after successful discovery", model.Name)
		}
	}

	byName := loadModelsByName(t, gdb)
	if created, ok := byName["brand-new"]; !ok || !created.IsActive {
		t.Fatalf("expected brand-new registered active, got %+v", created)
	}
	if !byName["kept"].IsActive {
		t.Fatalf("expected kept to stay active")
	}
	if byName["vanished"].IsActive {
		t.Fatalf("expected vanished to be deactivated")
	}
}

func TestDiscoverNeverReactivates(t *testing.T) {
	gdb := newTestDB(t)
	seedModel(t, gdb, "disabled-by-operator", false)

	registry := newRegistry(gdb, &fakeOllama{models: []string{"disabled-by-operator"}})
	registry.Discover(context.Background())

	byName := loadModelsByName(t, gdb)
	if byName["disabled-by-operator"].IsActive {
		t.Fatalf("discovery must not reactivate an operator-disabled model")
	}
}

func TestDiscoverFailureKeepsStorageAndServesStaleList(t *testing.T) {
	gdb := newTestDB(t)
	seedModel(t, gdb, "llama3", true)

	client := &fakeOllama{models: []string{"llama3"}}
	registry := newRegistry(gdb, client)
	registry.Discover(context.Background())

	client.listErr = errors.New("connection refused")
	stale := registry.Discover(context.Background())

	if len(stale) != 1 || stale[0].Name != "llama3" {
		t.Fatalf("expected stale list with llama3, got %+v", stale)
	}
	if stale[0].Online {
		t.Fatalf("expected stale entry marked offline")
	}

	byName := loadModelsByName(t, gdb)
	if !byName["llama3"].IsActive {
		t.Fatalf("discovery failure must not touch persisted activation")
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	gdb := newTestDB(t)
	registry := newRegistry(gdb, &fakeOllama{models: []string{"llama3"}})
	registry.Discover(context.Background())

	snapshot := registry.Snapshot()
	if len(snapshot) != 1 {
		t.Fatalf("expected 1 model in snapshot, got %d", len(snapshot))
	}
	snapshot[0].Online = false
	if fresh := registry.Snapshot(); !fresh[0].Online {
		t.Fatalf("mutating a snapshot must not affect the registry")
	}
}
