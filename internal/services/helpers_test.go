package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/novinresanehco/lifeos-backend/internal/db"
	"github.com/novinresanehco/lifeos-backend/internal/pkg/logger"
	"github.com/novinresanehco/lifeos-backend/internal/repos"
	"github.com/novinresanehco/lifeos-backend/internal/types"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

func seedUser(t *testing.T, gdb *gorm.DB) *types.User {
	t.Helper()
	userRepo := repos.NewUserRepo(gdb, logger.NewNop())
	user, err := userRepo.Create(context.Background(), nil, &types.User{
		Username: "user-" + uuid.NewString()[:8],
		Password: "hashed",
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func seedItem(t *testing.T, gdb *gorm.DB, userID uuid.UUID, title string, importance types.Importance) *types.Item {
	t.Helper()
	itemRepo := repos.NewItemRepo(gdb, logger.NewNop())
	item, err := itemRepo.Create(context.Background(), nil, &types.Item{
		Title:      title,
		Type:       types.ItemTypeTask,
		Status:     types.ItemStatusTodo,
		Importance: importance,
		UserID:     userID,
	})
	if err != nil {
		t.Fatalf("seed item: %v", err)
	}
	return item
}

func seedModel(t *testing.T, gdb *gorm.DB, name string, active bool) *types.AIModel {
	t.Helper()
	modelRepo := repos.NewAIModelRepo(gdb, logger.NewNop())
	model, err := modelRepo.Create(context.Background(), nil, &types.AIModel{
		Name:      name,
		ModelType: types.ModelTypeOllamaLocal,
		IsActive:  active,
	})
	if err != nil {
		t.Fatalf("seed model: %v", err)
	}
	return model
}

// fakeOllama satisfies ollama.Client without a server.
type fakeOllama struct {
	models    []string
	listErr   error
	responses map[string]string
	genErr    map[string]error
	generated []string
}

func (f *fakeOllama) ListModels(context.Context) ([]string, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.models, nil
}

func (f *fakeOllama) Generate(_ context.Context, model, _ string, _ map[string]any) (string, error) {
	f.generated = append(f.generated, model)
	if err, ok := f.genErr[model]; ok {
		return "", err
	}
	return f.responses[model], nil
}

func (f *fakeOllama) BaseURL() string { return "http://fake:11434" }

func newItemService(gdb *gorm.DB) ItemService {
	log := logger.NewNop()
	return NewItemService(
		gdb,
		log,
		repos.NewItemRepo(gdb, log),
		repos.NewItemRelationRepo(gdb, log),
		repos.NewCommentRepo(gdb, log),
		repos.NewAIResultRepo(gdb, log),
		repos.NewAILogRepo(gdb, log),
	)
}

func newProcessor(gdb *gorm.DB, client *fakeOllama) ProcessorService {
	log := logger.NewNop()
	return NewProcessorService(
		gdb,
		log,
		client,
		repos.NewItemRepo(gdb, log),
		repos.NewAIModelRepo(gdb, log),
		repos.NewAILogRepo(gdb, log),
		repos.NewAIResultRepo(gdb, log),
		DefaultStrategyTuning(),
	)
}
