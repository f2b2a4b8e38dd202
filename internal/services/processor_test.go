package services

import (
	"context"
	"errors"
	"testing"

	"github.com/novinresanehco/lifeos-backend/internal/platform/apierr"
	"github.com/novinresanehco/lifeos-backend/internal/types"
)

func TestProcessItemNoActiveModels(t *testing.T) {
	gdb := newTestDB(t)
	user := seedUser(t, gdb)
	item := seedItem(t, gdb, user.ID, "plan the week", types.ImportanceMedium)
	seedModel(t, gdb, "llama3", false)

	processor := newProcessor(gdb, &fakeOllama{})
	_, err := processor.ProcessItem(context.Background(), item.ID, ProcessConfig{})
	if err == nil {
		t.Fatalf("expected error for empty active model set")
	}
	if !apierr.Is(err, apierr.CodeNoModels) {
		t.Fatalf("expected %s error, got %v", apierr.CodeNoModels, err)
	}

	var insightCount, logCount int64
	gdb.Model(&types.AIAnalysisResult{}).Count(&insightCount)
	gdb.Model(&types.AIProcessingLog{}).Count(&logCount)
	if insightCount != 0 || logCount != 0 {
		t.Fatalf("expected zero rows, got %d insights and %d logs", insightCount, logCount)
	}
}

func TestProcessItemMixedOutcomes(t *testing.T) {
	gdb := newTestDB(t)
	user := seedUser(t, gdb)
	item := seedItem(t, gdb, user.ID, "migrate the database", types.ImportanceCritical)
	seedModel(t, gdb, "good-model", true)
	seedModel(t, gdb, "noisy-model", true)

	client := &fakeOllama{
		responses: map[string]string{
			"good-model":  `{"summary":"straightforward migration","risks":[{"level":"HIGH","description":"data loss"}],"actionItems":[{"title":"backup","description":"snapshot first"},{"title":"dry run","description":"staging pass"}]}`,
			"noisy-model": "sorry, I cannot answer in JSON",
		},
	}
	processor := newProcessor(gdb, client)

	result, err := processor.ProcessItem(context.Background(), item.ID, ProcessConfig{Strategy: types.StrategyAllEncompassing})
	if err != nil {
		t.Fatalf("ProcessItem: %v", err)
	}

	if len(result.Insights) != 1 {
		t.Fatalf("expected 1 insight, got %d", len(result.Insights))
	}
	if len(result.Logs) != 4 {
		t.Fatalf("expected 4 logs, got %d", len(result.Logs))
	}
	counts := map[types.LogLevel]int{}
	for _, entry := range result.Logs {
		counts[entry.LogLevel]++
	}
	if counts[types.LogLevelInfo] != 2 || counts[types.LogLevelImportant] != 1 || counts[types.LogLevelCritical] != 1 {
		t.Fatalf("unexpected log level distribution: %v", counts)
	}

	content, err := types.ParseAnalysisContent(string(result.Insights[0].Content))
	if err != nil {
		t.Fatalf("parse persisted content: %v", err)
	}
	if content.Kind != types.AnalysisKindStructured {
		t.Fatalf("expected structured content, got %s", content.Kind)
	}
	if len(content.Risks) != 1 || len(content.ActionItems) != 2 {
		t.Fatalf("unexpected counts: %d risks, %d actions", len(content.Risks), len(content.ActionItems))
	}
}

func TestProcessItemGenerationFailureContinuesBatch(t *testing.T) {
	gdb := newTestDB(t)
	user := seedUser(t, gdb)
	item := seedItem(t, gdb, user.ID, "write report", types.ImportanceHigh)
	seedModel(t, gdb, "down-model", true)
	seedModel(t, gdb, "up-model", true)

	client := &fakeOllama{
		responses: map[string]string{
			"up-model": `{"summary":"short report, low effort"}`,
		},
		genErr: map[string]error{
			"down-model": errors.New("connection refused"),
		},
	}
	processor := newProcessor(gdb, client)

	result, err := processor.ProcessItem(context.Background(), item.ID, ProcessConfig{})
	if err != nil {
		t.Fatalf("ProcessItem: %v", err)
	}
	if len(client.generated) != 2 {
		t.Fatalf("expected both models attempted, got %v", client.generated)
	}
	if len(result.Insights) != 1 {
		t.Fatalf("expected 1 insight, got %d", len(result.Insights))
	}
}

func TestProcessItemRequestedModelsNarrowSelection(t *testing.T) {
	gdb := newTestDB(t)
	user := seedUser(t, gdb)
	item := seedItem(t, gdb, user.ID, "review budget", types.ImportanceLow)
	seedModel(t, gdb, "wanted", true)
	seedModel(t, gdb, "ignored", true)

	client := &fakeOllama{
		responses: map[string]string{"wanted": `{"summary":"under control"}`},
	}
	processor := newProcessor(gdb, client)

	if _, err := processor.ProcessItem(context.Background(), item.ID, ProcessConfig{RequestedModels: []string{"wanted"}}); err != nil {
		t.Fatalf("ProcessItem: %v", err)
	}
	if len(client.generated) != 1 || client.generated[0] != "wanted" {
		t.Fatalf("expected only the requested model, got %v", client.generated)
	}

	_, err := processor.ProcessItem(context.Background(), item.ID, ProcessConfig{RequestedModels: []string{"absent"}})
	if !apierr.Is(err, apierr.CodeNoModels) {
		t.Fatalf("expected %s for unknown requested model, got %v", apierr.CodeNoModels, err)
	}
}

func TestProcessItemUnknownItem(t *testing.T) {
	gdb := newTestDB(t)
	seedModel(t, gdb, "llama3", true)

	processor := newProcessor(gdb, &fakeOllama{})
	_, err := processor.ProcessItem(context.Background(), seedUser(t, gdb).ID, ProcessConfig{})
	if !apierr.Is(err, apierr.CodeNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
}
