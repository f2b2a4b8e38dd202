package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/novinresanehco/lifeos-backend/internal/clients/ollama"
	"github.com/novinresanehco/lifeos-backend/internal/pkg/logger"
	"github.com/novinresanehco/lifeos-backend/internal/platform/apierr"
	"github.com/novinresanehco/lifeos-backend/internal/repos"
	"github.com/novinresanehco/lifeos-backend/internal/types"
)

// ProcessConfig selects the models and tuning for one analysis run.
// RequestedModels, when non-empty, narrows the active set by name.
type ProcessConfig struct {
	Strategy        types.ProcessingStrategy `json:"strategy"`
	RequestedModels []string                 `json:"requested_models,omitempty"`
	Params          map[string]any           `json:"params,omitempty"`
}

type ProcessResult struct {
	Insights []*types.AIAnalysisResult `json:"insights"`
	Logs     []*types.AIProcessingLog  `json:"logs"`
}

type ProcessorService interface {
	// ProcessItem runs the configured models over one item, sequentially.
	// A failing model is logged and skipped; the batch never aborts. When no
	// model qualifies the call fails before writing anything.
	ProcessItem(ctx context.Context, itemID uuid.UUID, cfg ProcessConfig) (*ProcessResult, error)
	Insights(ctx context.Context, itemID uuid.UUID) ([]*types.AIAnalysisResult, error)
	Logs(ctx context.Context, itemID uuid.UUID, level types.LogLevel) ([]*types.AIProcessingLog, error)
	DeleteLog(ctx context.Context, id uuid.UUID) error
}

type processorService struct {
	db        *gorm.DB
	log       *logger.Logger
	client    ollama.Client
	itemRepo  repos.ItemRepo
	modelRepo repos.AIModelRepo
	logRepo   repos.AILogRepo
	result    repos.AIResultRepo
	tuning    StrategyTuning
}

func NewProcessorService(
	db *gorm.DB,
	log *logger.Logger,
	client ollama.Client,
	itemRepo repos.ItemRepo,
	modelRepo repos.AIModelRepo,
	logRepo repos.AILogRepo,
	resultRepo repos.AIResultRepo,
	tuning StrategyTuning,
) ProcessorService {
	return &processorService{
		db:        db,
		log:       log.With("service", "ProcessorService"),
		client:    client,
		itemRepo:  itemRepo,
		modelRepo: modelRepo,
		logRepo:   logRepo,
		result:    resultRepo,
		tuning:    tuning,
	}
}

func (s *processorService) ProcessItem(ctx context.Context, itemID uuid.UUID, cfg ProcessConfig) (*ProcessResult, error) {
	item, err := s.itemRepo.GetByID(ctx, nil, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("item")
		}
		return nil, apierr.Persistence(err)
	}

	models, err := s.selectModels(ctx, cfg.RequestedModels)
	if err != nil {
		return nil, err
	}

	strategy := cfg.Strategy
	if strategy == "" {
		strategy = StrategyForImportance(item.Importance)
	}
	params := s.tuning.ParamsFor(strategy, cfg.Params)
	prompt := buildAnalysisPrompt(item)

	out := &ProcessResult{}
	for _, model := range models {
		s.runModel(ctx, item, model, strategy, prompt, params, out)
	}
	return out, nil
}

// selectModels returns the active local models, narrowed by the requested
// names when given. An empty result is an error surfaced before any row is
// written.
func (s *processorService) selectModels(ctx context.Context, requested []string) ([]*types.AIModel, error) {
	active, err := s.modelRepo.ListActiveByType(ctx, nil, types.ModelTypeOllamaLocal)
	if err != nil {
		return nil, apierr.Persistence(err)
	}
	if len(requested) > 0 {
		wanted := make(map[string]bool, len(requested))
		for _, name := range requested {
			wanted[name] = true
		}
		narrowed := active[:0]
		for _, model := range active {
			if wanted[model.Name] {
				narrowed = append(narrowed, model)
			}
		}
		active = narrowed
	}
	if len(active) == 0 {
		return nil, apierr.NoModels()
	}
	return active, nil
}

func (s *processorService) runModel(
	ctx context.Context,
	item *types.Item,
	model *types.AIModel,
	strategy types.ProcessingStrategy,
	prompt string,
	params map[string]any,
	out *ProcessResult,
) {
	s.appendLog(ctx, out, &types.AIProcessingLog{
		ItemID:   item.ID,
		ModelID:  &model.ID,
		LogLevel: types.LogLevelInfo,
		Message:  fmt.Sprintf("Processing started with model %s", model.Name),
		Details:  datatypes.JSONMap{"strategy": string(strategy)},
	})

	raw, err := s.client.Generate(ctx, model.Name, prompt, params)
	if err != nil {
		s.log.Error("Model generation failed", "model", model.Name, "item_id", item.ID, "error", err)
		s.appendLog(ctx, out, &types.AIProcessingLog{
			ItemID:   item.ID,
			ModelID:  &model.ID,
			LogLevel: types.LogLevelCritical,
			Message:  fmt.Sprintf("Model %s failed: %v", model.Name, err),
		})
		return
	}

	content, err := types.ParseAnalysisContent(raw)
	if err != nil {
		s.appendLog(ctx, out, &types.AIProcessingLog{
			ItemID:   item.ID,
			ModelID:  &model.ID,
			LogLevel: types.LogLevelCritical,
			Message:  fmt.Sprintf("Model %s returned unparseable output", model.Name),
			Details:  datatypes.JSONMap{"raw_response": truncateForLog(raw)},
		})
		return
	}

	encoded, err := json.Marshal(content)
	if err != nil {
		s.appendLog(ctx, out, &types.AIProcessingLog{
			ItemID:   item.ID,
			ModelID:  &model.ID,
			LogLevel: types.LogLevelCritical,
			Message:  fmt.Sprintf("Encoding analysis from model %s failed: %v", model.Name, err),
		})
		return
	}

	insight, err := s.result.Create(ctx, nil, &types.AIAnalysisResult{
		ItemID:             item.ID,
		Title:              fmt.Sprintf("Analysis by %s", model.Name),
		Content:            datatypes.JSON(encoded),
		ProcessingStrategy: strategy,
	})
	if err != nil {
		s.log.Error("Persisting analysis failed", "model", model.Name, "item_id", item.ID, "error", err)
		s.appendLog(ctx, out, &types.AIProcessingLog{
			ItemID:   item.ID,
			ModelID:  &model.ID,
			LogLevel: types.LogLevelCritical,
			Message:  fmt.Sprintf("Persisting analysis from model %s failed: %v", model.Name, err),
		})
		return
	}
	out.Insights = append(out.Insights, insight)

	s.appendLog(ctx, out, &types.AIProcessingLog{
		ItemID:   item.ID,
		ModelID:  &model.ID,
		LogLevel: types.LogLevelImportant,
		Message:  fmt.Sprintf("Model %s completed analysis", model.Name),
		Details: datatypes.JSONMap{
			"risk_count":   len(content.Risks),
			"action_count": len(content.ActionItems),
			"kind":         string(content.Kind),
		},
	})
}

func (s *processorService) appendLog(ctx context.Context, out *ProcessResult, entry *types.AIProcessingLog) {
	created, err := s.logRepo.Create(ctx, nil, entry)
	if err != nil {
		s.log.Error("Persisting processing log failed", "item_id", entry.ItemID, "error", err)
		return
	}
	out.Logs = append(out.Logs, created)
}

func (s *processorService) Insights(ctx context.Context, itemID uuid.UUID) ([]*types.AIAnalysisResult, error) {
	insights, err := s.result.ListByItem(ctx, nil, itemID)
	if err != nil {
		return nil, apierr.Persistence(err)
	}
	return insights, nil
}

func (s *processorService) Logs(ctx context.Context, itemID uuid.UUID, level types.LogLevel) ([]*types.AIProcessingLog, error) {
	if level != "" && !types.ValidLogLevel(level) {
		return nil, apierr.Validation(fmt.Errorf("invalid log level %q", level))
	}
	logs, err := s.logRepo.ListByItem(ctx, nil, itemID, level)
	if err != nil {
		return nil, apierr.Persistence(err)
	}
	return logs, nil
}

func (s *processorService) DeleteLog(ctx context.Context, id uuid.UUID) error {
	if err := s.logRepo.SoftDelete(ctx, nil, id); err != nil {
		return apierr.Persistence(err)
	}
	return nil
}

// buildAnalysisPrompt fixes the output contract: the model must answer with a
// single JSON object using the summary/risks/actionItems keys.
func buildAnalysisPrompt(item *types.Item) string {
	var b strings.Builder
	b.WriteString("Analyze the following personal productivity item and respond with a single JSON object ")
	b.WriteString(`using exactly these keys: "summary" (string), "risks" (array of {"level","description"}), `)
	b.WriteString(`"actionItems" (array of {"title","description"}). Respond with JSON only, no prose.`)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Title: %s\n", item.Title)
	if item.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", item.Description)
	}
	fmt.Fprintf(&b, "Type: %s\nStatus: %s\nImportance: %s\n", item.Type, item.Status, item.Importance)
	if len(item.Tags) > 0 {
		fmt.Fprintf(&b, "Tags: %s\n", strings.Join(item.Tags, ", "))
	}
	if item.DueDate != nil {
		fmt.Fprintf(&b, "Due date: %s\n", item.DueDate.Format("2006-01-02"))
	}
	return b.String()
}

func truncateForLog(s string) string {
	const limit = 2000
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
