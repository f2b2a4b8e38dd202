package handlers

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/novinresanehco/lifeos-backend/internal/http/response"
	"github.com/novinresanehco/lifeos-backend/internal/platform/apierr"
	"github.com/novinresanehco/lifeos-backend/internal/services"
	"github.com/novinresanehco/lifeos-backend/internal/types"
)

type AIHandler struct {
	itemService         services.ItemService
	processor           services.ProcessorService
	catalog             services.ModelCatalogService
	registry            services.ModelRegistry
	notificationService services.NotificationService
}

func NewAIHandler(
	itemService services.ItemService,
	processor services.ProcessorService,
	catalog services.ModelCatalogService,
	registry services.ModelRegistry,
	notificationService services.NotificationService,
) *AIHandler {
	return &AIHandler{
		itemService:         itemService,
		processor:           processor,
		catalog:             catalog,
		registry:            registry,
		notificationService: notificationService,
	}
}

// ProcessItem maps the item's importance onto a strategy unless the request
// pins one, runs the processor, and notifies the owner when the run finishes.
func (ah *AIHandler) ProcessItem(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		response.Err(c, err)
		return
	}
	itemID, err := parseIDParam(c, "id")
	if err != nil {
		response.Err(c, err)
		return
	}
	item, err := ah.itemService.GetOwned(c.Request.Context(), userID, itemID)
	if err != nil {
		response.Err(c, err)
		return
	}

	var req struct {
		Strategy string         `json:"strategy"`
		Models   []string       `json:"models"`
		Params   map[string]any `json:"params"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Err(c, apierr.Validation(errors.New("invalid request body")))
			return
		}
	}
	cfg := services.ProcessConfig{
		Strategy:        types.ProcessingStrategy(req.Strategy),
		RequestedModels: req.Models,
		Params:          req.Params,
	}
	if cfg.Strategy == "" {
		cfg.Strategy = services.StrategyForImportance(item.Importance)
	}

	result, err := ah.processor.ProcessItem(c.Request.Context(), itemID, cfg)
	if err != nil {
		response.Err(c, err)
		return
	}

	ah.notificationService.Send(c.Request.Context(), userID, types.NotificationPayload{
		Title:    "AI analysis complete",
		Content:  fmt.Sprintf("Analysis of %q finished with %d insight(s)", item.Title, len(result.Insights)),
		ItemID:   &itemID,
		Channels: []types.NotificationChannel{types.ChannelInApp, types.ChannelBrowser},
	})

	response.OK(c, gin.H{
		"strategy": cfg.Strategy,
		"insights": result.Insights,
		"logs":     result.Logs,
	})
}

func (ah *AIHandler) ItemInsights(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		response.Err(c, err)
		return
	}
	itemID, err := parseIDParam(c, "id")
	if err != nil {
		response.Err(c, err)
		return
	}
	if _, err := ah.itemService.GetOwned(c.Request.Context(), userID, itemID); err != nil {
		response.Err(c, err)
		return
	}
	insights, err := ah.processor.Insights(c.Request.Context(), itemID)
	if err != nil {
		response.Err(c, err)
		return
	}
	response.OK(c, insights)
}

func (ah *AIHandler) ItemLogs(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		response.Err(c, err)
		return
	}
	itemID, err := parseIDParam(c, "id")
	if err != nil {
		response.Err(c, err)
		return
	}
	if _, err := ah.itemService.GetOwned(c.Request.Context(), userID, itemID); err != nil {
		response.Err(c, err)
		return
	}
	logs, err := ah.processor.Logs(c.Request.Context(), itemID, types.LogLevel(c.Query("level")))
	if err != nil {
		response.Err(c, err)
		return
	}
	response.OK(c, logs)
}

func (ah *AIHandler) ListModels(c *gin.Context) {
	models, err := ah.catalog.List(c.Request.Context())
	if err != nil {
		response.Err(c, err)
		return
	}
	response.OK(c, gin.H{
		"models":     models,
		"discovered": ah.registry.Snapshot(),
	})
}

func (ah *AIHandler) SetModelStatus(c *gin.Context) {
	modelID, err := parseIDParam(c, "id")
	if err != nil {
		response.Err(c, err)
		return
	}
	var req struct {
		IsActive *bool `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.IsActive == nil {
		response.Err(c, apierr.Validation(errors.New("is_active is required")))
		return
	}
	model, err := ah.catalog.SetActive(c.Request.Context(), modelID, *req.IsActive)
	if err != nil {
		response.Err(c, err)
		return
	}
	response.OK(c, model)
}
