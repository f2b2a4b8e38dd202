package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/novinresanehco/lifeos-backend/internal/http/response"
	"github.com/novinresanehco/lifeos-backend/internal/platform/apierr"
	"github.com/novinresanehco/lifeos-backend/internal/repos"
	"github.com/novinresanehco/lifeos-backend/internal/services"
	"github.com/novinresanehco/lifeos-backend/internal/types"
)

type ItemHandler struct {
	itemService services.ItemService
}

func NewItemHandler(itemService services.ItemService) *ItemHandler {
	return &ItemHandler{itemService: itemService}
}

type itemRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Type        string     `json:"type"`
	Status      string     `json:"status"`
	Importance  string     `json:"importance"`
	Tags        []string   `json:"tags"`
	DueDate     *time.Time `json:"due_date"`
}

func (ih *ItemHandler) Create(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		response.Err(c, err)
		return
	}
	var req itemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Err(c, apierr.Validation(errors.New("invalid request body")))
		return
	}
	item, err := ih.itemService.Create(c.Request.Context(), userID, &types.Item{
		Title:       req.Title,
		Description: req.Description,
		Type:        types.ItemType(req.Type),
		Status:      types.ItemStatus(req.Status),
		Importance:  types.Importance(req.Importance),
		Tags:        req.Tags,
		DueDate:     req.DueDate,
	})
	if err != nil {
		response.Err(c, err)
		return
	}
	response.Created(c, item)
}

func (ih *ItemHandler) List(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		response.Err(c, err)
		return
	}
	filters := repos.ItemFilters{
		Type:       types.ItemType(c.Query("type")),
		Status:     types.ItemStatus(c.Query("status")),
		Importance: types.Importance(c.Query("importance")),
		Search:     c.Query("search"),
		SortBy:     c.Query("sort_by"),
		SortAsc:    c.Query("sort_order") == "asc",
	}
	items, err := ih.itemService.List(c.Request.Context(), userID, filters)
	if err != nil {
		response.Err(c, err)
		return
	}
	response.OK(c, items)
}

func (ih *ItemHandler) Get(c *gin.Context) {
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
	item, err := ih.itemService.GetWithRelations(c.Request.Context(), userID, itemID)
	if err != nil {
		response.Err(c, err)
		return
	}
	response.OK(c, item)
}

func (ih *ItemHandler) Update(c *gin.Context) {
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
	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil {
		response.Err(c, apierr.Validation(errors.New("invalid request body")))
		return
	}
	item, err := ih.itemService.Update(c.Request.Context(), userID, itemID, fields)
	if err != nil {
		response.Err(c, err)
		return
	}
	response.OK(c, item)
}

func (ih *ItemHandler) Delete(c *gin.Context) {
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
	if err := ih.itemService.Delete(c.Request.Context(), userID, itemID); err != nil {
		response.Err(c, err)
		return
	}
	response.OK(c, gin.H{"deleted": itemID})
}

func (ih *ItemHandler) CreateRelation(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		response.Err(c, err)
		return
	}
	var req struct {
		FromItemID   string `json:"from_item_id"`
		ToItemID     string `json:"to_item_id"`
		RelationType string `json:"relation_type"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Err(c, apierr.Validation(errors.New("invalid request body")))
		return
	}
	fromID, err := parseUUIDField(req.FromItemID, "from_item_id")
	if err != nil {
		response.Err(c, err)
		return
	}
	toID, err := parseUUIDField(req.ToItemID, "to_item_id")
	if err != nil {
		response.Err(c, err)
		return
	}
	relation, err := ih.itemService.CreateRelation(c.Request.Context(), userID, &types.ItemRelation{
		FromItemID:   fromID,
		ToItemID:     toID,
		RelationType: types.RelationType(req.RelationType),
	})
	if err != nil {
		response.Err(c, err)
		return
	}
	response.Created(c, relation)
}

func (ih *ItemHandler) DeleteRelation(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		response.Err(c, err)
		return
	}
	relationID, err := parseIDParam(c, "id")
	if err != nil {
		response.Err(c, err)
		return
	}
	if err := ih.itemService.DeleteRelation(c.Request.Context(), userID, relationID); err != nil {
		response.Err(c, err)
		return
	}
	response.OK(c, gin.H{"deleted": relationID})
}

func (ih *ItemHandler) AddComment(c *gin.Context) {
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
	var req struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Err(c, apierr.Validation(errors.New("invalid request body")))
		return
	}
	comment, err := ih.itemService.AddComment(c.Request.Context(), userID, itemID, req.Content)
	if err != nil {
		response.Err(c, err)
		return
	}
	response.Created(c, comment)
}

func (ih *ItemHandler) ListComments(c *gin.Context) {
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
	comments, err := ih.itemService.ListComments(c.Request.Context(), userID, itemID)
	if err != nil {
		response.Err(c, err)
		return
	}
	response.OK(c, comments)
}
