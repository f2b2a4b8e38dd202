package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/novinresanehco/lifeos-backend/internal/pkg/logger"
	"github.com/novinresanehco/lifeos-backend/internal/platform/apierr"
	"github.com/novinresanehco/lifeos-backend/internal/repos"
	"github.com/novinresanehco/lifeos-backend/internal/types"
)

type ItemService interface {
	Create(ctx context.Context, userID uuid.UUID, item *types.Item) (*types.Item, error)
	// GetOwned returns the item when callerID owns it; not_found/forbidden
	// otherwise.
	GetOwned(ctx context.Context, callerID, itemID uuid.UUID) (*types.Item, error)
	GetWithRelations(ctx context.Context, callerID, itemID uuid.UUID) (*types.ItemWithRelations, error)
	List(ctx context.Context, userID uuid.UUID, filters repos.ItemFilters) ([]*types.Item, error)
	Update(ctx context.Context, callerID, itemID uuid.UUID, fields map[string]any) (*types.Item, error)
	Delete(ctx context.Context, callerID, itemID uuid.UUID) error

	CreateRelation(ctx context.Context, callerID uuid.UUID, relation *types.ItemRelation) (*types.ItemRelation, error)
	DeleteRelation(ctx context.Context, callerID, relationID uuid.UUID) error

	AddComment(ctx context.Context, callerID, itemID uuid.UUID, content string) (*types.Comment, error)
	ListComments(ctx context.Context, callerID, itemID uuid.UUID) ([]*types.Comment, error)
}

type itemService struct {
	db           *gorm.DB
	log          *logger.Logger
	itemRepo     repos.ItemRepo
	relationRepo repos.ItemRelationRepo
	commentRepo  repos.CommentRepo
	resultRepo   repos.AIResultRepo
	logRepo      repos.AILogRepo
}

func NewItemService(
	db *gorm.DB,
	log *logger.Logger,
	itemRepo repos.ItemRepo,
	relationRepo repos.ItemRelationRepo,
	commentRepo repos.CommentRepo,
	resultRepo repos.AIResultRepo,
	logRepo repos.AILogRepo,
) ItemService {
	return &itemService{
		db:           db,
		log:          log.With("service", "ItemService"),
		itemRepo:     itemRepo,
		relationRepo: relationRepo,
		commentRepo:  commentRepo,
		resultRepo:   resultRepo,
		logRepo:      logRepo,
	}
}

func (s *itemService) Create(ctx context.Context, userID uuid.UUID, item *types.Item) (*types.Item, error) {
	if item.Title == "" {
		return nil, apierr.Validation(errors.New("title is required"))
	}
	if item.Type == "" {
		item.Type = types.ItemTypeTask
	}
	if item.Status == "" {
		item.Status = types.ItemStatusTodo
	}
	if item.Importance == "" {
		item.Importance = types.ImportanceMedium
	}
	if !types.ValidItemType(item.Type) || !types.ValidItemStatus(item.Status) || !types.ValidImportance(item.Importance) {
		return nil, apierr.Validation(errors.New("invalid type, status or importance"))
	}
	item.UserID = userID
	created, err := s.itemRepo.Create(ctx, nil, item)
	if err != nil {
		return nil, apierr.Persistence(err)
	}
	return created, nil
}

func (s *itemService) GetOwned(ctx context.Context, callerID, itemID uuid.UUID) (*types.Item, error) {
	item, err := s.itemRepo.GetByID(ctx, nil, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("item")
		}
		return nil, apierr.Persistence(err)
	}
	if item.UserID != callerID {
		return nil, apierr.Forbidden()
	}
	return item, nil
}

func (s *itemService) GetWithRelations(ctx context.Context, callerID, itemID uuid.UUID) (*types.ItemWithRelations, error) {
	item, err := s.GetOwned(ctx, callerID, itemID)
	if err != nil {
		return nil, err
	}

	relations, err := s.relationRepo.ListTouching(ctx, nil, itemID)
	if err != nil {
		return nil, apierr.Persistence(err)
	}

	relatedIDs := make([]uuid.UUID, 0, len(relations))
	seen := map[uuid.UUID]bool{itemID: true}
	for _, rel := range relations {
		for _, id := range []uuid.UUID{rel.FromItemID, rel.ToItemID} {
			if !seen[id] {
				seen[id] = true
				relatedIDs = append(relatedIDs, id)
			}
		}
	}
	relatedItems, err := s.itemRepo.GetByIDs(ctx, nil, relatedIDs)
	if err != nil {
		return nil, apierr.Persistence(err)
	}
	itemsByID := make(map[uuid.UUID]*types.Item, len(relatedItems))
	for _, related := range relatedItems {
		itemsByID[related.ID] = related
	}

	view := types.RelationView{
		Parents:   []types.RelatedItem{},
		Children:  []types.RelatedItem{},
		Related:   []types.RelatedItem{},
		Blocks:    []types.RelatedItem{},
		BlockedBy: []types.RelatedItem{},
	}
	for _, rel := range relations {
		otherID := rel.ToItemID
		outgoing := rel.FromItemID == itemID
		if !outgoing {
			otherID = rel.FromItemID
		}
		other, ok := itemsByID[otherID]
		if !ok {
			continue
		}
		entry := types.RelatedItem{Relation: *rel, Item: *other}

		switch rel.RelationType {
		case types.RelationParentOf:
			if outgoing {
				view.Children = append(view.Children, entry)
			} else {
				view.Parents = append(view.Parents, entry)
			}
		case types.RelationChildOf:
			if outgoing {
				view.Parents = append(view.Parents, entry)
			} else {
				view.Children = append(view.Children, entry)
			}
		case types.RelationRelatedTo:
			view.Related = append(view.Related, entry)
		case types.RelationBlocks:
			if outgoing {
				view.Blocks = append(view.Blocks, entry)
			} else {
				view.BlockedBy = append(view.BlockedBy, entry)
			}
		case types.RelationDependsOn:
			if outgoing {
				view.BlockedBy = append(view.BlockedBy, entry)
			} else {
				view.Blocks = append(view.Blocks, entry)
			}
		}
	}

	comments, err := s.commentRepo.ListByItem(ctx, nil, itemID)
	if err != nil {
		return nil, apierr.Persistence(err)
	}
	insights, err := s.resultRepo.ListByItem(ctx, nil, itemID)
	if err != nil {
		return nil, apierr.Persistence(err)
	}
	logs, err := s.logRepo.ListByItem(ctx, nil, itemID, "")
	if err != nil {
		return nil, apierr.Persistence(err)
	}

	result := &types.ItemWithRelations{
		Item:       *item,
		Relations:  view,
		Comments:   derefAll(comments),
		AIInsights: derefAll(insights),
		AILogs:     derefAll(logs),
	}
	return result, nil
}

func (s *itemService) List(ctx context.Context, userID uuid.UUID, filters repos.ItemFilters) ([]*types.Item, error) {
	items, err := s.itemRepo.ListByUser(ctx, nil, userID, filters)
	if err != nil {
		return nil, apierr.Persistence(err)
	}
	return items, nil
}

func (s *itemService) Update(ctx context.Context, callerID, itemID uuid.UUID, fields map[string]any) (*types.Item, error) {
	if _, err := s.GetOwned(ctx, callerID, itemID); err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, apierr.Validation(errors.New("no fields to update"))
	}
	updated, err := s.itemRepo.Update(ctx, nil, itemID, fields)
	if err != nil {
		return nil, apierr.Persistence(err)
	}
	return updated, nil
}

func (s *itemService) Delete(ctx context.Context, callerID, itemID uuid.UUID) error {
	if _, err := s.GetOwned(ctx, callerID, itemID); err != nil {
		return err
	}
	if err := s.itemRepo.Delete(ctx, nil, itemID); err != nil {
		return apierr.Persistence(err)
	}
	return nil
}

func (s *itemService) CreateRelation(ctx context.Context, callerID uuid.UUID, relation *types.ItemRelation) (*types.ItemRelation, error) {
	if !types.ValidRelationType(relation.RelationType) {
		return nil, apierr.Validation(errors.New("invalid relation type"))
	}
	if relation.FromItemID == relation.ToItemID {
		return nil, apierr.Validation(errors.New("relation endpoints must differ"))
	}
	// Both endpoints must exist and belong to the caller.
	if _, err := s.GetOwned(ctx, callerID, relation.FromItemID); err != nil {
		return nil, err
	}
	if _, err := s.GetOwned(ctx, callerID, relation.ToItemID); err != nil {
		return nil, err
	}
	created, err := s.relationRepo.Create(ctx, nil, relation)
	if err != nil {
		return nil, apierr.Persistence(err)
	}
	return created, nil
}

func (s *itemService) DeleteRelation(ctx context.Context, callerID, relationID uuid.UUID) error {
	relation, err := s.relationRepo.GetByID(ctx, nil, relationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierr.NotFound("relation")
		}
		return apierr.Persistence(err)
	}
	if _, err := s.GetOwned(ctx, callerID, relation.FromItemID); err != nil {
		return err
	}
	if err := s.relationRepo.Delete(ctx, nil, relationID); err != nil {
		return apierr.Persistence(err)
	}
	return nil
}

func (s *itemService) AddComment(ctx context.Context, callerID, itemID uuid.UUID, content string) (*types.Comment, error) {
	if content == "" {
		return nil, apierr.Validation(errors.New("content is required"))
	}
	if _, err := s.GetOwned(ctx, callerID, itemID); err != nil {
		return nil, err
	}
	comment := &types.Comment{
		ItemID:  itemID,
		UserID:  callerID,
		Content: content,
	}
	created, err := s.commentRepo.Create(ctx, nil, comment)
	if err != nil {
		return nil, apierr.Persistence(err)
	}
	return created, nil
}

func (s *itemService) ListComments(ctx context.Context, callerID, itemID uuid.UUID) ([]*types.Comment, error) {
	if _, err := s.GetOwned(ctx, callerID, itemID); err != nil {
		return nil, err
	}
	comments, err := s.commentRepo.ListByItem(ctx, nil, itemID)
	if err != nil {
		return nil, apierr.Persistence(err)
	}
	return comments, nil
}

func derefAll[T any](in []*T) []T {
	out := make([]T, 0, len(in))
	for _, v := range in {
		if v != nil {
			out = append(out, *v)
		}
	}
	return out
}
