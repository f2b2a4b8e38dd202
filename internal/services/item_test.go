package services

import (
	"context"
	"testing"

	"github.com/novinresanehco/lifeos-backend/internal/platform/apierr"
	"github.com/novinresanehco/lifeos-backend/internal/repos"
	"github.com/novinresanehco/lifeos-backend/internal/types"
)

func TestCreateAppliesDefaults(t *testing.T) {
	gdb := newTestDB(t)
	user := seedUser(t, gdb)
	svc := newItemService(gdb)

	item, err := svc.Create(context.Background(), user.ID, &types.Item{Title: "untyped"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if item.Type != types.ItemTypeTask || item.Status != types.ItemStatusTodo || item.Importance != types.ImportanceMedium {
		t.Fatalf("unexpected defaults: %s/%s/%s", item.Type, item.Status, item.Importance)
	}

	if _, err := svc.Create(context.Background(), user.ID, &types.Item{}); !apierr.Is(err, apierr.CodeValidation) {
		t.Fatalf("expected validation error for missing title, got %v", err)
	}
	if _, err := svc.Create(context.Background(), user.ID, &types.Item{Title: "x", Type: "BOGUS"}); !apierr.Is(err, apierr.CodeValidation) {
		t.Fatalf("expected validation error for bogus type, got %v", err)
	}
}

func TestGetOwnedCrossUser(t *testing.T) {
	gdb := newTestDB(t)
	owner := seedUser(t, gdb)
	stranger := seedUser(t, gdb)
	item := seedItem(t, gdb, owner.ID, "mine", types.ImportanceLow)
	svc := newItemService(gdb)

	if _, err := svc.GetOwned(context.Background(), stranger.ID, item.ID); !apierr.Is(err, apierr.CodeForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if _, err := svc.GetOwned(context.Background(), owner.ID, stranger.ID); !apierr.Is(err, apierr.CodeNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
}

func TestRelationViewIsDirectionRelative(t *testing.T) {
	gdb := newTestDB(t)
	user := seedUser(t, gdb)
	parent := seedItem(t, gdb, user.ID, "project", types.ImportanceHigh)
	child := seedItem(t, gdb, user.ID, "task", types.ImportanceMedium)
	svc := newItemService(gdb)

	if _, err := svc.CreateRelation(context.Background(), user.ID, &types.ItemRelation{
		FromItemID:   parent.ID,
		ToItemID:     child.ID,
		RelationType: types.RelationParentOf,
	}); err != nil {
		t.Fatalf("CreateRelation: %v", err)
	}

	fromParent, err := svc.GetWithRelations(context.Background(), user.ID, parent.ID)
	if err != nil {
		t.Fatalf("GetWithRelations(parent): %v", err)
	}
	if len(fromParent.Relations.Children) != 1 || fromParent.Relations.Children[0].Item.ID != child.ID {
		t.Fatalf("expected child under parent's children, got %+v", fromParent.Relations)
	}
	if len(fromParent.Relations.Parents) != 0 {
		t.Fatalf("parent must not list the edge under parents")
	}

	fromChild, err := svc.GetWithRelations(context.Background(), user.ID, child.ID)
	if err != nil {
		t.Fatalf("GetWithRelations(child): %v", err)
	}
	if len(fromChild.Relations.Parents) != 1 || fromChild.Relations.Parents[0].Item.ID != parent.ID {
		t.Fatalf("expected parent under child's parents, got %+v", fromChild.Relations)
	}
}

func TestRelationViewBlocksPair(t *testing.T) {
	gdb := newTestDB(t)
	user := seedUser(t, gdb)
	blocker := seedItem(t, gdb, user.ID, "blocker", types.ImportanceHigh)
	blocked := seedItem(t, gdb, user.ID, "blocked", types.ImportanceMedium)
	svc := newItemService(gdb)

	if _, err := svc.CreateRelation(context.Background(), user.ID, &types.ItemRelation{
		FromItemID:   blocker.ID,
		ToItemID:     blocked.ID,
		RelationType: types.RelationBlocks,
	}); err != nil {
		t.Fatalf("CreateRelation: %v", err)
	}

	fromBlocker, _ := svc.GetWithRelations(context.Background(), user.ID, blocker.ID)
	if len(fromBlocker.Relations.Blocks) != 1 || fromBlocker.Relations.Blocks[0].Item.ID != blocked.ID {
		t.Fatalf("expected blocked item under blocks, got %+v", fromBlocker.Relations)
	}

	fromBlocked, _ := svc.GetWithRelations(context.Background(), user.ID, blocked.ID)
	if len(fromBlocked.Relations.BlockedBy) != 1 || fromBlocked.Relations.BlockedBy[0].Item.ID != blocker.ID {
		t.Fatalf("expected blocker under blockedBy, got %+v", fromBlocked.Relations)
	}
}

func TestCreateRelationValidation(t *testing.T) {
	gdb := newTestDB(t)
	user := seedUser(t, gdb)
	item := seedItem(t, gdb, user.ID, "solo", types.ImportanceLow)
	svc := newItemService(gdb)

	if _, err := svc.CreateRelation(context.Background(), user.ID, &types.ItemRelation{
		FromItemID:   item.ID,
		ToItemID:     item.ID,
		RelationType: types.RelationRelatedTo,
	}); !apierr.Is(err, apierr.CodeValidation) {
		t.Fatalf("expected validation error for self-relation, got %v", err)
	}
	if _, err := svc.CreateRelation(context.Background(), user.ID, &types.ItemRelation{
		FromItemID:   item.ID,
		ToItemID:     seedItem(t, gdb, user.ID, "other", types.ImportanceLow).ID,
		RelationType: "FRIENDS_WITH",
	}); !apierr.Is(err, apierr.CodeValidation) {
		t.Fatalf("expected validation error for unknown relation type, got %v", err)
	}
}

func TestListFiltersAndSearch(t *testing.T) {
	gdb := newTestDB(t)
	user := seedUser(t, gdb)
	svc := newItemService(gdb)

	svc.Create(context.Background(), user.ID, &types.Item{Title: "buy groceries", Importance: types.ImportanceLow})
	svc.Create(context.Background(), user.ID, &types.Item{Title: "quarterly review", Importance: types.ImportanceHigh})
	svc.Create(context.Background(), user.ID, &types.Item{Title: "groceries budget", Importance: types.ImportanceHigh})

	high, err := svc.List(context.Background(), user.ID, repos.ItemFilters{Importance: types.ImportanceHigh})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(high) != 2 {
		t.Fatalf("expected 2 high-importance items, got %d", len(high))
	}

	found, err := svc.List(context.Background(), user.ID, repos.ItemFilters{Search: "groceries"})
	if err != nil {
		t.Fatalf("List with search: %v", err)
	}
	if len(found) != 2 {
		t.Fatalf("expected 2 items matching search, got %d", len(found))
	}
}

func TestUpdateAndDeleteOwned(t *testing.T) {
	gdb := newTestDB(t)
	user := seedUser(t, gdb)
	stranger := seedUser(t, gdb)
	item := seedItem(t, gdb, user.ID, "rename me", types.ImportanceMedium)
	svc := newItemService(gdb)

	updated, err := svc.Update(context.Background(), user.ID, item.ID, map[string]any{"title": "renamed", "status": string(types.ItemStatusDone)})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Title != "renamed" || updated.Status != types.ItemStatusDone {
		t.Fatalf("unexpected updated item: %+v", updated)
	}

	if _, err := svc.Update(context.Background(), stranger.ID, item.ID, map[string]any{"title": "stolen"}); !apierr.Is(err, apierr.CodeForbidden) {
		t.Fatalf("expected forbidden for cross-user update, got %v", err)
	}

	if err := svc.Delete(context.Background(), user.ID, item.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.GetOwned(context.Background(), user.ID, item.ID); !apierr.Is(err, apierr.CodeNotFound) {
		t.Fatalf("expected not_found after delete, got %v", err)
	}
}

func TestComments(t *testing.T) {
	gdb := newTestDB(t)
	user := seedUser(t, gdb)
	item := seedItem(t, gdb, user.ID, "discussion", types.ImportanceMedium)
	svc := newItemService(gdb)

	if _, err := svc.AddComment(context.Background(), user.ID, item.ID, ""); !apierr.Is(err, apierr.CodeValidation) {
		t.Fatalf("expected validation error for empty comment, got %v", err)
	}
	if _, err := svc.AddComment(context.Background(), user.ID, item.ID, "first"); err != nil {
		t.Fatalf("AddComment: %v", err)
	}
	comments, err := svc.ListComments(context.Background(), user.ID, item.ID)
	if err != nil {
		t.Fatalf("ListComments: %v", err)
	}
	if len(comments) != 1 || comments[0].Content != "first" {
		t.Fatalf("unexpected comments: %+v", comments)
	}
}
