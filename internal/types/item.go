package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Item struct {
	ID          uuid.UUID                  `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string                     `gorm:"not null;column:title" json:"title"`
	Description string                     `gorm:"column:description" json:"description"`
	Type        ItemType                   `gorm:"not null;default:'TASK';column:type" json:"type"`
	Status      ItemStatus                 `gorm:"not null;default:'TODO';column:status" json:"status"`
	Importance  Importance                 `gorm:"not null;default:'MEDIUM';column:importance" json:"importance"`
	Tags        datatypes.JSONSlice[string] `gorm:"column:tags" json:"tags"`
	DueDate     *time.Time                 `gorm:"column:due_date" json:"due_date,omitempty"`
	UserID      uuid.UUID                  `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Item) TableName() string { return "items" }

// ItemRelation is a single directed edge. Symmetric pairs (PARENT_OF/CHILD_OF,
// BLOCKS/DEPENDS_ON) are interpreted relative to traversal direction at read
// time; the inverse edge is never stored.
type ItemRelation struct {
	ID           uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	FromItemID   uuid.UUID    `gorm:"type:uuid;not null;index;column:from_item_id" json:"from_item_id"`
	ToItemID     uuid.UUID    `gorm:"type:uuid;not null;index;column:to_item_id" json:"to_item_id"`
	RelationType RelationType `gorm:"not null;column:relation_type" json:"relation_type"`
}

func (ItemRelation) TableName() string { return "item_relations" }

type Comment struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ItemID  uuid.UUID `gorm:"type:uuid;not null;index;column:item_id" json:"item_id"`
	UserID  uuid.UUID `gorm:"type:uuid;not null;column:user_id" json:"user_id"`
	Content string    `gorm:"not null;column:content" json:"content"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (Comment) TableName() string { return "comments" }

// RelationView groups the edges touching one item, resolved from the item's
// perspective: for edge (A,B,PARENT_OF), A sees B under Children and B sees A
// under Parents.
type RelationView struct {
	Parents   []RelatedItem `json:"parents"`
	Children  []RelatedItem `json:"children"`
	Related   []RelatedItem `json:"related"`
	Blocks    []RelatedItem `json:"blocks"`
	BlockedBy []RelatedItem `json:"blockedBy"`
}

type RelatedItem struct {
	Relation ItemRelation `json:"relation"`
	Item     Item         `json:"item"`
}

type ItemWithRelations struct {
	Item
	Relations  RelationView       `json:"relations"`
	Comments   []Comment          `json:"comments"`
	AIInsights []AIAnalysisResult `json:"aiInsights"`
	AILogs     []AIProcessingLog  `json:"aiLogs"`
}
