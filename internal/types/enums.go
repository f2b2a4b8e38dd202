package types

type ItemType string

const (
	ItemTypeTask    ItemType = "TASK"
	ItemTypeProject ItemType = "PROJECT"
	ItemTypeGoal    ItemType = "GOAL"
	ItemTypeIdea    ItemType = "IDEA"
	ItemTypeNote    ItemType = "NOTE"
)

type ItemStatus string

const (
	ItemStatusTodo       ItemStatus = "TODO"
	ItemStatusInProgress ItemStatus = "IN_PROGRESS"
	ItemStatusDone       ItemStatus = "DONE"
	ItemStatusArchived   ItemStatus = "ARCHIVED"
	ItemStatusBacklog    ItemStatus = "BACKLOG"
)

type Importance string

const (
	ImportanceLow      Importance = "LOW"
	ImportanceMedium   Importance = "MEDIUM"
	ImportanceHigh     Importance = "HIGH"
	ImportanceCritical Importance = "CRITICAL"
)

type RelationType string

const (
	RelationParentOf  RelationType = "PARENT_OF"
	RelationChildOf   RelationType = "CHILD_OF"
	RelationRelatedTo RelationType = "RELATED_TO"
	RelationBlocks    RelationType = "BLOCKS"
	RelationDependsOn RelationType = "DEPENDS_ON"
)

type ModelType string

const (
	ModelTypeAPI         ModelType = "API"
	ModelTypeOllamaLocal ModelType = "OLLAMA_LOCAL"
)

type LogLevel string

const (
	LogLevelDebug     LogLevel = "DEBUG"
	LogLevelInfo      LogLevel = "INFO"
	LogLevelImportant LogLevel = "IMPORTANT"
	LogLevelCritical  LogLevel = "CRITICAL"
)

type ProcessingStrategy string

const (
	StrategySingleBasic         ProcessingStrategy = "SINGLE_BASIC"
	StrategySingleBest          ProcessingStrategy = "SINGLE_BEST"
	StrategyMultiModelSelective ProcessingStrategy = "MULTI_MODEL_SELECTIVE"
	StrategyAllEncompassing     ProcessingStrategy = "ALL_ENCOMPASSING"
)

type NotificationChannel string

const (
	ChannelInApp    NotificationChannel = "IN_APP"
	ChannelBrowser  NotificationChannel = "BROWSER"
	ChannelTelegram NotificationChannel = "TELEGRAM"
)

type InteractionType string

const (
	InteractionInfo     InteractionType = "INFO"
	InteractionCheckbox InteractionType = "CHECKBOX"
	InteractionTextarea InteractionType = "TEXTAREA"
)

func ValidItemType(t ItemType) bool {
	switch t {
	case ItemTypeTask, ItemTypeProject, ItemTypeGoal, ItemTypeIdea, ItemTypeNote:
		return true
	}
	return false
}

func ValidItemStatus(s ItemStatus) bool {
	switch s {
	case ItemStatusTodo, ItemStatusInProgress, ItemStatusDone, ItemStatusArchived, ItemStatusBacklog:
		return true
	}
	return false
}

func ValidImportance(i Importance) bool {
	switch i {
	case ImportanceLow, ImportanceMedium, ImportanceHigh, ImportanceCritical:
		return true
	}
	return false
}

func ValidRelationType(r RelationType) bool {
	switch r {
	case RelationParentOf, RelationChildOf, RelationRelatedTo, RelationBlocks, RelationDependsOn:
		return true
	}
	return false
}

func ValidChannel(c NotificationChannel) bool {
	switch c {
	case ChannelInApp, ChannelBrowser, ChannelTelegram:
		return true
	}
	return false
}

func ValidInteractionType(t InteractionType) bool {
	switch t {
	case InteractionInfo, InteractionCheckbox, InteractionTextarea:
		return true
	}
	return false
}

func ValidLogLevel(l LogLevel) bool {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelImportant, LogLevelCritical:
		return true
	}
	return false
}
