package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/novinresanehco/lifeos-backend/internal/pkg/envutil"
	"github.com/novinresanehco/lifeos-backend/internal/pkg/logger"
	"github.com/novinresanehco/lifeos-backend/internal/types"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	host := envutil.Str("POSTGRES_HOST", "localhost")
	port := envutil.Str("POSTGRES_PORT", "5432")
	user := envutil.Str("POSTGRES_USER", "postgres")
	password := envutil.Str("POSTGRES_PASSWORD", "")
	name := envutil.Str("POSTGRES_NAME", "lifeos")

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, name)

	serviceLog.Info("Connecting to Postgres...")
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	return &PostgresService{db: gdb, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	if err := AutoMigrate(s.db); err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}
	s.log.Info("Configuring cascade deletes...")
	return applyCascades(s.db)
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}

// AutoMigrate creates the full table set. Split out so tests can run it
// against an in-memory database.
func AutoMigrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&types.User{},
		&types.UserToken{},
		&types.UserSettings{},
		&types.Item{},
		&types.ItemRelation{},
		&types.Comment{},
		&types.Notification{},
		&types.AIModel{},
		&types.AIProcessingLog{},
		&types.AIAnalysisResult{},
	)
}

// applyCascades wires ON DELETE CASCADE so deleting an item drops its
// relations, comments, logs, insights and notification references, and
// deleting a user drops everything they own.
func applyCascades(gdb *gorm.DB) error {
	stmts := []struct {
		table, constraint, column, refTable, refColumn string
	}{
		{"user_tokens", "fk_user_tokens_user_id", "user_id", "users", "id"},
		{"user_settings", "fk_user_settings_user_id", "user_id", "users", "id"},
		{"items", "fk_items_user_id", "user_id", "users", "id"},
		{"item_relations", "fk_item_relations_from_item_id", "from_item_id", "items", "id"},
		{"item_relations", "fk_item_relations_to_item_id", "to_item_id", "items", "id"},
		{"comments", "fk_comments_item_id", "item_id", "items", "id"},
		{"comments", "fk_comments_user_id", "user_id", "users", "id"},
		{"notifications", "fk_notifications_user_id", "user_id", "users", "id"},
		{"notifications", "fk_notifications_item_id", "item_id", "items", "id"},
		{"ai_processing_logs", "fk_ai_processing_logs_item_id", "item_id", "items", "id"},
		{"ai_analysis_results", "fk_ai_analysis_results_item_id", "item_id", "items", "id"},
	}
	for _, s := range stmts {
		sql := fmt.Sprintf(`
            ALTER TABLE %q DROP CONSTRAINT IF EXISTS %q;
            ALTER TABLE %q ADD CONSTRAINT %q
            FOREIGN KEY (%q) REFERENCES %q(%q) ON DELETE CASCADE`,
			s.table, s.constraint,
			s.table, s.constraint,
			s.column, s.refTable, s.refColumn,
		)
		if err := gdb.Exec(sql).Error; err != nil {
			return fmt.Errorf("add %s: %w", s.constraint, err)
		}
	}
	return nil
}
