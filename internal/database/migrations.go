package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AddIndexes creates secondary indexes missing from the store
func AddIndexes(db *gorm.DB, logger *zap.Logger) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		{"kv_entries", "idx_kv_entries_updated_at", "updated_at"},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.table, idx.name) {
			logger.Debug("index already exists", zap.String("index", idx.name))
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		logger.Info("created index", zap.String("index", idx.name), zap.String("table", idx.table))
	}

	return nil
}

// MigrateDatabase runs post-AutoMigrate steps
func MigrateDatabase(db *gorm.DB, logger *zap.Logger) error {
	if err := AddIndexes(db, logger); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}
	return nil
}
