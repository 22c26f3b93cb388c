package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wmhi/site-portal/internal/config"
	"github.com/wmhi/site-portal/internal/models"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestDialector(t *testing.T) {
	for driver, name := range map[string]string{"mysql": "mysql", "postgres": "postgres", "sqlite": "sqlite", "": "sqlite"} {
		d, err := Dialector(&config.Config{DBDriver: driver, DBPath: ":memory:"})
		require.NoError(t, err)
		assert.Equal(t, name, d.Name())
	}

	_, err := Dialector(&config.Config{DBDriver: "oracle"})
	require.Error(t, err)
}

func TestMigrate_CreatesIndexOnce(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	SetDB(db)
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	logger := zap.NewNop()
	require.NoError(t, Migrate(logger))
	assert.True(t, db.Migrator().HasTable(&models.KVEntry{}))
	assert.True(t, db.Migrator().HasIndex("kv_entries", "idx_kv_entries_updated_at"))

	require.NoError(t, Migrate(logger))
}
