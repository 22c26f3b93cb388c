package repository

import (
	"errors"
	"fmt"

	"github.com/wmhi/site-portal/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormKVRepository is a GORM implementation of KVRepository
type GormKVRepository struct {
	db *gorm.DB
}

// NewKVRepository creates a new KVRepository
func NewKVRepository(db *gorm.DB) KVRepository {
	return &GormKVRepository{db: db}
}

// Get returns the blob stored under key
func (r *GormKVRepository) Get(key string) ([]byte, error) {
	var entry models.KVEntry
	if err := r.db.Where("entry_key = ?", key).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return []byte(entry.Value), nil
}

// Set upserts the blob stored under key
func (r *GormKVRepository) Set(key string, value []byte) error {
	entry := models.KVEntry{
		Key:   key,
		Value: datatypes.JSON(value),
	}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "entry_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Delete removes key
func (r *GormKVRepository) Delete(key string) error {
	if err := r.db.Where("entry_key = ?", key).Delete(&models.KVEntry{}).Error; err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// Keys lists every stored key
func (r *GormKVRepository) Keys() ([]string, error) {
	var keys []string
	if err := r.db.Model(&models.KVEntry{}).Order("entry_key").Pluck("entry_key", &keys).Error; err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	return keys, nil
}
