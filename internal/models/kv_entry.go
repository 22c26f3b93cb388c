package models

import (
	"time"

	"gorm.io/datatypes"
)

// KVEntry is one persisted blob. The column is entry_key because KEY is
// reserved in MySQL.
type KVEntry struct {
	Key       string         `gorm:"column:entry_key;primaryKey;type:varchar(191)" json:"key"`
	Value     datatypes.JSON `gorm:"not null" json:"value"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (KVEntry) TableName() string {
	return "kv_entries"
}
