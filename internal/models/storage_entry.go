package models

import "time"

// StorageEntry is one row of the local key/value medium.
type StorageEntry struct {
	Key       string `gorm:"column:item_key;primaryKey;size:255"`
	Value     string `gorm:"column:item_value;type:text;not null"`
	UpdatedAt time.Time
}
