package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"docugen/internal/models"
)

type StorageEntryRepository interface {
	Get(ctx context.Context, key string) (*models.StorageEntry, error)
	Put(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
}

type storageEntryRepository struct {
	db *gorm.DB
}

func NewStorageEntryRepository(db *gorm.DB) StorageEntryRepository {
	return &storageEntryRepository{db: db}
}

// Get returns nil without error when the key is absent.
func (r *storageEntryRepository) Get(ctx context.Context, key string) (*models.StorageEntry, error) {
	var entry models.StorageEntry
	if err := r.db.WithContext(ctx).Where("item_key = ?", key).Take(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting storage entry %q: %w", key, err)
	}
	return &entry, nil
}

func (r *storageEntryRepository) Put(ctx context.Context, key, value string) error {
	if key == "" {
		return fmt.Errorf("storage key is required")
	}
	entry := models.StorageEntry{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
	}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "item_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"item_value", "updated_at"}),
	}).Create(&entry).Error; err != nil {
		return fmt.Errorf("writing storage entry %q: %w", key, err)
	}
	return nil
}

func (r *storageEntryRepository) Delete(ctx context.Context, key string) error {
	if err := r.db.WithContext(ctx).Where("item_key = ?", key).Delete(&models.StorageEntry{}).Error; err != nil {
		return fmt.Errorf("deleting storage entry %q: %w", key, err)
	}
	return nil
}

func (r *storageEntryRepository) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	if err := r.db.WithContext(ctx).Model(&models.StorageEntry{}).Order("item_key").Pluck("item_key", &keys).Error; err != nil {
		return nil, fmt.Errorf("listing storage keys: %w", err)
	}
	return keys, nil
}
