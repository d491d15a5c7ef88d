package mocks

import (
	"context"

	"docugen/internal/models"
)

type StorageEntryRepositoryMock struct {
	GetFunc    func(ctx context.Context, key string) (*models.StorageEntry, error)
	PutFunc    func(ctx context.Context, key, value string) error
	DeleteFunc func(ctx context.Context, key string) error
	KeysFunc   func(ctx context.Context) ([]string, error)
}

func (m *StorageEntryRepositoryMock) Get(ctx context.Context, key string) (*models.StorageEntry, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	return nil, nil
}

func (m *StorageEntryRepositoryMock) Put(ctx context.Context, key, value string) error {
	if m.PutFunc != nil {
		return m.PutFunc(ctx, key, value)
	}
	return nil
}

func (m *StorageEntryRepositoryMock) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	return nil
}

func (m *StorageEntryRepositoryMock) Keys(ctx context.Context) ([]string, error) {
	if m.KeysFunc != nil {
		return m.KeysFunc(ctx)
	}
	return nil, nil
}
