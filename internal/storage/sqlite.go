package storage

import (
	"context"

	"docugen/internal/repositories"
)

// SQLite stores items in the storage_entries table.
type SQLite struct {
	repo repositories.StorageEntryRepository
	ctx  context.Context
}

func NewSQLite(repo repositories.StorageEntryRepository) *SQLite {
	return &SQLite{repo: repo, ctx: context.Background()}
}

// Startup scopes subsequent queries to the application context.
func (s *SQLite) Startup(ctx context.Context) {
	s.ctx = ctx
}

func (s *SQLite) GetItem(key string) (string, bool, error) {
	entry, err := s.repo.Get(s.ctx, key)
	if err != nil {
		return "", false, err
	}
	if entry == nil {
		return "", false, nil
	}
	return entry.Value, true, nil
}

func (s *SQLite) SetItem(key, value string) error {
	return s.repo.Put(s.ctx, key, value)
}

func (s *SQLite) RemoveItem(key string) error {
	return s.repo.Delete(s.ctx, key)
}

func (s *SQLite) Keys() ([]string, error) {
	return s.repo.Keys(s.ctx)
}
