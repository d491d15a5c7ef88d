package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"docugen/internal/config"
	"docugen/internal/database"
	"docugen/internal/logging"
	"docugen/internal/repositories"
	"docugen/internal/session"
	"docugen/internal/storage"
)

type sessionHandle struct {
	store *session.Store
	kv    *storage.SQLite
	db    *gorm.DB
}

func (h *sessionHandle) Close() {
	_ = database.Close(h.db)
}

// openSession opens the database named by --db, falling back to the
// configured path, and loads the session store from it.
func openSession(cmd *cobra.Command) (*sessionHandle, error) {
	path, _ := cmd.Flags().GetString("db")
	if path == "" {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		path = cfg.DBPath
	}

	log := logging.Nop()
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		l, err := logging.New("dev")
		if err != nil {
			return nil, err
		}
		log = l
	}
	if path == "" {
		path = database.DefaultPath(log)
	}

	db, err := database.Init(database.Config{Path: path, Logger: log})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	kv := storage.NewSQLite(repositories.NewStorageEntryRepository(db))
	kv.Startup(cmd.Context())
	store, err := session.New(kv, session.WithLogger(log))
	if err != nil {
		_ = database.Close(db)
		return nil, err
	}
	return &sessionHandle{store: store, kv: kv, db: db}, nil
}

// withSession opens the session for the duration of fn.
func withSession(fn func(cmd *cobra.Command, args []string, h *sessionHandle) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		h, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer h.Close()
		return fn(cmd, args, h)
	}
}
