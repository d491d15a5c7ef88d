package services

import (
	"gorm.io/gorm"

	"docugen/internal/api"
	"docugen/internal/logging"
	"docugen/internal/repositories"
	"docugen/internal/session"
	"docugen/internal/storage"
)

// Services aggregates the services bound to the frontend.
type Services struct {
	Store    *session.Store
	KV       *storage.SQLite
	Session  *SessionService
	Workflow *WorkflowService
	Git      *GitService
	Keyring  *KeyringService
}

// NewServices loads the session store from db and wires the services around
// it. The backend client authenticates with the keyring token.
func NewServices(db *gorm.DB, apiOpts api.Options, log *logging.Logger) (*Services, error) {
	kv := storage.NewSQLite(repositories.NewStorageEntryRepository(db))
	store, err := session.New(kv, session.WithLogger(log))
	if err != nil {
		return nil, err
	}

	keys := NewKeyringService()
	apiOpts.Tokens = keys
	if apiOpts.Logger == nil {
		apiOpts.Logger = log
	}

	return &Services{
		Store:    store,
		KV:       kv,
		Session:  NewSessionService(store, log),
		Workflow: NewWorkflowService(store, api.New(apiOpts), log),
		Git:      NewGitService(),
		Keyring:  keys,
	}, nil
}
