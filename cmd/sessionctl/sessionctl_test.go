package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"docugen/internal/database"
	"docugen/internal/models"
	"docugen/internal/repositories"
	"docugen/internal/session"
	"docugen/internal/storage"
)

// seed writes two documents to a fresh database and returns its path and ids.
func seed(t *testing.T) (string, []string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.db")
	db, err := database.Init(database.Config{Path: path})
	require.NoError(t, err)
	defer func() { _ = database.Close(db) }()

	store, err := session.New(storage.NewSQLite(repositories.NewStorageEntryRepository(db)))
	require.NoError(t, err)
	a, err := store.CreateDocument(models.CreateDocumentInput{GithubURL: "https://github.com/acme/alpha"})
	require.NoError(t, err)
	b, err := store.CreateDocument(models.CreateDocumentInput{GithubURL: "https://github.com/acme/beta", Status: models.StatusReady})
	require.NoError(t, err)
	require.NoError(t, store.SetActiveDocument(b.ID))
	return path, []string{a.ID, b.ID}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestListShowsActiveMarker(t *testing.T) {
	path, ids := seed(t)

	out, err := run(t, "--db", path, "list")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], ids[0])
	assert.Contains(t, lines[1], "alpha")
	assert.True(t, strings.HasPrefix(lines[2], "*"))
	assert.Contains(t, lines[2], ids[1])
}

func TestListFiltersByStatusAsJSON(t *testing.T) {
	path, ids := seed(t)

	out, err := run(t, "--db", path, "list", "--status", "ready", "-o", "json")
	require.NoError(t, err)
	var docs []models.SessionDocument
	require.NoError(t, json.Unmarshal([]byte(out), &docs))
	require.Len(t, docs, 1)
	assert.Equal(t, ids[1], docs[0].ID)

	_, err = run(t, "--db", path, "list", "--status", "bogus")
	assert.ErrorIs(t, err, session.ErrInvalidStatus)
}

func TestShowAsYAML(t *testing.T) {
	path, ids := seed(t)

	out, err := run(t, "--db", path, "show", ids[1], "-o", "yaml")
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	assert.Equal(t, ids[1], doc["id"])
	assert.Equal(t, "beta", doc["title"])
	assert.Equal(t, "ready", doc["status"])
	assert.Equal(t, "https://github.com/acme/beta", doc["githubUrl"])

	_, err = run(t, "--db", path, "show", ids[1], "-o", "xml")
	assert.Error(t, err)
}

func TestShowUnknownDocument(t *testing.T) {
	path, _ := seed(t)

	_, err := run(t, "--db", path, "show", "missing")
	assert.ErrorIs(t, err, session.ErrDocumentNotFound)
}

func TestRenameStatusAndShow(t *testing.T) {
	path, ids := seed(t)

	_, err := run(t, "--db", path, "rename", ids[0], "Handbook")
	require.NoError(t, err)
	_, err = run(t, "--db", path, "status", ids[0], "editing")
	require.NoError(t, err)
	_, err = run(t, "--db", path, "status", ids[0], "archived")
	assert.ErrorIs(t, err, session.ErrInvalidStatus)

	out, err := run(t, "--db", path, "show", ids[0])
	require.NoError(t, err)
	var doc models.SessionDocument
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "Handbook", doc.Title)
	assert.Equal(t, models.StatusEditing, doc.Status)
}

func TestActiveCommand(t *testing.T) {
	path, ids := seed(t)

	out, err := run(t, "--db", path, "active")
	require.NoError(t, err)
	assert.Equal(t, ids[1], strings.TrimSpace(out))

	_, err = run(t, "--db", path, "active", ids[0])
	require.NoError(t, err)
	out, _ = run(t, "--db", path, "active")
	assert.Equal(t, ids[0], strings.TrimSpace(out))

	_, err = run(t, "--db", path, "active", "missing")
	assert.ErrorIs(t, err, session.ErrDocumentNotFound)

	_, err = run(t, "--db", path, "active", "--clear")
	require.NoError(t, err)
	out, _ = run(t, "--db", path, "active")
	assert.Equal(t, "No active document.", strings.TrimSpace(out))
}

func TestDeleteActiveClearsIt(t *testing.T) {
	path, ids := seed(t)

	_, err := run(t, "--db", path, "delete", ids[1])
	require.NoError(t, err)

	out, _ := run(t, "--db", path, "active")
	assert.Equal(t, "No active document.", strings.TrimSpace(out))
	_, err = run(t, "--db", path, "delete", ids[1])
	assert.ErrorIs(t, err, session.ErrDocumentNotFound)
}

func TestResetRequiresConfirmation(t *testing.T) {
	path, _ := seed(t)

	_, err := run(t, "--db", path, "reset")
	assert.Error(t, err)

	out, err := run(t, "--db", path, "reset", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed 2 documents")

	out, err = run(t, "--db", path, "list")
	require.NoError(t, err)
	assert.Equal(t, "No session documents.", strings.TrimSpace(out))

	out, err = run(t, "--db", path, "keys")
	require.NoError(t, err)
	assert.Equal(t, session.StorageKey, strings.TrimSpace(out))
}
