package session

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"docugen/internal/database"
	"docugen/internal/models"
	"docugen/internal/repositories"
	"docugen/internal/storage"
)

func TestRoundTripDropsTemplateFileOnly(t *testing.T) {
	kv := storage.NewMemory()
	s := newTestStore(t, kv)

	withFile, err := s.CreateDocument(models.CreateDocumentInput{
		GithubURL:    "https://github.com/acme/widget",
		TemplateFile: &models.TemplateFile{Name: "template.docx", Data: []byte{1, 2, 3}},
		TemplateName: "Uploaded",
	})
	require.NoError(t, err)
	plain, err := s.CreateDocument(models.CreateDocumentInput{
		ProjectID:    "proj-7",
		GithubURL:    "https://github.com/acme/other.git",
		TemplateID:   "tmpl-2",
		TemplateName: "Runbook",
	})
	require.NoError(t, err)
	_, err = s.AddSection(plain.ID, models.NewSection{Name: "Intro", Description: "Start", IsIncluded: true, Content: "Hello", IsGenerating: true})
	require.NoError(t, err)
	require.NoError(t, s.SetActiveDocument(withFile.ID))

	original := s.Documents()

	reloaded := newTestStore(t, kv)
	got := reloaded.Documents()

	require.Len(t, got, len(original))
	for i := range original {
		want := original[i]
		want.TemplateFile = nil
		assert.Equal(t, want, got[i])
	}
	assert.Nil(t, got[0].TemplateFile)
	assert.Equal(t, withFile.ID, reloaded.ActiveDocumentID())
}

func TestSerializedLayout(t *testing.T) {
	kv := storage.NewMemory()
	s := newTestStore(t, kv)
	doc, _ := s.CreateDocument(models.CreateDocumentInput{
		GithubURL:    "https://github.com/acme/widget",
		TemplateFile: &models.TemplateFile{Name: "t.md"},
	})
	_, _ = s.AddSection(doc.ID, models.NewSection{Name: "Intro", IsIncluded: true})

	raw, ok, err := kv.GetItem(StorageKey)
	require.NoError(t, err)
	require.True(t, ok)

	parsed := gjson.Parse(raw)
	require.True(t, parsed.IsArray())
	first := parsed.Array()[0]
	assert.Equal(t, doc.ID, first.Get("id").String())
	assert.Equal(t, "https://github.com/acme/widget", first.Get("githubUrl").String())
	assert.Equal(t, "analyzing", first.Get("status").String())
	assert.False(t, first.Get("templateFile").Exists())
	assert.True(t, first.Get("createdAt").Exists())
	assert.Equal(t, "Intro", first.Get("sections.0.name").String())
	assert.True(t, first.Get("sections.0.isIncluded").Bool())
	assert.Equal(t, int64(0), first.Get("sections.0.displayOrder").Int())
}

func TestLoadMalformedDataStartsEmpty(t *testing.T) {
	for _, raw := range []string{"{not json", `{"id":"x"}`, `"text"`, `[{"id": 5}]`, ""} {
		kv := storage.NewMemory()
		require.NoError(t, kv.SetItem(StorageKey, raw))

		s, err := New(kv)
		require.NoError(t, err, raw)
		assert.Empty(t, s.Documents(), raw)
	}
}

func TestLoadNullIsEmpty(t *testing.T) {
	kv := storage.NewMemory()
	require.NoError(t, kv.SetItem(StorageKey, "null"))

	s, err := New(kv)
	require.NoError(t, err)
	assert.Empty(t, s.Documents())
}

func TestLoadSkipsDuplicateAndMissingIDs(t *testing.T) {
	kv := storage.NewMemory()
	require.NoError(t, kv.SetItem(StorageKey, `[
		{"id":"a","githubUrl":"https://github.com/x/a","title":"a","status":"ready","createdAt":"2026-01-01T00:00:00Z","updatedAt":"2026-01-01T00:00:00Z"},
		{"id":"","githubUrl":"https://github.com/x/b","title":"b","status":"ready"},
		{"id":"a","githubUrl":"https://github.com/x/c","title":"c","status":"ready"}
	]`))

	s, err := New(kv)
	require.NoError(t, err)
	docs := s.Documents()
	require.Len(t, docs, 1)
	assert.Equal(t, "a", docs[0].Title)
	assert.NotNil(t, docs[0].Sections)
}

func TestLoadDropsDanglingActiveID(t *testing.T) {
	kv := storage.NewMemory()
	require.NoError(t, kv.SetItem(StorageKey, `[]`))
	require.NoError(t, kv.SetItem(ActiveStorageKey, "gone"))

	s, err := New(kv)
	require.NoError(t, err)
	assert.Equal(t, "", s.ActiveDocumentID())
}

func TestLoadEmptyActiveValueIsNoActive(t *testing.T) {
	kv := storage.NewMemory()
	require.NoError(t, kv.SetItem(ActiveStorageKey, ""))

	s, err := New(kv)
	require.NoError(t, err)
	assert.Equal(t, "", s.ActiveDocumentID())
}

type failingKV struct {
	*storage.Memory
	failGet    bool
	failSet    bool
	failRemove bool
}

var errMedium = errors.New("quota exceeded")

func (f *failingKV) GetItem(key string) (string, bool, error) {
	if f.failGet {
		return "", false, errMedium
	}
	return f.Memory.GetItem(key)
}

func (f *failingKV) SetItem(key, value string) error {
	if f.failSet {
		return errMedium
	}
	return f.Memory.SetItem(key, value)
}

func (f *failingKV) RemoveItem(key string) error {
	if f.failRemove {
		return errMedium
	}
	return f.Memory.RemoveItem(key)
}

func TestNewReportsUnreadableMedium(t *testing.T) {
	_, err := New(&failingKV{Memory: storage.NewMemory(), failGet: true})
	assert.ErrorIs(t, err, errMedium)
}

func TestFailedWriteLeavesMemoryUntouched(t *testing.T) {
	kv := &failingKV{Memory: storage.NewMemory()}
	s := newTestStore(t, kv)
	doc, err := s.CreateDocument(models.CreateDocumentInput{GithubURL: "https://github.com/a/b"})
	require.NoError(t, err)

	kv.failSet = true
	_, err = s.CreateDocument(models.CreateDocumentInput{GithubURL: "https://github.com/a/c"})
	assert.ErrorIs(t, err, errMedium)
	err = s.UpdateDocument(doc.ID, models.DocumentPatch{Title: ptr("nope")})
	assert.ErrorIs(t, err, errMedium)
	err = s.SetActiveDocument(doc.ID)
	assert.ErrorIs(t, err, errMedium)

	docs := s.Documents()
	require.Len(t, docs, 1)
	assert.Equal(t, "b", docs[0].Title)
	assert.Equal(t, "", s.ActiveDocumentID())
}

func TestFailedActiveWriteRestoresCollection(t *testing.T) {
	kv := &failingKV{Memory: storage.NewMemory()}
	s := newTestStore(t, kv)
	doc, err := s.CreateDocument(models.CreateDocumentInput{GithubURL: "https://github.com/a/b"})
	require.NoError(t, err)
	require.NoError(t, s.SetActiveDocument(doc.ID))

	kv.failRemove = true
	err = s.DeleteDocument(doc.ID)
	assert.ErrorIs(t, err, errMedium)

	_, inMemory := s.GetDocument(doc.ID)
	assert.True(t, inMemory)
	assert.Equal(t, doc.ID, s.ActiveDocumentID())

	kv.failRemove = false
	reloaded := newTestStore(t, kv)
	_, onDisk := reloaded.GetDocument(doc.ID)
	assert.True(t, onDisk)
	assert.Equal(t, doc.ID, reloaded.ActiveDocumentID())
}

func TestSQLiteBackedStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")

	open := func() (*Store, func()) {
		db, err := database.Init(database.Config{Path: path})
		require.NoError(t, err)
		s, err := New(storage.NewSQLite(repositories.NewStorageEntryRepository(db)))
		require.NoError(t, err)
		return s, func() { _ = database.Close(db) }
	}

	s, closeDB := open()
	doc, err := s.CreateDocument(models.CreateDocumentInput{GithubURL: "https://github.com/foo/bar"})
	require.NoError(t, err)
	_, err = s.AddSection(doc.ID, models.NewSection{Name: "Intro", IsIncluded: true})
	require.NoError(t, err)
	require.NoError(t, s.SetActiveDocument(doc.ID))
	closeDB()

	reopened, closeDB := open()
	defer closeDB()
	got, ok := reopened.GetDocument(doc.ID)
	require.True(t, ok)
	assert.Equal(t, "bar", got.Title)
	assert.Len(t, got.Sections, 1)
	assert.Equal(t, doc.ID, reopened.ActiveDocumentID())
}

func TestSnapshotJSONShape(t *testing.T) {
	s := newTestStore(t, storage.NewMemory())
	doc, _ := s.CreateDocument(models.CreateDocumentInput{GithubURL: "https://github.com/a/b"})
	require.NoError(t, s.SetActiveDocument(doc.ID))

	b, err := json.Marshal(s.Snapshot())
	require.NoError(t, err)
	assert.Equal(t, doc.ID, gjson.GetBytes(b, "activeDocumentId").String())
	assert.Equal(t, int64(1), gjson.GetBytes(b, "documents.#").Int())
}
