package unit_tests

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docugen/internal/events"
	"docugen/internal/models"
	"docugen/internal/services"
	"docugen/internal/session"
	"docugen/internal/storage"
	"docugen/internal/tests/mocks"
)

func TestSessionService_Startup_ForwardsSnapshots(t *testing.T) {
	rec := recordEvents(t)
	service := services.NewSessionService(newStore(t, nil), nil)
	service.Startup(context.Background())
	t.Cleanup(service.Shutdown)

	doc, err := service.CreateDocument(models.CreateDocumentInput{GithubURL: "https://github.com/acme/widget"})
	require.NoError(t, err)
	require.NoError(t, service.SetActiveDocument(doc.ID))

	got := rec.all()
	require.Len(t, got, 2)
	assert.Equal(t, events.SessionChanged, got[0].name)
	last := got[1].payload.(session.Snapshot)
	assert.Equal(t, doc.ID, last.ActiveDocumentID)
	require.Len(t, last.Documents, 1)
	assert.Equal(t, "widget", last.Documents[0].Title)
}

func TestSessionService_Shutdown_StopsForwarding(t *testing.T) {
	rec := recordEvents(t)
	service := services.NewSessionService(newStore(t, nil), nil)
	service.Startup(context.Background())
	service.Shutdown()

	_, err := service.CreateDocument(models.CreateDocumentInput{GithubURL: "https://github.com/acme/widget"})
	require.NoError(t, err)
	assert.Empty(t, rec.all())
}

func TestSessionService_CreateDocument_RequiresURL(t *testing.T) {
	service := services.NewSessionService(newStore(t, nil), nil)

	doc, err := service.CreateDocument(models.CreateDocumentInput{GithubURL: "  "})
	assert.Error(t, err)
	assert.Nil(t, doc)
	assert.Empty(t, service.ListDocuments())
}

func TestSessionService_GetDocument_NotFound(t *testing.T) {
	service := services.NewSessionService(newStore(t, nil), nil)

	doc, err := service.GetDocument("missing")
	assert.ErrorIs(t, err, session.ErrDocumentNotFound)
	assert.Nil(t, doc)
}

func TestSessionService_ActiveDocument(t *testing.T) {
	service := services.NewSessionService(newStore(t, nil), nil)
	assert.Nil(t, service.ActiveDocument())

	doc, err := service.CreateDocument(models.CreateDocumentInput{GithubURL: "https://github.com/acme/widget"})
	require.NoError(t, err)
	require.NoError(t, service.SetActiveDocument(doc.ID))
	require.NotNil(t, service.ActiveDocument())
	assert.Equal(t, doc.ID, service.ActiveDocument().ID)

	require.NoError(t, service.ClearActiveDocument())
	assert.Nil(t, service.ActiveDocument())
	assert.ErrorIs(t, service.SetActiveDocument("nope"), session.ErrDocumentNotFound)
}

func TestSessionService_AttachTemplateFile_KeptInMemoryOnly(t *testing.T) {
	kv := storage.NewMemory()
	service := services.NewSessionService(newStore(t, kv), nil)
	doc, err := service.CreateDocument(models.CreateDocumentInput{
		GithubURL:    "https://github.com/acme/widget",
		TemplateID:   "tmpl-1",
		TemplateName: "README",
	})
	require.NoError(t, err)

	require.NoError(t, service.AttachTemplateFile(doc.ID, "guide.docx", "application/msword", []byte("data")))

	got, err := service.GetDocument(doc.ID)
	require.NoError(t, err)
	require.NotNil(t, got.TemplateFile)
	assert.Equal(t, "guide.docx", got.TemplateFile.Name)
	assert.Equal(t, []byte("data"), got.TemplateFile.Data)
	assert.Equal(t, "", got.TemplateID)
	assert.Equal(t, "guide.docx", got.TemplateName)

	reloaded := services.NewSessionService(newStore(t, kv), nil)
	again, err := reloaded.GetDocument(doc.ID)
	require.NoError(t, err)
	assert.Nil(t, again.TemplateFile)
	assert.Equal(t, "guide.docx", again.TemplateName)
}

func TestSessionService_AttachTemplateFile_Validation(t *testing.T) {
	service := services.NewSessionService(newStore(t, nil), nil)

	assert.ErrorIs(t, service.AttachTemplateFile("missing", "a.md", "", nil), session.ErrDocumentNotFound)
	assert.Error(t, service.AttachTemplateFile("missing", "", "", nil))
}

func TestSessionService_DocumentsByStatus(t *testing.T) {
	service := services.NewSessionService(newStore(t, nil), nil)
	a, _ := service.CreateDocument(models.CreateDocumentInput{GithubURL: "https://github.com/acme/a"})
	_, _ = service.CreateDocument(models.CreateDocumentInput{GithubURL: "https://github.com/acme/b"})
	require.NoError(t, service.UpdateDocument(a.ID, models.DocumentPatch{Status: ptr(models.StatusReady)}))

	ready, err := service.DocumentsByStatus("ready")
	require.NoError(t, err)
	require.Len(t, ready, 1)
	assert.Equal(t, a.ID, ready[0].ID)

	analyzing, err := service.DocumentsByStatus("analyzing")
	require.NoError(t, err)
	assert.Len(t, analyzing, 1)

	_, err = service.DocumentsByStatus("archived")
	assert.ErrorIs(t, err, session.ErrInvalidStatus)
}

func TestSessionService_IncludedSections_SortedAndFiltered(t *testing.T) {
	service := services.NewSessionService(newStore(t, nil), nil)
	doc, _ := service.CreateDocument(models.CreateDocumentInput{GithubURL: "https://github.com/acme/a"})
	require.NoError(t, service.UpdateSections(doc.ID, []models.SessionSection{
		{ID: "c", Name: "Usage", IsIncluded: true, DisplayOrder: 3},
		{ID: "a", Name: "Intro", IsIncluded: true, DisplayOrder: 1},
		{ID: "b", Name: "Internals", IsIncluded: false, DisplayOrder: 2},
	}))

	got, err := service.IncludedSections(doc.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "c", got[1].ID)

	_, err = service.IncludedSections("missing")
	assert.ErrorIs(t, err, session.ErrDocumentNotFound)
}

func TestSessionService_SectionOperations(t *testing.T) {
	service := services.NewSessionService(newStore(t, nil), nil)
	doc, _ := service.CreateDocument(models.CreateDocumentInput{GithubURL: "https://github.com/acme/a"})

	_, err := service.AddSection(doc.ID, models.NewSection{Name: " "})
	assert.Error(t, err)

	first, err := service.AddSection(doc.ID, models.NewSection{Name: "Intro", IsIncluded: true})
	require.NoError(t, err)
	second, err := service.AddSection(doc.ID, models.NewSection{Name: "Usage", IsIncluded: true, DisplayOrder: 1})
	require.NoError(t, err)

	require.NoError(t, service.UpdateSection(doc.ID, first.ID, models.SectionPatch{Content: ptr("hello")}))
	require.NoError(t, service.ReorderSections(doc.ID, []string{second.ID, first.ID}))

	got, _ := service.GetDocument(doc.ID)
	require.Len(t, got.Sections, 2)
	assert.Equal(t, second.ID, got.Sections[0].ID)
	assert.Equal(t, 0, got.Sections[0].DisplayOrder)
	assert.Equal(t, "hello", got.Sections[1].Content)

	require.NoError(t, service.RemoveSection(doc.ID, second.ID))
	require.NoError(t, service.DeleteDocument(doc.ID))
	assert.Empty(t, service.ListDocuments())

	_, err = service.AddSection("missing", models.NewSection{Name: "x"})
	assert.ErrorIs(t, err, session.ErrDocumentNotFound)
}

func TestSessionService_StorageFailure(t *testing.T) {
	repo := &mocks.StorageEntryRepositoryMock{
		PutFunc: func(ctx context.Context, key, value string) error {
			return assert.AnError
		},
	}
	service := services.NewSessionService(newStore(t, storage.NewSQLite(repo)), nil)

	doc, err := service.CreateDocument(models.CreateDocumentInput{GithubURL: "https://github.com/acme/a"})
	assert.ErrorIs(t, err, assert.AnError)
	assert.Nil(t, doc)
	assert.Empty(t, service.ListDocuments())
}

func TestSessionStore_UnreadableStorage(t *testing.T) {
	repo := &mocks.StorageEntryRepositoryMock{
		GetFunc: func(ctx context.Context, key string) (*models.StorageEntry, error) {
			return nil, assert.AnError
		},
	}

	_, err := session.New(storage.NewSQLite(repo))
	assert.ErrorIs(t, err, assert.AnError)
}
