package mocks

import (
	"context"

	"docugen/internal/api"
	"docugen/internal/models"
)

type BackendClientMock struct {
	CreateProjectFromGitHubFunc func(ctx context.Context, req models.CreateGitHubProjectRequest) (*models.Project, error)
	ListTemplatesFunc           func(ctx context.Context) ([]models.DocumentType, error)
	GetTemplateFunc             func(ctx context.Context, id string) (*models.DocumentTypeWithSections, error)
	CreateDocumentFunc          func(ctx context.Context, req models.CreateDocumentRequest) (*models.Document, error)
	GetDocumentFunc             func(ctx context.Context, id string) (*models.DocumentWithSections, error)
	UpdateDocumentFunc          func(ctx context.Context, id string, req models.UpdateDocumentRequest) (*models.Document, error)
	DeleteDocumentFunc          func(ctx context.Context, id string) error
	GetSuggestionsFunc          func(ctx context.Context, id string) ([]models.SectionSuggestion, error)
	ListSectionLibraryFunc      func(ctx context.Context, templateID string) ([]models.LibrarySection, error)
	AddSectionFunc              func(ctx context.Context, documentID string, req models.CreateSectionRequest) (*models.DocumentSection, error)
	UpdateSectionFunc           func(ctx context.Context, documentID, sectionID string, req models.UpdateSectionRequest) (*models.DocumentSection, error)
	DeleteSectionFunc           func(ctx context.Context, documentID, sectionID string) error
	ReorderSectionsFunc         func(ctx context.Context, documentID string, req models.ReorderSectionsRequest) error
	UpdateSectionContentFunc    func(ctx context.Context, documentID, sectionID, content string) (*models.DocumentSection, error)
	GenerateDocumentFunc        func(ctx context.Context, documentID string) (*models.GenerationResult, error)
	RegenerateSectionFunc       func(ctx context.Context, documentID, sectionID string) (*models.RegeneratedSection, error)
	ExportURLFunc               func(documentID string, format api.ExportFormat) (string, error)
}

func (m *BackendClientMock) CreateProjectFromGitHub(ctx context.Context, req models.CreateGitHubProjectRequest) (*models.Project, error) {
	if m.CreateProjectFromGitHubFunc != nil {
		return m.CreateProjectFromGitHubFunc(ctx, req)
	}
	return &models.Project{ID: "proj-1", Name: req.Name}, nil
}

func (m *BackendClientMock) ListTemplates(ctx context.Context) ([]models.DocumentType, error) {
	if m.ListTemplatesFunc != nil {
		return m.ListTemplatesFunc(ctx)
	}
	return nil, nil
}

func (m *BackendClientMock) GetTemplate(ctx context.Context, id string) (*models.DocumentTypeWithSections, error) {
	if m.GetTemplateFunc != nil {
		return m.GetTemplateFunc(ctx, id)
	}
	return &models.DocumentTypeWithSections{DocumentType: models.DocumentType{ID: id, Name: "README"}}, nil
}

func (m *BackendClientMock) CreateDocument(ctx context.Context, req models.CreateDocumentRequest) (*models.Document, error) {
	if m.CreateDocumentFunc != nil {
		return m.CreateDocumentFunc(ctx, req)
	}
	typeID := req.DocumentTypeID
	return &models.Document{ID: "backend-doc-1", ProjectID: req.ProjectID, DocumentTypeID: &typeID, Title: req.Title, Status: "draft"}, nil
}

func (m *BackendClientMock) GetDocument(ctx context.Context, id string) (*models.DocumentWithSections, error) {
	if m.GetDocumentFunc != nil {
		return m.GetDocumentFunc(ctx, id)
	}
	return &models.DocumentWithSections{Document: models.Document{ID: id}}, nil
}

func (m *BackendClientMock) UpdateDocument(ctx context.Context, id string, req models.UpdateDocumentRequest) (*models.Document, error) {
	if m.UpdateDocumentFunc != nil {
		return m.UpdateDocumentFunc(ctx, id, req)
	}
	doc := &models.Document{ID: id}
	if req.Status != nil {
		doc.Status = *req.Status
	}
	return doc, nil
}

func (m *BackendClientMock) DeleteDocument(ctx context.Context, id string) error {
	if m.DeleteDocumentFunc != nil {
		return m.DeleteDocumentFunc(ctx, id)
	}
	return nil
}

func (m *BackendClientMock) ListSectionLibrary(ctx context.Context, templateID string) ([]models.LibrarySection, error) {
	if m.ListSectionLibraryFunc != nil {
		return m.ListSectionLibraryFunc(ctx, templateID)
	}
	return nil, nil
}

func (m *BackendClientMock) UpdateSection(ctx context.Context, documentID, sectionID string, req models.UpdateSectionRequest) (*models.DocumentSection, error) {
	if m.UpdateSectionFunc != nil {
		return m.UpdateSectionFunc(ctx, documentID, sectionID, req)
	}
	sec := &models.DocumentSection{ID: sectionID}
	if req.IsIncluded != nil {
		sec.IsIncluded = *req.IsIncluded
	}
	return sec, nil
}

func (m *BackendClientMock) DeleteSection(ctx context.Context, documentID, sectionID string) error {
	if m.DeleteSectionFunc != nil {
		return m.DeleteSectionFunc(ctx, documentID, sectionID)
	}
	return nil
}

func (m *BackendClientMock) ReorderSections(ctx context.Context, documentID string, req models.ReorderSectionsRequest) error {
	if m.ReorderSectionsFunc != nil {
		return m.ReorderSectionsFunc(ctx, documentID, req)
	}
	return nil
}

func (m *BackendClientMock) GetSuggestions(ctx context.Context, id string) ([]models.SectionSuggestion, error) {
	if m.GetSuggestionsFunc != nil {
		return m.GetSuggestionsFunc(ctx, id)
	}
	return nil, nil
}

func (m *BackendClientMock) AddSection(ctx context.Context, documentID string, req models.CreateSectionRequest) (*models.DocumentSection, error) {
	if m.AddSectionFunc != nil {
		return m.AddSectionFunc(ctx, documentID, req)
	}
	return &models.DocumentSection{DisplayOrder: req.DisplayOrder, IsIncluded: true}, nil
}

func (m *BackendClientMock) UpdateSectionContent(ctx context.Context, documentID, sectionID, content string) (*models.DocumentSection, error) {
	if m.UpdateSectionContentFunc != nil {
		return m.UpdateSectionContentFunc(ctx, documentID, sectionID, content)
	}
	return &models.DocumentSection{ID: sectionID, Content: &content}, nil
}

func (m *BackendClientMock) GenerateDocument(ctx context.Context, documentID string) (*models.GenerationResult, error) {
	if m.GenerateDocumentFunc != nil {
		return m.GenerateDocumentFunc(ctx, documentID)
	}
	return &models.GenerationResult{DocumentID: documentID, Status: "completed"}, nil
}

func (m *BackendClientMock) RegenerateSection(ctx context.Context, documentID, sectionID string) (*models.RegeneratedSection, error) {
	if m.RegenerateSectionFunc != nil {
		return m.RegenerateSectionFunc(ctx, documentID, sectionID)
	}
	return &models.RegeneratedSection{SectionID: sectionID}, nil
}

func (m *BackendClientMock) ExportURL(documentID string, format api.ExportFormat) (string, error) {
	if m.ExportURLFunc != nil {
		return m.ExportURLFunc(documentID, format)
	}
	return "http://localhost:8000/api/generation/documents/" + documentID + "/export?format=" + string(format), nil
}
