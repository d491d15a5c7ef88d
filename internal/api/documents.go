package api

import (
	"context"
	"net/http"
	"net/url"

	"docugen/internal/models"
)

func documentPath(id string) string {
	return "/documents/" + url.PathEscape(id)
}

func sectionPath(documentID, sectionID string) string {
	return documentPath(documentID) + "/sections/" + url.PathEscape(sectionID)
}

// ListDocuments lists backend documents, optionally restricted to a project.
func (c *Client) ListDocuments(ctx context.Context, projectID string) ([]models.Document, error) {
	var query map[string]string
	if projectID != "" {
		query = map[string]string{"project_id": projectID}
	}
	var out []models.Document
	if err := c.do(ctx, http.MethodGet, "/documents", nil, &out, query); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateDocument(ctx context.Context, req models.CreateDocumentRequest) (*models.Document, error) {
	var out models.Document
	if err := c.do(ctx, http.MethodPost, "/documents", req, &out, nil); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetDocument(ctx context.Context, id string) (*models.DocumentWithSections, error) {
	var out models.DocumentWithSections
	if err := c.do(ctx, http.MethodGet, documentPath(id), nil, &out, nil); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateDocument(ctx context.Context, id string, req models.UpdateDocumentRequest) (*models.Document, error) {
	var out models.Document
	if err := c.do(ctx, http.MethodPut, documentPath(id), req, &out, nil); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteDocument(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, documentPath(id), nil, nil, nil)
}

func (c *Client) GetSuggestions(ctx context.Context, id string) ([]models.SectionSuggestion, error) {
	var out []models.SectionSuggestion
	if err := c.do(ctx, http.MethodGet, documentPath(id)+"/suggestions", nil, &out, nil); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AddSection(ctx context.Context, documentID string, req models.CreateSectionRequest) (*models.DocumentSection, error) {
	var out models.DocumentSection
	if err := c.do(ctx, http.MethodPost, documentPath(documentID)+"/sections", req, &out, nil); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateSection(ctx context.Context, documentID, sectionID string, req models.UpdateSectionRequest) (*models.DocumentSection, error) {
	var out models.DocumentSection
	if err := c.do(ctx, http.MethodPut, sectionPath(documentID, sectionID), req, &out, nil); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteSection(ctx context.Context, documentID, sectionID string) error {
	return c.do(ctx, http.MethodDelete, sectionPath(documentID, sectionID), nil, nil, nil)
}

func (c *Client) ReorderSections(ctx context.Context, documentID string, req models.ReorderSectionsRequest) error {
	return c.do(ctx, http.MethodPost, documentPath(documentID)+"/sections/reorder", req, nil, nil)
}

// UpdateSectionContent replaces a section's content. The backend takes the
// content as a query parameter.
func (c *Client) UpdateSectionContent(ctx context.Context, documentID, sectionID, content string) (*models.DocumentSection, error) {
	var out models.DocumentSection
	query := map[string]string{"content": content}
	if err := c.do(ctx, http.MethodPut, sectionPath(documentID, sectionID)+"/content", nil, &out, query); err != nil {
		return nil, err
	}
	return &out, nil
}
