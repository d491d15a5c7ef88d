package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"docugen/internal/models"
)

type ExportFormat string

const (
	ExportMarkdown ExportFormat = "markdown"
	ExportDOCX     ExportFormat = "docx"
	ExportPDF      ExportFormat = "pdf"
)

func (f ExportFormat) Valid() bool {
	switch f {
	case ExportMarkdown, ExportDOCX, ExportPDF:
		return true
	}
	return false
}

func generationPath(documentID string) string {
	return "/generation/documents/" + url.PathEscape(documentID)
}

// GenerateDocument generates content for every included section.
func (c *Client) GenerateDocument(ctx context.Context, documentID string) (*models.GenerationResult, error) {
	var out models.GenerationResult
	if err := c.do(ctx, http.MethodPost, generationPath(documentID)+"/generate", nil, &out, nil); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RegenerateSection(ctx context.Context, documentID, sectionID string) (*models.RegeneratedSection, error) {
	var out models.RegeneratedSection
	path := generationPath(documentID) + "/sections/" + url.PathEscape(sectionID) + "/generate"
	if err := c.do(ctx, http.MethodPost, path, nil, &out, nil); err != nil {
		return nil, err
	}
	return &out, nil
}

// ExportURL returns the download link for a generated document.
func (c *Client) ExportURL(documentID string, format ExportFormat) (string, error) {
	if !format.Valid() {
		return "", fmt.Errorf("api: unsupported export format %q", format)
	}
	q := url.Values{"format": {string(format)}}
	return c.baseURL + "/api" + generationPath(documentID) + "/export?" + q.Encode(), nil
}
