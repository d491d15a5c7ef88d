package api

import (
	"context"
	"net/http"

	"docugen/internal/models"
)

// ListSectionLibrary lists the reusable section definitions, restricted to
// those applicable to a template when templateID is set.
func (c *Client) ListSectionLibrary(ctx context.Context, templateID string) ([]models.LibrarySection, error) {
	var query map[string]string
	if templateID != "" {
		query = map[string]string{"doc_type": templateID}
	}
	var out []models.LibrarySection
	if err := c.do(ctx, http.MethodGet, "/sections", nil, &out, query); err != nil {
		return nil, err
	}
	return out, nil
}
