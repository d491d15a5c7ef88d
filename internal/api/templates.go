package api

import (
	"context"
	"net/http"
	"net/url"

	"docugen/internal/models"
)

func (c *Client) ListTemplates(ctx context.Context) ([]models.DocumentType, error) {
	var out []models.DocumentType
	if err := c.do(ctx, http.MethodGet, "/templates", nil, &out, nil); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetTemplate(ctx context.Context, id string) (*models.DocumentTypeWithSections, error) {
	var out models.DocumentTypeWithSections
	if err := c.do(ctx, http.MethodGet, "/templates/"+url.PathEscape(id), nil, &out, nil); err != nil {
		return nil, err
	}
	return &out, nil
}
