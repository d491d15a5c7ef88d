package models

import "time"

// Project is a backend project record.
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	SourceType  string    `json:"source_type"`
	GithubURL   *string   `json:"github_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateGitHubProjectRequest creates a backend project from a repository URL.
type CreateGitHubProjectRequest struct {
	GithubURL   string `json:"github_url"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

// DocumentType is a predefined template offered by the backend.
type DocumentType struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	IsSystem    bool      `json:"is_system"`
	CreatedAt   time.Time `json:"created_at"`
}

// LibrarySection is a reusable section definition from the backend library.
type LibrarySection struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	DefaultOrder *int      `json:"default_order"`
	IsSystem     bool      `json:"is_system"`
	CreatedAt    time.Time `json:"created_at"`
}

// DocumentTypeWithSections is a template together with its default sections.
type DocumentTypeWithSections struct {
	DocumentType
	DefaultSections []LibrarySection `json:"default_sections"`
}

// BackendStatusSectionsApproved marks a backend document whose section plan
// was approved for generation.
const BackendStatusSectionsApproved = "sections_approved"

// Document is the backend document record.
type Document struct {
	ID             string    `json:"id"`
	ProjectID      string    `json:"project_id"`
	DocumentTypeID *string   `json:"document_type_id"`
	Title          string    `json:"title"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// DocumentSection is a backend section attached to a document.
type DocumentSection struct {
	ID                string  `json:"id"`
	SectionID         *string `json:"section_id"`
	CustomTitle       *string `json:"custom_title"`
	CustomDescription *string `json:"custom_description"`
	DisplayOrder      int     `json:"display_order"`
	IsIncluded        bool    `json:"is_included"`
	Title             string  `json:"title"`
	Description       string  `json:"description"`
	Content           *string `json:"content"`
}

// DocumentWithSections is a backend document with its sections.
type DocumentWithSections struct {
	Document
	Sections []DocumentSection `json:"sections"`
}

// SectionSuggestion is an AI-proposed section for a document.
type SectionSuggestion struct {
	SectionID      *string `json:"section_id"`
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	RelevanceScore float64 `json:"relevance_score"`
	Reason         string  `json:"reason"`
	IsCustom       bool    `json:"is_custom"`
}

type CreateDocumentRequest struct {
	ProjectID      string `json:"project_id"`
	DocumentTypeID string `json:"document_type_id,omitempty"`
	Title          string `json:"title"`
}

type UpdateDocumentRequest struct {
	Title  *string `json:"title,omitempty"`
	Status *string `json:"status,omitempty"`
}

type CreateSectionRequest struct {
	SectionID         string `json:"section_id,omitempty"`
	CustomTitle       string `json:"custom_title,omitempty"`
	CustomDescription string `json:"custom_description,omitempty"`
	DisplayOrder      int    `json:"display_order"`
}

type UpdateSectionRequest struct {
	CustomTitle       *string `json:"custom_title,omitempty"`
	CustomDescription *string `json:"custom_description,omitempty"`
	IsIncluded        *bool   `json:"is_included,omitempty"`
}

type SectionOrder struct {
	ID           string `json:"id"`
	DisplayOrder int    `json:"display_order"`
}

type ReorderSectionsRequest struct {
	SectionOrders []SectionOrder `json:"section_orders"`
}

// SectionGenerationResult reports the outcome for one section of a generation run.
type SectionGenerationResult struct {
	SectionID string `json:"section_id"`
	Title     string `json:"title"`
	Success   bool   `json:"success"`
	ContentID string `json:"content_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

// GenerationResult is the response of a whole-document generation run.
type GenerationResult struct {
	DocumentID string                    `json:"document_id"`
	Status     string                    `json:"status"`
	Results    []SectionGenerationResult `json:"results"`
}

// RegeneratedSection is the response of a single-section regeneration.
type RegeneratedSection struct {
	SectionID string `json:"section_id"`
	Title     string `json:"title"`
	ContentID string `json:"content_id"`
	Content   string `json:"content"`
}
