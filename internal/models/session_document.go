package models

import "time"

// DocumentStatus is the lifecycle stage of a session document.
// Transition legality is enforced by callers, not by the session store.
type DocumentStatus string

const (
	StatusAnalyzing  DocumentStatus = "analyzing"
	StatusReady      DocumentStatus = "ready"
	StatusGenerating DocumentStatus = "generating"
	StatusEditing    DocumentStatus = "editing"
	StatusCompleted  DocumentStatus = "completed"
)

// DocumentStatuses lists every legal status in workflow order.
var DocumentStatuses = []DocumentStatus{
	StatusAnalyzing,
	StatusReady,
	StatusGenerating,
	StatusEditing,
	StatusCompleted,
}

// Valid reports whether s is one of the known statuses.
func (s DocumentStatus) Valid() bool {
	for _, known := range DocumentStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// TemplateFile is an uploaded template held in memory only. It is never
// written to durable storage and is gone after a reload.
type TemplateFile struct {
	Name        string `json:"name"`
	ContentType string `json:"contentType,omitempty"`
	Data        []byte `json:"-"`
}

// SessionDocument is a client-local draft of a documentation job that has not
// yet been reconciled with the backend document record.
type SessionDocument struct {
	ID           string           `json:"id"`
	ProjectID    string           `json:"projectId,omitempty"`
	GithubURL    string           `json:"githubUrl"`
	TemplateFile *TemplateFile    `json:"-"`
	TemplateID   string           `json:"templateId,omitempty"`
	TemplateName string           `json:"templateName,omitempty"`
	Title        string           `json:"title"`
	Status       DocumentStatus   `json:"status"`
	Sections     []SessionSection `json:"sections"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

// SessionSection is one orderable unit of a session document.
type SessionSection struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	IsIncluded   bool   `json:"isIncluded"`
	DisplayOrder int    `json:"displayOrder"`
	Content      string `json:"content,omitempty"`
	IsGenerating bool   `json:"isGenerating,omitempty"`
}

// CreateDocumentInput carries the caller-supplied fields of a new document.
type CreateDocumentInput struct {
	ProjectID    string         `json:"projectId,omitempty"`
	GithubURL    string         `json:"githubUrl"`
	TemplateFile *TemplateFile  `json:"-"`
	TemplateID   string         `json:"templateId,omitempty"`
	TemplateName string         `json:"templateName,omitempty"`
	Status       DocumentStatus `json:"status,omitempty"`
}

// DocumentPatch holds the fields to merge into a document. Nil fields are
// left untouched. The id, repository URL and creation time are immutable.
type DocumentPatch struct {
	ProjectID    *string         `json:"projectId,omitempty"`
	TemplateFile *TemplateFile   `json:"-"`
	TemplateID   *string         `json:"templateId,omitempty"`
	TemplateName *string         `json:"templateName,omitempty"`
	Title        *string         `json:"title,omitempty"`
	Status       *DocumentStatus `json:"status,omitempty"`
}

// SectionPatch holds the fields to merge into a section. Nil fields are left untouched.
type SectionPatch struct {
	Name         *string `json:"name,omitempty"`
	Description  *string `json:"description,omitempty"`
	IsIncluded   *bool   `json:"isIncluded,omitempty"`
	DisplayOrder *int    `json:"displayOrder,omitempty"`
	Content      *string `json:"content,omitempty"`
	IsGenerating *bool   `json:"isGenerating,omitempty"`
}

// NewSection is a section without an id, as accepted by AddSection.
type NewSection struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	IsIncluded   bool   `json:"isIncluded"`
	DisplayOrder int    `json:"displayOrder"`
	Content      string `json:"content,omitempty"`
	IsGenerating bool   `json:"isGenerating,omitempty"`
}
