package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"docugen/internal/events"
	"docugen/internal/logging"
	"docugen/internal/models"
	"docugen/internal/session"
)

// SessionService exposes the session store to the frontend and forwards every
// change as a session:changed event.
type SessionService struct {
	store       *session.Store
	log         *logging.Logger
	ctx         context.Context
	unsubscribe func()
}

func NewSessionService(store *session.Store, log *logging.Logger) *SessionService {
	if log == nil {
		log = logging.Nop()
	}
	return &SessionService{store: store, log: log, ctx: context.Background()}
}

func (s *SessionService) Startup(ctx context.Context) {
	s.ctx = ctx
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
	s.unsubscribe = s.store.Subscribe(func(snap session.Snapshot) {
		events.EmitSessionChanged(ctx, snap)
	})
}

func (s *SessionService) Shutdown() {
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
}

func (s *SessionService) Snapshot() session.Snapshot {
	return s.store.Snapshot()
}

func (s *SessionService) ListDocuments() []models.SessionDocument {
	return s.store.Documents()
}

// ActiveDocument returns nil when no document is active.
func (s *SessionService) ActiveDocument() *models.SessionDocument {
	doc, ok := s.store.ActiveDocument()
	if !ok {
		return nil
	}
	return &doc
}

func (s *SessionService) GetDocument(id string) (*models.SessionDocument, error) {
	doc, ok := s.store.GetDocument(id)
	if !ok {
		return nil, fmt.Errorf("service: get session document %q: %w", id, session.ErrDocumentNotFound)
	}
	return &doc, nil
}

func (s *SessionService) CreateDocument(input models.CreateDocumentInput) (*models.SessionDocument, error) {
	if strings.TrimSpace(input.GithubURL) == "" {
		return nil, errors.New("github url is required")
	}
	doc, err := s.store.CreateDocument(input)
	if err != nil {
		return nil, fmt.Errorf("service: create session document: %w", err)
	}
	return &doc, nil
}

func (s *SessionService) UpdateDocument(id string, patch models.DocumentPatch) error {
	if err := s.store.UpdateDocument(id, patch); err != nil {
		return fmt.Errorf("service: update session document %q: %w", id, err)
	}
	return nil
}

func (s *SessionService) DeleteDocument(id string) error {
	if err := s.store.DeleteDocument(id); err != nil {
		return fmt.Errorf("service: delete session document %q: %w", id, err)
	}
	return nil
}

func (s *SessionService) SetActiveDocument(id string) error {
	if err := s.store.SetActiveDocument(id); err != nil {
		return fmt.Errorf("service: set active document %q: %w", id, err)
	}
	return nil
}

func (s *SessionService) ClearActiveDocument() error {
	if err := s.store.ClearActiveDocument(); err != nil {
		return fmt.Errorf("service: clear active document: %w", err)
	}
	return nil
}

func (s *SessionService) UpdateSections(documentID string, sections []models.SessionSection) error {
	if err := s.store.UpdateSections(documentID, sections); err != nil {
		return fmt.Errorf("service: update sections of %q: %w", documentID, err)
	}
	return nil
}

func (s *SessionService) UpdateSection(documentID, sectionID string, patch models.SectionPatch) error {
	if err := s.store.UpdateSection(documentID, sectionID, patch); err != nil {
		return fmt.Errorf("service: update section %q of %q: %w", sectionID, documentID, err)
	}
	return nil
}

func (s *SessionService) AddSection(documentID string, section models.NewSection) (*models.SessionSection, error) {
	if strings.TrimSpace(section.Name) == "" {
		return nil, errors.New("section name is required")
	}
	added, err := s.store.AddSection(documentID, section)
	if err != nil {
		return nil, fmt.Errorf("service: add section to %q: %w", documentID, err)
	}
	return &added, nil
}

func (s *SessionService) RemoveSection(documentID, sectionID string) error {
	if err := s.store.RemoveSection(documentID, sectionID); err != nil {
		return fmt.Errorf("service: remove section %q of %q: %w", sectionID, documentID, err)
	}
	return nil
}

func (s *SessionService) ReorderSections(documentID string, orderedIDs []string) error {
	if err := s.store.ReorderSections(documentID, orderedIDs); err != nil {
		return fmt.Errorf("service: reorder sections of %q: %w", documentID, err)
	}
	return nil
}

// AttachTemplateFile records an uploaded template on a document. The file
// lives only in memory and replaces any predefined template selection.
func (s *SessionService) AttachTemplateFile(documentID, name, contentType string, data []byte) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("template file name is required")
	}
	if _, ok := s.store.GetDocument(documentID); !ok {
		return fmt.Errorf("service: attach template to %q: %w", documentID, session.ErrDocumentNotFound)
	}
	file := &models.TemplateFile{Name: name, ContentType: contentType, Data: data}
	templateName := name
	patch := models.DocumentPatch{TemplateFile: file, TemplateName: &templateName}
	if err := s.store.UpdateDocument(documentID, patch); err != nil {
		return fmt.Errorf("service: attach template to %q: %w", documentID, err)
	}
	s.log.Debug("template file attached", "document", documentID, "file", name, "bytes", len(data))
	return nil
}

func (s *SessionService) DocumentsByStatus(status string) ([]models.SessionDocument, error) {
	st := models.DocumentStatus(status)
	if !st.Valid() {
		return nil, fmt.Errorf("service: documents by status %q: %w", status, session.ErrInvalidStatus)
	}
	var out []models.SessionDocument
	for _, doc := range s.store.Documents() {
		if doc.Status == st {
			out = append(out, doc)
		}
	}
	return out, nil
}

// IncludedSections returns the sections that take part in generation and
// export, ordered by display order.
func (s *SessionService) IncludedSections(documentID string) ([]models.SessionSection, error) {
	doc, ok := s.store.GetDocument(documentID)
	if !ok {
		return nil, fmt.Errorf("service: included sections of %q: %w", documentID, session.ErrDocumentNotFound)
	}
	return includedSections(doc), nil
}

func includedSections(doc models.SessionDocument) []models.SessionSection {
	out := make([]models.SessionSection, 0, len(doc.Sections))
	for _, sec := range doc.Sections {
		if sec.IsIncluded {
			out = append(out, sec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DisplayOrder < out[j].DisplayOrder
	})
	return out
}
