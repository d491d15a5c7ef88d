package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"docugen/internal/api"
	"docugen/internal/events"
	"docugen/internal/github"
	"docugen/internal/logging"
	"docugen/internal/models"
	"docugen/internal/session"
)

// BackendClient is the subset of the docugen REST API the workflow drives.
type BackendClient interface {
	CreateProjectFromGitHub(ctx context.Context, req models.CreateGitHubProjectRequest) (*models.Project, error)
	ListTemplates(ctx context.Context) ([]models.DocumentType, error)
	GetTemplate(ctx context.Context, id string) (*models.DocumentTypeWithSections, error)
	CreateDocument(ctx context.Context, req models.CreateDocumentRequest) (*models.Document, error)
	GetDocument(ctx context.Context, id string) (*models.DocumentWithSections, error)
	UpdateDocument(ctx context.Context, id string, req models.UpdateDocumentRequest) (*models.Document, error)
	DeleteDocument(ctx context.Context, id string) error
	GetSuggestions(ctx context.Context, id string) ([]models.SectionSuggestion, error)
	ListSectionLibrary(ctx context.Context, templateID string) ([]models.LibrarySection, error)
	AddSection(ctx context.Context, documentID string, req models.CreateSectionRequest) (*models.DocumentSection, error)
	UpdateSection(ctx context.Context, documentID, sectionID string, req models.UpdateSectionRequest) (*models.DocumentSection, error)
	DeleteSection(ctx context.Context, documentID, sectionID string) error
	ReorderSections(ctx context.Context, documentID string, req models.ReorderSectionsRequest) error
	UpdateSectionContent(ctx context.Context, documentID, sectionID, content string) (*models.DocumentSection, error)
	GenerateDocument(ctx context.Context, documentID string) (*models.GenerationResult, error)
	RegenerateSection(ctx context.Context, documentID, sectionID string) (*models.RegeneratedSection, error)
	ExportURL(documentID string, format api.ExportFormat) (string, error)
}

var _ BackendClient = (*api.Client)(nil)

const maxConcurrentSectionAdds = 4

var (
	ErrNoIncludedSections = errors.New("select at least one section to generate")
	ErrSectionOrder       = errors.New("section order must list every section exactly once")
)

// AddSectionInput names either a library section or a custom one.
type AddSectionInput struct {
	LibrarySectionID string `json:"librarySectionId"`
	Title            string `json:"title"`
	Description      string `json:"description"`
}

// WorkflowService reconciles session documents with the backend. Steps that
// need a backend id call the backend first; plan edits apply locally first
// and are undone when the backend rejects them.
type WorkflowService struct {
	store   *session.Store
	backend BackendClient
	log     *logging.Logger
	now     func() time.Time
	ctx     context.Context
}

func NewWorkflowService(store *session.Store, backend BackendClient, log *logging.Logger) *WorkflowService {
	if log == nil {
		log = logging.Nop()
	}
	return &WorkflowService{
		store:   store,
		backend: backend,
		log:     log,
		now:     time.Now,
		ctx:     context.Background(),
	}
}

func (w *WorkflowService) Startup(ctx context.Context) {
	w.ctx = ctx
}

// StartFromGitHub creates a backend project for the repository and a matching
// session document, which becomes the active one.
func (w *WorkflowService) StartFromGitHub(githubURL string) (*models.SessionDocument, error) {
	githubURL = strings.TrimSpace(githubURL)
	if !github.ValidateURL(githubURL) {
		return nil, fmt.Errorf("service: start from %q: %w", githubURL, github.ErrInvalidURL)
	}

	project, err := w.backend.CreateProjectFromGitHub(w.ctx, models.CreateGitHubProjectRequest{
		GithubURL: githubURL,
		Name:      github.ExtractRepoName(githubURL, github.UntitledProject),
	})
	if err != nil {
		events.EmitNotice(w.ctx, events.NewError("Failed to create project: "+err.Error()))
		return nil, fmt.Errorf("service: create project for %q: %w", githubURL, err)
	}

	doc, err := w.store.CreateDocument(models.CreateDocumentInput{
		ProjectID: project.ID,
		GithubURL: githubURL,
		Status:    models.StatusAnalyzing,
	})
	if err != nil {
		return nil, fmt.Errorf("service: create session document: %w", err)
	}
	if err := w.store.SetActiveDocument(doc.ID); err != nil {
		return nil, fmt.Errorf("service: activate %q: %w", doc.ID, err)
	}

	w.log.Info("project created", "project", project.ID, "document", doc.ID)
	events.EmitNotice(events.WithDocument(w.ctx, doc.ID), events.NewSuccess("Project created! Analyzing repository..."))
	return &doc, nil
}

func (w *WorkflowService) ListTemplates() ([]models.DocumentType, error) {
	list, err := w.backend.ListTemplates(w.ctx)
	if err != nil {
		return nil, fmt.Errorf("service: list templates: %w", err)
	}
	return list, nil
}

// SelectTemplate creates the backend document for a predefined template and
// marks the session document ready. It returns the backend document.
func (w *WorkflowService) SelectTemplate(documentID, templateID string) (*models.Document, error) {
	doc, err := w.document(documentID)
	if err != nil {
		return nil, err
	}
	if doc.ProjectID == "" {
		return nil, fmt.Errorf("service: select template for %q: document has no project", documentID)
	}
	if strings.TrimSpace(templateID) == "" {
		return nil, errors.New("template id is required")
	}

	ctx := events.WithDocument(w.ctx, documentID)
	tmpl, err := w.backend.GetTemplate(ctx, templateID)
	if err != nil {
		return nil, fmt.Errorf("service: get template %q: %w", templateID, err)
	}
	name := tmpl.Name
	if name == "" {
		name = "Documentation"
	}

	created, err := w.backend.CreateDocument(ctx, models.CreateDocumentRequest{
		ProjectID:      doc.ProjectID,
		DocumentTypeID: templateID,
		Title:          fmt.Sprintf("%s - %s", name, w.now().Format("2006-01-02")),
	})
	if err != nil {
		events.EmitNotice(ctx, events.NewError("Failed to create document: "+err.Error()))
		return nil, fmt.Errorf("service: create backend document: %w", err)
	}

	typeID := templateID
	if created.DocumentTypeID != nil && *created.DocumentTypeID != "" {
		typeID = *created.DocumentTypeID
	}
	ready := models.StatusReady
	title := created.Title
	if err := w.store.UpdateDocument(documentID, models.DocumentPatch{
		TemplateID:   &typeID,
		TemplateName: &name,
		Title:        &title,
		Status:       &ready,
	}); err != nil {
		return nil, fmt.Errorf("service: update session document %q: %w", documentID, err)
	}

	events.EmitNotice(ctx, events.NewSuccess("Template selected! Let's configure sections."))
	return created, nil
}

// LoadSections fills the session document with the backend document's
// sections. A backend document without sections is seeded from the backend's
// suggestions first.
func (w *WorkflowService) LoadSections(documentID, backendDocumentID string) ([]models.SessionSection, error) {
	if _, err := w.document(documentID); err != nil {
		return nil, err
	}
	ctx := events.WithDocument(w.ctx, documentID)

	remote, err := w.backend.GetDocument(ctx, backendDocumentID)
	if err != nil {
		return nil, fmt.Errorf("service: get backend document %q: %w", backendDocumentID, err)
	}

	if len(remote.Sections) == 0 {
		suggestions, err := w.backend.GetSuggestions(ctx, backendDocumentID)
		if err != nil {
			return nil, fmt.Errorf("service: get suggestions for %q: %w", backendDocumentID, err)
		}
		// Each suggestion carries its own display order, so they can be added
		// in any order.
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(maxConcurrentSectionAdds)
		for i, sg := range suggestions {
			req := models.CreateSectionRequest{DisplayOrder: i + 1}
			if sg.SectionID != nil && *sg.SectionID != "" {
				req.SectionID = *sg.SectionID
			} else {
				req.CustomTitle = sg.Name
				req.CustomDescription = sg.Description
			}
			name := sg.Name
			g.Go(func() error {
				if _, err := w.backend.AddSection(gctx, backendDocumentID, req); err != nil {
					return fmt.Errorf("service: add suggested section %q: %w", name, err)
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		if remote, err = w.backend.GetDocument(ctx, backendDocumentID); err != nil {
			return nil, fmt.Errorf("service: refetch backend document %q: %w", backendDocumentID, err)
		}
	}

	sections := make([]models.SessionSection, 0, len(remote.Sections))
	for _, rs := range remote.Sections {
		sec := models.SessionSection{
			ID:           rs.ID,
			Name:         rs.Title,
			Description:  rs.Description,
			IsIncluded:   rs.IsIncluded,
			DisplayOrder: rs.DisplayOrder,
		}
		if rs.Content != nil {
			sec.Content = *rs.Content
		}
		sections = append(sections, sec)
	}
	if err := w.store.UpdateSections(documentID, sections); err != nil {
		return nil, fmt.Errorf("service: store sections of %q: %w", documentID, err)
	}

	doc, _ := w.store.GetDocument(documentID)
	return doc.Sections, nil
}

// ListSectionLibrary lists the reusable sections a plan can be extended with.
func (w *WorkflowService) ListSectionLibrary(templateID string) ([]models.LibrarySection, error) {
	list, err := w.backend.ListSectionLibrary(w.ctx, templateID)
	if err != nil {
		return nil, fmt.Errorf("service: list section library: %w", err)
	}
	return list, nil
}

// ToggleSection includes or excludes a section locally, then on the backend.
// A backend failure restores the previous value.
func (w *WorkflowService) ToggleSection(documentID, backendDocumentID, sectionID string, included bool) error {
	prev, err := w.section(documentID, sectionID)
	if err != nil {
		return err
	}
	if err := w.store.UpdateSection(documentID, sectionID, models.SectionPatch{IsIncluded: &included}); err != nil {
		return fmt.Errorf("service: store section %q: %w", sectionID, err)
	}

	ctx := events.WithDocument(w.ctx, documentID)
	if _, err := w.backend.UpdateSection(ctx, backendDocumentID, sectionID, models.UpdateSectionRequest{IsIncluded: &included}); err != nil {
		old := prev.IsIncluded
		if rerr := w.store.UpdateSection(documentID, sectionID, models.SectionPatch{IsIncluded: &old}); rerr != nil {
			w.log.Error("restore section inclusion", "section", sectionID, "err", rerr)
		}
		events.EmitNotice(ctx, events.NewError("Failed to update section: "+err.Error()))
		return fmt.Errorf("service: update section %q: %w", sectionID, err)
	}
	return nil
}

// ReorderSections puts the sections in the order of orderedIDs, numbering
// them from 1 as the backend does. orderedIDs must be a permutation of the
// document's section ids.
func (w *WorkflowService) ReorderSections(documentID, backendDocumentID string, orderedIDs []string) error {
	doc, err := w.document(documentID)
	if err != nil {
		return err
	}
	byID := make(map[string]models.SessionSection, len(doc.Sections))
	for _, sec := range doc.Sections {
		byID[sec.ID] = sec
	}
	if len(orderedIDs) != len(byID) {
		return fmt.Errorf("service: reorder %q: %w", documentID, ErrSectionOrder)
	}
	reordered := make([]models.SessionSection, 0, len(orderedIDs))
	orders := make([]models.SectionOrder, 0, len(orderedIDs))
	for i, id := range orderedIDs {
		sec, ok := byID[id]
		if !ok {
			return fmt.Errorf("service: reorder %q: %w", documentID, ErrSectionOrder)
		}
		delete(byID, id)
		sec.DisplayOrder = i + 1
		reordered = append(reordered, sec)
		orders = append(orders, models.SectionOrder{ID: id, DisplayOrder: i + 1})
	}

	if err := w.store.UpdateSections(documentID, reordered); err != nil {
		return fmt.Errorf("service: store section order of %q: %w", documentID, err)
	}
	ctx := events.WithDocument(w.ctx, documentID)
	if err := w.backend.ReorderSections(ctx, backendDocumentID, models.ReorderSectionsRequest{SectionOrders: orders}); err != nil {
		w.restoreSections(documentID, doc.Sections)
		events.EmitNotice(ctx, events.NewError("Failed to reorder sections: "+err.Error()))
		return fmt.Errorf("service: reorder sections of %q: %w", backendDocumentID, err)
	}
	return nil
}

// AddSection adds a library or custom section to the end of the plan. The
// backend assigns the id, so it is called first.
func (w *WorkflowService) AddSection(documentID, backendDocumentID string, input AddSectionInput) (*models.SessionSection, error) {
	doc, err := w.document(documentID)
	if err != nil {
		return nil, err
	}
	libraryID := strings.TrimSpace(input.LibrarySectionID)
	title := strings.TrimSpace(input.Title)
	if libraryID == "" && title == "" {
		return nil, errors.New("section title is required")
	}

	req := models.CreateSectionRequest{DisplayOrder: len(doc.Sections) + 1}
	if libraryID != "" {
		req.SectionID = libraryID
	} else {
		req.CustomTitle = title
		req.CustomDescription = strings.TrimSpace(input.Description)
	}

	ctx := events.WithDocument(w.ctx, documentID)
	created, err := w.backend.AddSection(ctx, backendDocumentID, req)
	if err != nil {
		events.EmitNotice(ctx, events.NewError("Failed to add section: "+err.Error()))
		return nil, fmt.Errorf("service: add section to %q: %w", backendDocumentID, err)
	}
	if created.ID == "" {
		return nil, fmt.Errorf("service: add section to %q: backend returned no section id", backendDocumentID)
	}

	sec := models.SessionSection{
		ID:           created.ID,
		Name:         created.Title,
		Description:  created.Description,
		IsIncluded:   created.IsIncluded,
		DisplayOrder: created.DisplayOrder,
	}
	if sec.Name == "" {
		sec.Name = title
	}
	if sec.Description == "" {
		sec.Description = req.CustomDescription
	}
	if created.Content != nil {
		sec.Content = *created.Content
	}

	current, err := w.document(documentID)
	if err != nil {
		return nil, err
	}
	sections := make([]models.SessionSection, 0, len(current.Sections)+1)
	sections = append(sections, current.Sections...)
	if err := w.store.UpdateSections(documentID, append(sections, sec)); err != nil {
		return nil, fmt.Errorf("service: store added section %q: %w", sec.ID, err)
	}
	events.EmitNotice(ctx, events.NewSuccess("Section added"))
	return w.section(documentID, sec.ID)
}

// RemoveSection drops a section locally, then on the backend. A section the
// backend no longer has counts as removed; any other failure restores it.
func (w *WorkflowService) RemoveSection(documentID, backendDocumentID, sectionID string) error {
	doc, err := w.document(documentID)
	if err != nil {
		return err
	}
	if _, err := w.section(documentID, sectionID); err != nil {
		return err
	}
	if err := w.store.RemoveSection(documentID, sectionID); err != nil {
		return fmt.Errorf("service: remove section %q: %w", sectionID, err)
	}

	ctx := events.WithDocument(w.ctx, documentID)
	if err := w.backend.DeleteSection(ctx, backendDocumentID, sectionID); err != nil && !api.IsNotFound(err) {
		w.restoreSections(documentID, doc.Sections)
		events.EmitNotice(ctx, events.NewError("Failed to remove section: "+err.Error()))
		return fmt.Errorf("service: delete section %q: %w", sectionID, err)
	}
	return nil
}

// ApproveSections marks the backend document's plan approved. At least one
// section must be included.
func (w *WorkflowService) ApproveSections(documentID, backendDocumentID string) error {
	doc, err := w.document(documentID)
	if err != nil {
		return err
	}
	if len(includedSections(doc)) == 0 {
		return ErrNoIncludedSections
	}

	ctx := events.WithDocument(w.ctx, documentID)
	status := models.BackendStatusSectionsApproved
	if _, err := w.backend.UpdateDocument(ctx, backendDocumentID, models.UpdateDocumentRequest{Status: &status}); err != nil {
		events.EmitNotice(ctx, events.NewError("Failed to approve sections: "+err.Error()))
		return fmt.Errorf("service: approve sections of %q: %w", backendDocumentID, err)
	}
	events.EmitNotice(ctx, events.NewSuccess("Sections approved! Starting generation..."))
	return nil
}

// DiscardDocument deletes the backend document, when there is one, and then
// the session document.
func (w *WorkflowService) DiscardDocument(documentID, backendDocumentID string) error {
	if _, err := w.document(documentID); err != nil {
		return err
	}
	if backendDocumentID != "" {
		ctx := events.WithDocument(w.ctx, documentID)
		if err := w.backend.DeleteDocument(ctx, backendDocumentID); err != nil && !api.IsNotFound(err) {
			return fmt.Errorf("service: delete backend document %q: %w", backendDocumentID, err)
		}
	}
	if err := w.store.DeleteDocument(documentID); err != nil {
		return fmt.Errorf("service: delete session document %q: %w", documentID, err)
	}
	return nil
}

// Generate runs backend generation for the included sections. While it runs
// the document is generating and each included section is flagged; on
// failure the document returns to ready.
func (w *WorkflowService) Generate(documentID, backendDocumentID string) (*models.GenerationResult, error) {
	doc, err := w.document(documentID)
	if err != nil {
		return nil, err
	}
	included := includedSections(doc)
	if len(included) == 0 {
		return nil, ErrNoIncludedSections
	}
	ctx := events.WithDocument(w.ctx, documentID)

	if err := w.setStatus(documentID, models.StatusGenerating); err != nil {
		return nil, err
	}
	if err := w.flagSections(documentID, included, true); err != nil {
		return nil, err
	}

	result, err := w.backend.GenerateDocument(ctx, backendDocumentID)
	if err != nil {
		w.rollbackGeneration(documentID, included)
		events.EmitNotice(ctx, events.NewError("Failed to generate documentation: "+err.Error()))
		return nil, fmt.Errorf("service: generate %q: %w", backendDocumentID, err)
	}

	remote, err := w.backend.GetDocument(ctx, backendDocumentID)
	if err != nil {
		w.rollbackGeneration(documentID, included)
		return nil, fmt.Errorf("service: fetch generated document %q: %w", backendDocumentID, err)
	}
	content := make(map[string]string, len(remote.Sections))
	for _, rs := range remote.Sections {
		if rs.Content != nil {
			content[rs.ID] = *rs.Content
		}
	}

	off := false
	for _, sec := range included {
		patch := models.SectionPatch{IsGenerating: &off}
		if c, ok := content[sec.ID]; ok {
			patch.Content = &c
		}
		if err := w.store.UpdateSection(documentID, sec.ID, patch); err != nil {
			return nil, fmt.Errorf("service: store generated section %q: %w", sec.ID, err)
		}
	}
	if err := w.setStatus(documentID, models.StatusCompleted); err != nil {
		return nil, err
	}

	for _, r := range result.Results {
		if !r.Success {
			events.EmitNotice(ctx, events.NewWarn(fmt.Sprintf("Section %q failed: %s", r.Title, r.Error)))
		}
	}
	events.EmitNotice(ctx, events.NewSuccess("Documentation generated successfully!"))
	return result, nil
}

// RegenerateSection regenerates one section and stores the new content.
func (w *WorkflowService) RegenerateSection(documentID, backendDocumentID, sectionID string) (*models.SessionSection, error) {
	if _, err := w.section(documentID, sectionID); err != nil {
		return nil, err
	}
	ctx := events.WithDocument(w.ctx, documentID)

	on, off := true, false
	if err := w.store.UpdateSection(documentID, sectionID, models.SectionPatch{IsGenerating: &on}); err != nil {
		return nil, fmt.Errorf("service: flag section %q: %w", sectionID, err)
	}

	out, err := w.backend.RegenerateSection(ctx, backendDocumentID, sectionID)
	if err != nil {
		if rerr := w.store.UpdateSection(documentID, sectionID, models.SectionPatch{IsGenerating: &off}); rerr != nil {
			w.log.Error("clear generating flag", "section", sectionID, "err", rerr)
		}
		return nil, fmt.Errorf("service: regenerate section %q: %w", sectionID, err)
	}

	content := out.Content
	if err := w.store.UpdateSection(documentID, sectionID, models.SectionPatch{Content: &content, IsGenerating: &off}); err != nil {
		return nil, fmt.Errorf("service: store regenerated section %q: %w", sectionID, err)
	}
	return w.section(documentID, sectionID)
}

// SaveSectionContent applies edited content locally, then persists it to the
// backend. A backend failure restores the previous content.
func (w *WorkflowService) SaveSectionContent(documentID, backendDocumentID, sectionID, content string) error {
	prev, err := w.section(documentID, sectionID)
	if err != nil {
		return err
	}
	if err := w.store.UpdateSection(documentID, sectionID, models.SectionPatch{Content: &content}); err != nil {
		return fmt.Errorf("service: store section content %q: %w", sectionID, err)
	}

	ctx := events.WithDocument(w.ctx, documentID)
	if _, err := w.backend.UpdateSectionContent(ctx, backendDocumentID, sectionID, content); err != nil {
		old := prev.Content
		if rerr := w.store.UpdateSection(documentID, sectionID, models.SectionPatch{Content: &old}); rerr != nil {
			w.log.Error("restore section content", "section", sectionID, "err", rerr)
		}
		events.EmitNotice(ctx, events.NewError("Failed to save section: "+err.Error()))
		return fmt.Errorf("service: save section content %q: %w", sectionID, err)
	}
	return nil
}

func (w *WorkflowService) OpenEditor(documentID string) error {
	if _, err := w.document(documentID); err != nil {
		return err
	}
	return w.setStatus(documentID, models.StatusEditing)
}

func (w *WorkflowService) Complete(documentID string) error {
	if _, err := w.document(documentID); err != nil {
		return err
	}
	return w.setStatus(documentID, models.StatusCompleted)
}

// ExportURL returns the download link for a backend document in the given
// format (markdown, docx or pdf).
func (w *WorkflowService) ExportURL(backendDocumentID, format string) (string, error) {
	u, err := w.backend.ExportURL(backendDocumentID, api.ExportFormat(format))
	if err != nil {
		return "", fmt.Errorf("service: export %q: %w", backendDocumentID, err)
	}
	return u, nil
}

func (w *WorkflowService) document(id string) (models.SessionDocument, error) {
	doc, ok := w.store.GetDocument(id)
	if !ok {
		return models.SessionDocument{}, fmt.Errorf("service: session document %q: %w", id, session.ErrDocumentNotFound)
	}
	return doc, nil
}

func (w *WorkflowService) section(documentID, sectionID string) (*models.SessionSection, error) {
	doc, err := w.document(documentID)
	if err != nil {
		return nil, err
	}
	for _, sec := range doc.Sections {
		if sec.ID == sectionID {
			return &sec, nil
		}
	}
	return nil, fmt.Errorf("service: section %q not found in %q", sectionID, documentID)
}

func (w *WorkflowService) setStatus(documentID string, status models.DocumentStatus) error {
	if err := w.store.UpdateDocument(documentID, models.DocumentPatch{Status: &status}); err != nil {
		return fmt.Errorf("service: set %q %s: %w", documentID, status, err)
	}
	return nil
}

func (w *WorkflowService) flagSections(documentID string, sections []models.SessionSection, generating bool) error {
	for _, sec := range sections {
		if err := w.store.UpdateSection(documentID, sec.ID, models.SectionPatch{IsGenerating: &generating}); err != nil {
			return fmt.Errorf("service: flag section %q: %w", sec.ID, err)
		}
	}
	return nil
}

func (w *WorkflowService) restoreSections(documentID string, sections []models.SessionSection) {
	if err := w.store.UpdateSections(documentID, sections); err != nil {
		w.log.Error("restore sections", "document", documentID, "err", err)
	}
}

func (w *WorkflowService) rollbackGeneration(documentID string, sections []models.SessionSection) {
	if err := w.flagSections(documentID, sections, false); err != nil {
		w.log.Error("clear generating flags", "document", documentID, "err", err)
	}
	if err := w.setStatus(documentID, models.StatusReady); err != nil {
		w.log.Error("restore ready status", "document", documentID, "err", err)
	}
}
