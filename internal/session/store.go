// Package session keeps the client-local drafts of documentation jobs and the
// currently active one, mirrored to a durable key/value medium after every
// mutation.
package session

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"docugen/internal/github"
	"docugen/internal/logging"
	"docugen/internal/models"
	"docugen/internal/storage"
)

const (
	StorageKey       = "docugen_session"
	ActiveStorageKey = StorageKey + "_active"
)

var (
	ErrDocumentNotFound = errors.New("session document not found")
	ErrInvalidStatus    = errors.New("invalid document status")
)

// Snapshot is an immutable copy of the store state handed to listeners.
type Snapshot struct {
	Documents        []models.SessionDocument `json:"documents"`
	ActiveDocumentID string                   `json:"activeDocumentId"`
}

type Listener func(Snapshot)

type Option func(*Store)

// WithClock replaces the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator replaces the id source. Generated ids that collide with an
// existing one are drawn again.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

func WithLogger(l *logging.Logger) Option {
	return func(s *Store) { s.log = l }
}

// Store owns the ordered collection of session documents. All operations
// are serialized; listeners run after the lock is released, in commit order.
// A snapshot older than one already delivered is dropped. Listeners may read
// the store but must not mutate it.
type Store struct {
	mu        sync.Mutex
	kv        storage.KeyValue
	documents []models.SessionDocument
	activeID  string

	now   func() time.Time
	newID func() string
	log   *logging.Logger

	listenersMu  sync.Mutex
	listeners    map[int]Listener
	nextListener int

	// seq is stamped under mu; delivered is guarded by deliverMu.
	seq       uint64
	deliverMu sync.Mutex
	delivered uint64
}

// New builds a store and rehydrates it from kv. Corrupt persisted data
// yields an empty collection; only a failing medium is reported.
func New(kv storage.KeyValue, opts ...Option) (*Store, error) {
	s := &Store{
		kv:        kv,
		documents: []models.SessionDocument{},
		now:       func() time.Time { return time.Now().UTC().Round(0) },
		newID:     uuid.NewString,
		log:       logging.Nop(),
		listeners: make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	raw, ok, err := s.kv.GetItem(StorageKey)
	if err != nil {
		return fmt.Errorf("read %s: %w", StorageKey, err)
	}
	if ok {
		docs, err := decodeDocuments(raw)
		if err != nil {
			s.log.Warn("discarding persisted session", "error", err)
		} else {
			s.documents = docs
		}
	}

	active, ok, err := s.kv.GetItem(ActiveStorageKey)
	if err != nil {
		return fmt.Errorf("read %s: %w", ActiveStorageKey, err)
	}
	if ok && active != "" {
		if s.indexOf(active) >= 0 {
			s.activeID = active
		} else {
			s.log.Warn("ignoring active document id with no document", "id", active)
		}
	}
	s.log.Debug("session loaded", "documents", len(s.documents), "active", s.activeID)
	return nil
}

// Subscribe registers fn for every committed change and returns a function
// that removes it.
func (s *Store) Subscribe(fn Listener) func() {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	id := s.nextListener
	s.nextListener++
	s.listeners[id] = fn
	return func() {
		s.listenersMu.Lock()
		defer s.listenersMu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *Store) notify(seq uint64, snap Snapshot) {
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()
	if seq <= s.delivered {
		return
	}
	s.delivered = seq

	s.listenersMu.Lock()
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]Listener, 0, len(ids))
	for _, id := range ids {
		fns = append(fns, s.listeners[id])
	}
	s.listenersMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		Documents:        cloneDocuments(s.documents),
		ActiveDocumentID: s.activeID,
	}
}

// Documents returns a copy of every document in creation order.
func (s *Store) Documents() []models.SessionDocument {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneDocuments(s.documents)
}

// ActiveDocumentID returns the active id, or "" when none is active.
func (s *Store) ActiveDocumentID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID
}

func (s *Store) ActiveDocument() (models.SessionDocument, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.activeID == "" {
		return models.SessionDocument{}, false
	}
	i := s.indexOf(s.activeID)
	if i < 0 {
		return models.SessionDocument{}, false
	}
	return cloneDocument(s.documents[i]), true
}

func (s *Store) GetDocument(id string) (models.SessionDocument, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return models.SessionDocument{}, false
	}
	return cloneDocument(s.documents[i]), true
}

// CreateDocument appends a new document. Status defaults to analyzing and
// the title to the template name, else the repository name.
func (s *Store) CreateDocument(input models.CreateDocumentInput) (models.SessionDocument, error) {
	s.mu.Lock()

	now := s.now()
	status := input.Status
	if status == "" {
		status = models.StatusAnalyzing
	} else if !status.Valid() {
		s.log.Warn("unknown status on create, using analyzing", "status", status)
		status = models.StatusAnalyzing
	}
	title := input.TemplateName
	if title == "" {
		title = github.ExtractRepoName(input.GithubURL, github.UntitledDocument)
	}

	doc := models.SessionDocument{
		ID:           s.uniqueDocumentID(),
		ProjectID:    input.ProjectID,
		GithubURL:    input.GithubURL,
		TemplateFile: input.TemplateFile,
		TemplateID:   input.TemplateID,
		TemplateName: input.TemplateName,
		Title:        title,
		Status:       status,
		Sections:     []models.SessionSection{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if doc.TemplateID != "" {
		doc.TemplateFile = nil
	}

	next := append(s.copyDocuments(), doc)
	if err := s.commitLocked(next, s.activeID); err != nil {
		s.mu.Unlock()
		return models.SessionDocument{}, err
	}
	s.log.Info("session document created", "id", doc.ID, "title", doc.Title)
	s.unlockAndNotify()
	return cloneDocument(doc), nil
}

// UpdateDocument merges patch into the document with the given id. An
// unknown id changes nothing but the collection is still written.
func (s *Store) UpdateDocument(id string, patch models.DocumentPatch) error {
	if patch.Status != nil && !patch.Status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, *patch.Status)
	}

	s.mu.Lock()
	next := s.copyDocuments()
	if i := indexIn(next, id); i >= 0 {
		doc := next[i]
		if patch.ProjectID != nil {
			doc.ProjectID = *patch.ProjectID
		}
		if patch.TemplateFile != nil {
			doc.TemplateFile = patch.TemplateFile
			doc.TemplateID = ""
		}
		if patch.TemplateID != nil {
			doc.TemplateID = *patch.TemplateID
			if doc.TemplateID != "" {
				doc.TemplateFile = nil
			}
		}
		if patch.TemplateName != nil {
			doc.TemplateName = *patch.TemplateName
		}
		if patch.Title != nil {
			doc.Title = *patch.Title
		}
		if patch.Status != nil {
			doc.Status = *patch.Status
		}
		s.touch(&doc)
		next[i] = doc
	}
	if err := s.commitLocked(next, s.activeID); err != nil {
		s.mu.Unlock()
		return err
	}
	s.unlockAndNotify()
	return nil
}

// DeleteDocument removes the document and clears the active id if it
// pointed at it.
func (s *Store) DeleteDocument(id string) error {
	s.mu.Lock()
	next := make([]models.SessionDocument, 0, len(s.documents))
	for _, doc := range s.documents {
		if doc.ID != id {
			next = append(next, doc)
		}
	}
	active := s.activeID
	if active == id {
		active = ""
	}
	if err := s.commitLocked(next, active); err != nil {
		s.mu.Unlock()
		return err
	}
	s.unlockAndNotify()
	return nil
}

// SetActiveDocument makes id the active document. An empty id clears it; an
// id that matches no document is rejected and leaves the active id as is.
func (s *Store) SetActiveDocument(id string) error {
	s.mu.Lock()
	if id != "" && s.indexOf(id) < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrDocumentNotFound, id)
	}
	if id == s.activeID {
		s.mu.Unlock()
		return nil
	}
	if err := s.persistActive(id); err != nil {
		s.mu.Unlock()
		return err
	}
	s.activeID = id
	s.unlockAndNotify()
	return nil
}

func (s *Store) ClearActiveDocument() error {
	return s.SetActiveDocument("")
}

// UpdateSections replaces the section list of a document. Sections with an
// empty or repeated id receive a fresh one.
func (s *Store) UpdateSections(documentID string, sections []models.SessionSection) error {
	s.mu.Lock()
	next := s.copyDocuments()
	if i := indexIn(next, documentID); i >= 0 {
		doc := next[i]
		replaced := make([]models.SessionSection, 0, len(sections))
		seen := make(map[string]struct{}, len(sections))
		for _, sec := range sections {
			if _, dup := seen[sec.ID]; sec.ID == "" || dup {
				sec.ID = s.uniqueSectionID(seen)
			}
			seen[sec.ID] = struct{}{}
			replaced = append(replaced, sec)
		}
		doc.Sections = replaced
		s.touch(&doc)
		next[i] = doc
	}
	if err := s.commitLocked(next, s.activeID); err != nil {
		s.mu.Unlock()
		return err
	}
	s.unlockAndNotify()
	return nil
}

// UpdateSection merges patch into one section. Nothing changes when either
// id is unknown.
func (s *Store) UpdateSection(documentID, sectionID string, patch models.SectionPatch) error {
	s.mu.Lock()
	next := s.copyDocuments()
	if i := indexIn(next, documentID); i >= 0 {
		doc := next[i]
		if j := sectionIndex(doc.Sections, sectionID); j >= 0 {
			sections := cloneSections(doc.Sections)
			sec := sections[j]
			if patch.Name != nil {
				sec.Name = *patch.Name
			}
			if patch.Description != nil {
				sec.Description = *patch.Description
			}
			if patch.IsIncluded != nil {
				sec.IsIncluded = *patch.IsIncluded
			}
			if patch.DisplayOrder != nil {
				sec.DisplayOrder = *patch.DisplayOrder
			}
			if patch.Content != nil {
				sec.Content = *patch.Content
			}
			if patch.IsGenerating != nil {
				sec.IsGenerating = *patch.IsGenerating
			}
			sections[j] = sec
			doc.Sections = sections
			s.touch(&doc)
			next[i] = doc
		}
	}
	if err := s.commitLocked(next, s.activeID); err != nil {
		s.mu.Unlock()
		return err
	}
	s.unlockAndNotify()
	return nil
}

// AddSection appends a section with a fresh id. The document must exist.
func (s *Store) AddSection(documentID string, section models.NewSection) (models.SessionSection, error) {
	s.mu.Lock()
	next := s.copyDocuments()
	i := indexIn(next, documentID)
	if i < 0 {
		s.mu.Unlock()
		return models.SessionSection{}, fmt.Errorf("%w: %s", ErrDocumentNotFound, documentID)
	}

	doc := next[i]
	seen := make(map[string]struct{}, len(doc.Sections))
	for _, sec := range doc.Sections {
		seen[sec.ID] = struct{}{}
	}
	created := models.SessionSection{
		ID:           s.uniqueSectionID(seen),
		Name:         section.Name,
		Description:  section.Description,
		IsIncluded:   section.IsIncluded,
		DisplayOrder: section.DisplayOrder,
		Content:      section.Content,
		IsGenerating: section.IsGenerating,
	}
	sections := make([]models.SessionSection, 0, len(doc.Sections)+1)
	sections = append(sections, doc.Sections...)
	doc.Sections = append(sections, created)
	s.touch(&doc)
	next[i] = doc

	if err := s.commitLocked(next, s.activeID); err != nil {
		s.mu.Unlock()
		return models.SessionSection{}, err
	}
	s.unlockAndNotify()
	return created, nil
}

func (s *Store) RemoveSection(documentID, sectionID string) error {
	s.mu.Lock()
	next := s.copyDocuments()
	if i := indexIn(next, documentID); i >= 0 {
		doc := next[i]
		sections := make([]models.SessionSection, 0, len(doc.Sections))
		for _, sec := range doc.Sections {
			if sec.ID != sectionID {
				sections = append(sections, sec)
			}
		}
		doc.Sections = sections
		s.touch(&doc)
		next[i] = doc
	}
	if err := s.commitLocked(next, s.activeID); err != nil {
		s.mu.Unlock()
		return err
	}
	s.unlockAndNotify()
	return nil
}

// ReorderSections rebuilds the section list in the order of orderedIDs and
// sets each displayOrder to its position there. Sections missing from
// orderedIDs are dropped. Ids matching no section are skipped but keep their
// position, and a repeated id only counts at its first position.
func (s *Store) ReorderSections(documentID string, orderedIDs []string) error {
	s.mu.Lock()
	next := s.copyDocuments()
	if i := indexIn(next, documentID); i >= 0 {
		doc := next[i]
		reordered := make([]models.SessionSection, 0, len(orderedIDs))
		used := make(map[string]struct{}, len(orderedIDs))
		for pos, id := range orderedIDs {
			if _, dup := used[id]; dup {
				continue
			}
			j := sectionIndex(doc.Sections, id)
			if j < 0 {
				continue
			}
			used[id] = struct{}{}
			sec := doc.Sections[j]
			sec.DisplayOrder = pos
			reordered = append(reordered, sec)
		}
		if dropped := len(doc.Sections) - len(reordered); dropped > 0 {
			s.log.Debug("reorder dropped sections", "document", documentID, "dropped", dropped)
		}
		doc.Sections = reordered
		s.touch(&doc)
		next[i] = doc
	}
	if err := s.commitLocked(next, s.activeID); err != nil {
		s.mu.Unlock()
		return err
	}
	s.unlockAndNotify()
	return nil
}

// commitLocked writes the collection, then the active key if it changed,
// and only then swaps the in-memory state. When the active key cannot be
// written the previous collection is written back.
func (s *Store) commitLocked(docs []models.SessionDocument, activeID string) error {
	raw, err := encodeDocuments(docs)
	if err != nil {
		return err
	}
	if err := s.kv.SetItem(StorageKey, raw); err != nil {
		return fmt.Errorf("persist %s: %w", StorageKey, err)
	}
	if activeID != s.activeID {
		if err := s.persistActive(activeID); err != nil {
			s.restoreCollection()
			return err
		}
	}
	s.documents = docs
	s.activeID = activeID
	return nil
}

func (s *Store) restoreCollection() {
	prev, err := encodeDocuments(s.documents)
	if err == nil {
		err = s.kv.SetItem(StorageKey, prev)
	}
	if err != nil {
		s.log.Error("failed to restore persisted session", "error", err)
	}
}

// persistActive stores the active id as plain text, or removes the key when
// there is no active document.
func (s *Store) persistActive(id string) error {
	var err error
	if id == "" {
		err = s.kv.RemoveItem(ActiveStorageKey)
	} else {
		err = s.kv.SetItem(ActiveStorageKey, id)
	}
	if err != nil {
		return fmt.Errorf("persist %s: %w", ActiveStorageKey, err)
	}
	return nil
}

func (s *Store) unlockAndNotify() {
	s.seq++
	seq := s.seq
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(seq, snap)
}

// touch refreshes UpdatedAt, never moving it before CreatedAt.
func (s *Store) touch(doc *models.SessionDocument) {
	now := s.now()
	if now.Before(doc.CreatedAt) {
		now = doc.CreatedAt
	}
	doc.UpdatedAt = now
}

func (s *Store) uniqueDocumentID() string {
	for {
		id := s.newID()
		if id != "" && s.indexOf(id) < 0 {
			return id
		}
	}
}

func (s *Store) uniqueSectionID(taken map[string]struct{}) string {
	for {
		id := s.newID()
		if _, ok := taken[id]; id != "" && !ok {
			return id
		}
	}
}

func (s *Store) indexOf(id string) int {
	return indexIn(s.documents, id)
}

// copyDocuments returns a new slice sharing the document values. Section
// slices are never modified in place, so sharing them is safe.
func (s *Store) copyDocuments() []models.SessionDocument {
	next := make([]models.SessionDocument, len(s.documents))
	copy(next, s.documents)
	return next
}

func indexIn(docs []models.SessionDocument, id string) int {
	for i := range docs {
		if docs[i].ID == id {
			return i
		}
	}
	return -1
}

func sectionIndex(sections []models.SessionSection, id string) int {
	for i := range sections {
		if sections[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneSections(sections []models.SessionSection) []models.SessionSection {
	out := make([]models.SessionSection, len(sections))
	copy(out, sections)
	return out
}

func cloneDocument(doc models.SessionDocument) models.SessionDocument {
	doc.Sections = cloneSections(doc.Sections)
	return doc
}

func cloneDocuments(docs []models.SessionDocument) []models.SessionDocument {
	out := make([]models.SessionDocument, len(docs))
	for i, doc := range docs {
		out[i] = cloneDocument(doc)
	}
	return out
}
