package session

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"

	"docugen/internal/models"
)

var (
	errMalformed = errors.New("persisted session is not valid JSON")
	errNotArray  = errors.New("persisted session is not a JSON array")
)

// encodeDocuments serializes the collection. Uploaded template files carry
// no JSON representation and are dropped.
func encodeDocuments(docs []models.SessionDocument) (string, error) {
	if docs == nil {
		docs = []models.SessionDocument{}
	}
	b, err := json.Marshal(docs)
	if err != nil {
		return "", fmt.Errorf("encode session: %w", err)
	}
	return string(b), nil
}

// decodeDocuments parses a persisted collection. Records without an id and
// repeated ids are skipped so the loaded collection keeps ids unique.
func decodeDocuments(raw string) ([]models.SessionDocument, error) {
	if !gjson.Valid(raw) {
		return nil, errMalformed
	}
	if !gjson.Parse(raw).IsArray() {
		return nil, errNotArray
	}
	var decoded []models.SessionDocument
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}

	docs := make([]models.SessionDocument, 0, len(decoded))
	seen := make(map[string]struct{}, len(decoded))
	for _, doc := range decoded {
		if doc.ID == "" {
			continue
		}
		if _, dup := seen[doc.ID]; dup {
			continue
		}
		seen[doc.ID] = struct{}{}
		if doc.Sections == nil {
			doc.Sections = []models.SessionSection{}
		}
		if doc.UpdatedAt.Before(doc.CreatedAt) {
			doc.UpdatedAt = doc.CreatedAt
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
