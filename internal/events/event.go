package events

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventInfo    EventType = "info"
	EventWarn    EventType = "warn"
	EventSuccess EventType = "success"
	EventError   EventType = "error"
)

const (
	SessionChanged = "session:changed"
	WorkflowNotice = "events:workflow"
)

// Notice is a user-facing progress message about a documentation job.
type Notice struct {
	ID         string            `json:"id"`
	Type       EventType         `json:"type"`
	Message    string            `json:"message"`
	Timestamp  time.Time         `json:"timestamp"`
	DocumentID string            `json:"documentId,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

type contextKey string

const documentContextKey contextKey = "docugen/events/document"

// WithDocument returns a derived context annotated with the session document
// id so emitted notices are scoped to it.
func WithDocument(ctx context.Context, documentID string) context.Context {
	if strings.TrimSpace(documentID) == "" {
		return ctx
	}
	return context.WithValue(ctx, documentContextKey, documentID)
}

// DocumentFromContext extracts the document id associated with ctx.
func DocumentFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(documentContextKey).(string); ok {
		return v
	}
	return ""
}

func CreateNotice(eventType EventType, message string) Notice {
	return Notice{
		ID:        uuid.NewString(),
		Type:      eventType,
		Message:   message,
		Timestamp: time.Now(),
	}
}

func NewInfo(message string) Notice {
	return CreateNotice(EventInfo, message)
}

func NewWarn(message string) Notice {
	return CreateNotice(EventWarn, message)
}

func NewError(message string) Notice {
	return CreateNotice(EventError, message)
}

func NewSuccess(message string) Notice {
	return CreateNotice(EventSuccess, message)
}
