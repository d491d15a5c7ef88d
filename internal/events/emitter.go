package events

import (
	"context"
	"sync"

	"github.com/wailsapp/wails/v2/pkg/runtime"

	"docugen/internal/session"
)

// Emitter delivers a named event payload to the frontend.
type Emitter func(ctx context.Context, name string, payload any)

var (
	mu   sync.RWMutex
	emit Emitter = func(context.Context, string, any) {}
)

// EnableRuntimeEmitter routes events through the wails runtime. ctx must be
// the application context handed to OnStartup.
func EnableRuntimeEmitter() {
	SetCustomEmitter(func(ctx context.Context, name string, payload any) {
		runtime.EventsEmit(ctx, name, payload)
		if n, ok := payload.(Notice); ok {
			logRuntimeEvent(ctx, n)
		}
	})
}

// SetCustomEmitter replaces the emitter; nil silences all events.
func SetCustomEmitter(f Emitter) {
	mu.Lock()
	defer mu.Unlock()
	if f == nil {
		emit = func(context.Context, string, any) {}
		return
	}
	emit = f
}

func current() Emitter {
	mu.RLock()
	defer mu.RUnlock()
	return emit
}

// EmitSessionChanged publishes a store snapshot.
func EmitSessionChanged(ctx context.Context, snap session.Snapshot) {
	current()(ctx, SessionChanged, snap)
}

// EmitNotice publishes a workflow notice, scoped to the document in ctx when
// the notice does not name one.
func EmitNotice(ctx context.Context, n Notice) {
	if n.DocumentID == "" {
		n.DocumentID = DocumentFromContext(ctx)
	}
	current()(ctx, WorkflowNotice, n)
}
