package unit_tests

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"docugen/internal/events"
	"docugen/internal/session"
	"docugen/internal/storage"
)

type emitted struct {
	name    string
	payload any
}

type eventRecorder struct {
	mu     sync.Mutex
	events []emitted
}

func (r *eventRecorder) all() []emitted {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]emitted(nil), r.events...)
}

func (r *eventRecorder) notices() []events.Notice {
	var out []events.Notice
	for _, e := range r.all() {
		if n, ok := e.payload.(events.Notice); ok {
			out = append(out, n)
		}
	}
	return out
}

func recordEvents(t *testing.T) *eventRecorder {
	t.Helper()
	rec := &eventRecorder{}
	events.SetCustomEmitter(func(_ context.Context, name string, payload any) {
		rec.mu.Lock()
		defer rec.mu.Unlock()
		rec.events = append(rec.events, emitted{name: name, payload: payload})
	})
	t.Cleanup(func() { events.SetCustomEmitter(nil) })
	return rec
}

func newStore(t *testing.T, kv storage.KeyValue) *session.Store {
	t.Helper()
	if kv == nil {
		kv = storage.NewMemory()
	}
	store, err := session.New(kv)
	require.NoError(t, err)
	return store
}

func ptr[T any](v T) *T {
	return &v
}
