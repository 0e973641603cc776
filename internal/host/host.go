// Package host provides the document side of the bus bridge: identity
// sentinels for the host window and document, and hosts that deliver
// bridged notifications to logs, recorders or a terminal program.
package host

import (
	"sync"

	"eventbridge/internal/domain"
)

// Global is an identity token standing in for a host singleton.
// Only the pointer matters.
type Global struct {
	name string
}

func (g *Global) String() string { return g.name }

// Globals is the window/document pair a host owns.
type Globals struct {
	Window   *Global
	Document *Global
}

// NewGlobals allocates a fresh window and document.
func NewGlobals() Globals {
	return Globals{
		Window:   &Global{name: "window"},
		Document: &Global{name: "document"},
	}
}

func (g Globals) IsHostWindow(v any) bool {
	w, ok := v.(*Global)
	return ok && w != nil && w == g.Window
}

func (g Globals) IsHostDocument(v any) bool {
	d, ok := v.(*Global)
	return ok && d != nil && d == g.Document
}

// Lookup resolves a script reference such as "$window" to the singleton.
func (g Globals) Lookup(ref string) (any, bool) {
	switch ref {
	case "$window":
		return g.Window, true
	case "$document":
		return g.Document, true
	}
	return nil, false
}

// Recorder keeps every notification it receives, in order. It is safe for
// concurrent use.
type Recorder struct {
	Globals

	mu   sync.Mutex
	seen []domain.Notification
}

// NewRecorder creates a recorder with its own globals
func NewRecorder() *Recorder {
	return &Recorder{Globals: NewGlobals()}
}

func (r *Recorder) EmitHostNotification(n domain.Notification) {
	r.mu.Lock()
	r.seen = append(r.seen, n)
	r.mu.Unlock()
}

// Notifications returns a copy of everything recorded so far
func (r *Recorder) Notifications() []domain.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Notification, len(r.seen))
	copy(out, r.seen)
	return out
}

// CountByName tallies recorded notifications per event name
func (r *Recorder) CountByName() map[string]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[string]int)
	for _, n := range r.seen {
		counts[n.Name]++
	}
	return counts
}
