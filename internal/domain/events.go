package domain

import (
	"time"

	"github.com/google/uuid"
)

// SourceKey is the payload entry naming where an event originated.
// It is never copied into a host notification.
const SourceKey = "source"

// Payload is the structured record carried as the first dispatch argument.
// Its entries are the only properties the host bridge looks at.
type Payload map[string]any

// Clone returns a shallow copy of the payload without the source entry.
func (p Payload) Clone() Payload {
	out := make(Payload, len(p))
	for k, v := range p {
		if k == SourceKey {
			continue
		}
		out[k] = v
	}
	return out
}

// Notification is what a host receives when the bus bridges an event.
type Notification struct {
	ID         uuid.UUID
	Name       string
	Detail     Payload
	Bubbles    bool
	Cancelable bool
	At         time.Time
}

// NewNotification creates a bubbling, cancelable notification for name.
func NewNotification(name string, detail Payload) Notification {
	if detail == nil {
		detail = Payload{}
	}
	return Notification{
		ID:         uuid.New(),
		Name:       name,
		Detail:     detail,
		Bubbles:    true,
		Cancelable: true,
		At:         time.Now(),
	}
}

// ListenerKind says which priority group a listener call belongs to
type ListenerKind string

const (
	KindInternal ListenerKind = "internal"
	KindExternal ListenerKind = "external"
)

// Invocation records one listener call observed during playback
type Invocation struct {
	Event    string
	Listener string
	Kind     ListenerKind
	Args     []any
	At       time.Time
}
