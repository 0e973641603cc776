package views

import (
	"fmt"
	"sort"
	"strings"

	"eventbridge/internal/domain"
)

// EntryKind classifies a timeline line for styling
type EntryKind int

const (
	EntryInternal EntryKind = iota
	EntryExternal
	EntryNotification
	EntryInfo
	EntryError
)

// Entry is one timeline line
type Entry struct {
	Kind EntryKind
	Text string
}

// InvocationEntry describes a listener call
func InvocationEntry(inv domain.Invocation) Entry {
	kind := EntryExternal
	if inv.Kind == domain.KindInternal {
		kind = EntryInternal
	}
	return Entry{
		Kind: kind,
		Text: fmt.Sprintf("%s  %-8s %s(%s) <- %s",
			inv.At.Format("15:04:05.000"), inv.Kind, inv.Listener, formatArgs(inv.Args), inv.Event),
	}
}

// NotificationEntry describes a bridged host notification
func NotificationEntry(n domain.Notification) Entry {
	return Entry{
		Kind: EntryNotification,
		Text: fmt.Sprintf("%s  %-8s %s %s", n.At.Format("15:04:05.000"), "host", n.Name, FormatPayload(n.Detail)),
	}
}

// Render styles an entry
func (s *Styles) Render(e Entry) string {
	switch e.Kind {
	case EntryInternal:
		return s.Internal.Render(e.Text)
	case EntryExternal:
		return s.External.Render(e.Text)
	case EntryNotification:
		return s.Notification.Render(e.Text)
	case EntryError:
		return s.Error.Render(e.Text)
	default:
		return s.Dim.Render(e.Text)
	}
}

// FormatPayload prints a payload with sorted keys so output is stable
func FormatPayload(p domain.Payload) string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%v", k, p[k])
	}
	return "{" + strings.Join(parts, " ") + "}"
}

func formatArgs(args []any) string {
	parts := make([]string, len(args))
	for i, a := range args {
		if p, ok := a.(domain.Payload); ok {
			parts[i] = FormatPayload(p)
			continue
		}
		parts[i] = fmt.Sprintf("%v", a)
	}
	return strings.Join(parts, ", ")
}
