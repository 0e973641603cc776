package eventbus

import (
	"eventbridge/internal/domain"
)

// Host is the document side of the bridge. Window and document identity
// checks are left to the host so that no process-wide globals are needed.
type Host interface {
	IsHostWindow(v any) bool
	IsHostDocument(v any) bool
	EmitHostNotification(n domain.Notification)
}

type bridge struct {
	host    Host
	metrics *Metrics
}

// forward re-emits a dispatched event on the host unless it came from the
// host in the first place.
func (br *bridge) forward(eventName string, args []any) {
	detail := domain.Payload{}
	if len(args) > 0 {
		props, ok := ownProperties(args[0])
		if ok {
			if src, has := props[domain.SourceKey]; has && (br.host.IsHostWindow(src) || br.host.IsHostDocument(src)) {
				br.metrics.bridged(resultSuppressed)
				return
			}
			detail = props.Clone()
		}
	}

	br.host.EmitHostNotification(domain.NewNotification(eventName, detail))
	br.metrics.bridged(resultEmitted)
}

// ownProperties returns the entries of a structured first argument. Anything
// other than a string keyed map has no properties.
func ownProperties(v any) (domain.Payload, bool) {
	switch p := v.(type) {
	case domain.Payload:
		return p, p != nil
	case map[string]any:
		return domain.Payload(p), p != nil
	default:
		return nil, false
	}
}
