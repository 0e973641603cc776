// Package eventbus is a synchronous, in-process publish/subscribe bus.
//
// Listeners register for an event name and are called on the dispatching
// goroutine, in registration order, with internal registrations always ahead
// of external ones. A Bus can optionally bridge every dispatched event into a
// Host, which stands in for a document's native notification system.
package eventbus

import (
	"sync"

	"github.com/rs/zerolog"
)

// ListenerFunc receives the arguments passed to Dispatch.
type ListenerFunc func(args ...any)

// Listener is a subscribable callback. Unsubscribe matches on the pointer,
// so keep the *Listener returned by NewListener to remove it later.
type Listener struct {
	name string
	fn   ListenerFunc
}

// NewListener wraps fn. The name only shows up in logs.
func NewListener(name string, fn ListenerFunc) *Listener {
	return &Listener{name: name, fn: fn}
}

// Name returns the label given to NewListener
func (l *Listener) Name() string { return l.name }

type registration struct {
	listener *Listener
	external bool
}

// Options configures a Bus.
type Options struct {
	// BridgeToHost forwards every dispatched event to Host. Deprecated:
	// add listeners to the Bus instead.
	BridgeToHost bool
	Host         Host
	Logger       *zerolog.Logger
	Metrics      *Metrics
}

// Bus maps event names to ordered registrations.
type Bus struct {
	mu        sync.RWMutex
	listeners map[string][]registration

	bridge  *bridge
	log     zerolog.Logger
	metrics *Metrics
}

// New creates a bus. It never fails; a bridge requested without a host is
// reported and left disabled.
func New(opts Options) *Bus {
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	b := &Bus{
		listeners: make(map[string][]registration),
		log:       logger.With().Str("component", "eventbus").Logger(),
		metrics:   opts.Metrics,
	}

	if opts.BridgeToHost {
		b.log.Warn().Msg("The `bridgeToHost` option is deprecated, add listeners to the Bus instance rather than the host.")
		if opts.Host == nil {
			b.log.Warn().Msg("host bridge requested without a host, notifications disabled")
		} else {
			b.bridge = &bridge{host: opts.Host, metrics: opts.Metrics}
		}
	}
	return b
}

// Subscribe registers l as an external listener for eventName.
func (b *Bus) Subscribe(eventName string, l *Listener) {
	b.on(eventName, l, true)
}

// SubscribeInternal registers l ahead of every external listener for
// eventName. Reserved for components of this module.
func (b *Bus) SubscribeInternal(eventName string, l *Listener) {
	b.on(eventName, l, false)
}

func (b *Bus) on(eventName string, l *Listener, external bool) {
	if l == nil {
		b.log.Debug().Str("event", eventName).Msg("ignoring nil listener")
		return
	}
	b.mu.Lock()
	b.listeners[eventName] = append(b.listeners[eventName], registration{listener: l, external: external})
	b.mu.Unlock()

	b.log.Debug().
		Str("event", eventName).
		Str("listener", l.name).
		Bool("external", external).
		Msg("listener subscribed")
}

// Unsubscribe removes the first registration of l for eventName. Unknown
// names and listeners are ignored.
func (b *Bus) Unsubscribe(eventName string, l *Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()

	regs, ok := b.listeners[eventName]
	if !ok {
		return
	}
	for i, r := range regs {
		if r.listener != l {
			continue
		}
		b.listeners[eventName] = append(regs[:i], regs[i+1:]...)

		b.log.Debug().Str("event", eventName).Str("listener", l.name).Msg("listener unsubscribed")
		return
	}
}

// ListenerCount reports how many registrations eventName currently has.
func (b *Bus) ListenerCount(eventName string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners[eventName])
}

// Dispatch calls every listener registered for eventName when the call
// starts: internal ones first, then external ones, each group in
// registration order. A panicking listener is not recovered; it aborts the
// rest of the pass, host bridge included.
func (b *Bus) Dispatch(eventName string, args ...any) {
	b.mu.RLock()
	regs := b.listeners[eventName]
	snapshot := make([]registration, len(regs))
	copy(snapshot, regs)
	b.mu.RUnlock()

	b.metrics.dispatched(eventName)
	b.log.Debug().Str("event", eventName).Int("listeners", len(snapshot)).Msg("dispatching event")

	if len(snapshot) > 0 {
		var external []*Listener
		for _, r := range snapshot {
			if r.external {
				external = append(external, r.listener)
				continue
			}
			b.metrics.called(kindInternal)
			r.listener.fn(args...)
		}
		for _, l := range external {
			b.metrics.called(kindExternal)
			l.fn(args...)
		}
	}

	if b.bridge != nil {
		b.bridge.forward(eventName, args)
	}
}
