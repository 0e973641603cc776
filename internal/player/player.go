// Package player runs event scripts against a bus.
package player

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"eventbridge/internal/domain"
	"eventbridge/internal/eventbus"
	"eventbridge/internal/script"
)

// ErrListenerPanic is returned when a listener panics during a dispatch step.
var ErrListenerPanic = errors.New("listener panicked")

// Observer is told about every call of a script listener
type Observer interface {
	ListenerCalled(inv domain.Invocation)
}

// ObserverFunc adapts a function to Observer
type ObserverFunc func(inv domain.Invocation)

func (f ObserverFunc) ListenerCalled(inv domain.Invocation) { f(inv) }

// Options configures a Player
type Options struct {
	// Resolver expands "$window"/"$document" references in step arguments.
	Resolver script.Resolver
	Observer Observer
	// Interval is slept before every step on top of the step's own delay.
	Interval time.Duration
	Logger   *zerolog.Logger
}

// Player executes script steps. It is meant to be driven from one goroutine;
// Stats may be read from anywhere.
type Player struct {
	bus      *eventbus.Bus
	resolver script.Resolver
	observer Observer
	interval time.Duration
	log      zerolog.Logger

	external map[string]*eventbus.Listener
	internal map[string]*eventbus.Listener
	current  string

	statsListener *eventbus.Listener
	tracked       map[string]bool

	mu    sync.Mutex
	stats map[string]int
}

// New creates a player for bus
func New(bus *eventbus.Bus, opts Options) *Player {
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	p := &Player{
		bus:      bus,
		resolver: opts.Resolver,
		observer: opts.Observer,
		interval: opts.Interval,
		log:      logger.With().Str("component", "player").Logger(),
		external: make(map[string]*eventbus.Listener),
		internal: make(map[string]*eventbus.Listener),
		tracked:  make(map[string]bool),
		stats:    make(map[string]int),
	}
	p.statsListener = eventbus.NewListener("stats", func(args ...any) {
		p.mu.Lock()
		p.stats[p.current]++
		p.mu.Unlock()
	})
	return p
}

// Play runs steps in order until they are exhausted, ctx is done, or a
// listener panics.
func (p *Player) Play(ctx context.Context, steps []script.Step) error {
	for i, s := range steps {
		if err := p.sleep(ctx, p.interval+s.Wait()); err != nil {
			return err
		}
		if err := p.Step(s); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return nil
}

func (p *Player) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Step runs a single step without waiting for its delay.
func (p *Player) Step(s script.Step) error {
	switch s.Op {
	case script.OpSubscribe:
		p.bus.Subscribe(s.Event, p.listener(s.Listener, domain.KindExternal))
	case script.OpSubscribeInternal:
		p.bus.SubscribeInternal(s.Event, p.listener(s.Listener, domain.KindInternal))
	case script.OpUnsubscribe:
		if l, ok := p.external[s.Listener]; ok {
			p.bus.Unsubscribe(s.Event, l)
		}
		if l, ok := p.internal[s.Listener]; ok {
			p.bus.Unsubscribe(s.Event, l)
		}
	case script.OpDispatch:
		return p.dispatch(s.Event, s.ResolveArgs(p.resolver))
	default:
		return fmt.Errorf("%w %q", script.ErrUnknownOp, s.Op)
	}
	return nil
}

func (p *Player) dispatch(event string, args []any) (err error) {
	if !p.tracked[event] {
		p.bus.SubscribeInternal(event, p.statsListener)
		p.tracked[event] = true
	}

	defer func() {
		if r := recover(); r != nil {
			p.log.Error().Str("event", event).Interface("panic", r).Msg("listener panicked")
			err = fmt.Errorf("%w: event %q: %v", ErrListenerPanic, event, r)
		}
	}()

	p.current = event
	p.log.Debug().Str("event", event).Int("args", len(args)).Msg("dispatch")
	p.bus.Dispatch(event, args...)
	return nil
}

// listener returns the named script listener of the given kind, creating
// it on first use so later unsubscribe steps find the same pointer.
func (p *Player) listener(name string, kind domain.ListenerKind) *eventbus.Listener {
	table := p.external
	if kind == domain.KindInternal {
		table = p.internal
	}
	if l, ok := table[name]; ok {
		return l
	}
	l := eventbus.NewListener(name, func(args ...any) {
		if p.observer == nil {
			return
		}
		p.observer.ListenerCalled(domain.Invocation{
			Event:    p.current,
			Listener: name,
			Kind:     kind,
			Args:     args,
			At:       time.Now(),
		})
	})
	table[name] = l
	return l
}

// EventCount is one row of Stats
type EventCount struct {
	Event string
	Count int
}

// Stats returns dispatch counts per event name, sorted by name.
func (p *Player) Stats() []EventCount {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]EventCount, 0, len(p.stats))
	for e, n := range p.stats {
		out = append(out, EventCount{Event: e, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Event < out[j].Event })
	return out
}
