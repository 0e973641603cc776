// Package script loads event scripts: ordered steps that subscribe,
// unsubscribe and dispatch against a bus.
package script

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"eventbridge/internal/domain"
)

// Op is what a step does
type Op string

const (
	OpDispatch          Op = "dispatch"
	OpSubscribe         Op = "subscribe"
	OpSubscribeInternal Op = "subscribe_internal"
	OpUnsubscribe       Op = "unsubscribe"
)

var (
	ErrUnknownOp     = errors.New("unknown op")
	ErrMissingEvent  = errors.New("missing event name")
	ErrUnknownFormat = errors.New("unsupported script format")
)

// Step is one line of a script
type Step struct {
	Op       Op     `json:"op" yaml:"op" toml:"op"`
	Event    string `json:"event" yaml:"event" toml:"event"`
	Listener string `json:"listener" yaml:"listener" toml:"listener"`
	Args     []any  `json:"args" yaml:"args" toml:"args"`
	Delay    string `json:"delay" yaml:"delay" toml:"delay"`

	delay time.Duration
}

// Wait returns the parsed delay to sleep before running the step
func (s Step) Wait() time.Duration { return s.delay }

// Resolver turns "$name" references into host values
type Resolver interface {
	Lookup(ref string) (any, bool)
}

// Load reads a script, picking the decoder by extension:
// .ndjson/.jsonl, .json (array), .yaml/.yml, .toml ([[step]] tables).
func Load(path string) ([]Step, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	return Parse(strings.ToLower(filepath.Ext(path)), data)
}

// Parse decodes script data in the format named by ext.
func Parse(ext string, data []byte) ([]Step, error) {
	var (
		steps []Step
		err   error
	)
	switch ext {
	case ".ndjson", ".jsonl":
		steps, err = parseNDJSON(data)
	case ".json":
		err = json.Unmarshal(data, &steps)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &steps)
	case ".toml":
		var doc struct {
			Step []Step `toml:"step"`
		}
		err = toml.Unmarshal(data, &doc)
		steps = doc.Step
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}

	for i := range steps {
		if err := steps[i].normalize(); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return steps, nil
}

func parseNDJSON(data []byte) ([]Step, error) {
	var steps []Step
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	line := 0
	for sc.Scan() {
		line++
		text := bytes.TrimSpace(sc.Bytes())
		if len(text) == 0 || text[0] == '#' {
			continue
		}
		var s Step
		if err := json.Unmarshal(text, &s); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		steps = append(steps, s)
	}
	return steps, sc.Err()
}

func (s *Step) normalize() error {
	if s.Op == "" {
		s.Op = OpDispatch
	}
	switch s.Op {
	case OpDispatch, OpSubscribe, OpSubscribeInternal, OpUnsubscribe:
	default:
		return fmt.Errorf("%w %q", ErrUnknownOp, s.Op)
	}
	if s.Event == "" {
		return ErrMissingEvent
	}
	if s.Op != OpDispatch && s.Listener == "" {
		return fmt.Errorf("%s needs a listener name", s.Op)
	}
	if s.Delay != "" {
		d, err := time.ParseDuration(s.Delay)
		if err != nil {
			return fmt.Errorf("invalid delay: %w", err)
		}
		s.delay = d
	}
	for i, a := range s.Args {
		s.Args[i] = normalizeValue(a)
	}
	return nil
}

// normalizeValue turns decoded objects into payloads so the bridge sees
// them as structured records.
func normalizeValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		p := make(domain.Payload, len(t))
		for k, val := range t {
			p[k] = normalizeValue(val)
		}
		return p
	case []any:
		for i := range t {
			t[i] = normalizeValue(t[i])
		}
		return t
	default:
		return v
	}
}

// ResolveArgs returns the step arguments with "$window"/"$document" style
// references in payload entries replaced by r's values. The step itself is
// left untouched so a script can be resolved against several hosts.
func (s Step) ResolveArgs(r Resolver) []any {
	out := make([]any, len(s.Args))
	for i, a := range s.Args {
		out[i] = resolve(a, r)
	}
	return out
}

func resolve(v any, r Resolver) any {
	switch t := v.(type) {
	case string:
		if r != nil && strings.HasPrefix(t, "$") {
			if val, ok := r.Lookup(t); ok {
				return val
			}
		}
		return t
	case domain.Payload:
		p := make(domain.Payload, len(t))
		for k, val := range t {
			p[k] = resolve(val, r)
		}
		return p
	default:
		return v
	}
}
