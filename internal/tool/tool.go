// Package tool provides the registry of local actions the model may invoke.
package tool

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"
)

// ErrEmptyName is returned when a descriptor is registered without a name.
var ErrEmptyName = errors.New("tool name must not be empty")

// ExecFunc executes a tool with the model-supplied arguments and returns a
// short, speakable result string.
type ExecFunc func(args map[string]any) (string, error)

// Descriptor describes one registered tool.
type Descriptor struct {
	Name        string
	Description string
	Schema      *Schema
	Exec        ExecFunc
}

// Registry maps tool names to descriptors. Registration happens
// single-threaded at startup, before the provider that advertises the tool
// list is constructed; after that the registry is effectively immutable.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Descriptor
	logger  zerolog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger zerolog.Logger) *Registry {
	return &Registry{
		entries: make(map[string]Descriptor),
		logger:  logger.With().Str("component", "tools").Logger(),
	}
}

// Register adds a tool. A duplicate name overwrites the previous entry with
// a warning.
func (r *Registry) Register(d Descriptor) error {
	if d.Name == "" {
		return ErrEmptyName
	}
	if d.Exec == nil {
		return fmt.Errorf("tool %q has no executor", d.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[d.Name]; exists {
		r.logger.Warn().Str("tool", d.Name).Msg("Tool re-registered, overwriting previous entry")
	}
	r.entries[d.Name] = d
	r.logger.Info().Str("tool", d.Name).Msg("Registered tool")
	return nil
}

// Resolve looks up a tool by name.
func (r *Registry) Resolve(name string) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.entries[name]
	return d, ok
}

// Descriptors returns all registered tools sorted by name, for providers
// that advertise the tool list at connection time.
func (r *Registry) Descriptors() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Descriptor, 0, len(r.entries))
	for _, d := range r.entries {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
