package schema

import (
	"sort"
	"sync"

	"github.com/wippyai/memlayout/endian"
	"github.com/wippyai/memlayout/errors"
)

// Registry is a catalogue of named record schemas. Each name is compiled
// once; later lookups return the same *Schema.
type Registry struct {
	mu      sync.RWMutex
	schemas map[string]*Schema
}

// Default is the process-wide registry used by builders and type
// expressions unless another registry is supplied.
var Default = NewRegistry()

func NewRegistry() *Registry {
	return &Registry{schemas: make(map[string]*Schema)}
}

// Lookup returns the schema registered under name.
func (r *Registry) Lookup(name string) (*Schema, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.schemas[name]
	return s, ok
}

// Register adds an already compiled schema. Registering a different
// layout under an existing name fails.
func (r *Registry) Register(s *Schema) error {
	if s == nil {
		return errors.SchemaDefinition("", nil, "cannot register a nil schema")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.schemas[s.Name]; ok {
		if existing == s {
			return nil
		}
		return errors.SchemaDefinition(s.Name, nil, "record %q is already registered", s.Name)
	}
	r.schemas[s.Name] = s
	return nil
}

// Compile compiles and registers a record, or returns the cached schema
// when name was already compiled from the same declarations.
func (r *Registry) Compile(name string, decls []Decl, e endian.Endianness) (*Schema, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, err := Compile(name, decls, e)
	if err != nil {
		return nil, err
	}
	if cached, ok := r.schemas[name]; ok {
		if cached.Equal(s) && cached.Endianness == s.Endianness {
			return cached, nil
		}
		return nil, errors.SchemaDefinition(name, nil, "record %q is already declared with a different layout", name)
	}
	r.schemas[name] = s
	return s, nil
}

// Names returns the registered record names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.schemas))
	for name := range r.schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
