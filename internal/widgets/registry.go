package widgets

import (
	"html/template"
	"net/url"
	"sort"
	"sync"

	"github.com/SAP-F-2025/exam-form-service/internal/models"
)

// Widget renders a custom exam component and reads its answer back from a
// posted form. A widget owns the form fields prefixed with its key.
type Widget interface {
	Render(item *models.CustomItem, value string) (template.HTML, error)
	// Decode returns the answer value and whether the widget's fields were
	// present in the form at all.
	Decode(form url.Values) (string, bool)
	// Fields lists every form field name the widget reads and writes.
	Fields() []string
}

// Constructor builds a widget bound to an answer key.
type Constructor func(key string) Widget

// Registry maps component names to widget constructors.
type Registry struct {
	mu           sync.RWMutex
	constructors map[string]Constructor
}

func NewRegistry() *Registry {
	return &Registry{constructors: make(map[string]Constructor)}
}

// DefaultRegistry returns a registry with the built-in widgets.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(SudokuComponent, NewSudoku)
	return r
}

// Register adds or replaces the constructor for a component name.
func (r *Registry) Register(name string, c Constructor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.constructors[name] = c
}

func (r *Registry) Lookup(name string) (Constructor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.constructors[name]
	return c, ok
}

// FormFields returns the form fields a component owns when bound to key, or
// nil for an unknown component.
func (r *Registry) FormFields(component, key string) []string {
	construct, ok := r.Lookup(component)
	if !ok {
		return nil
	}
	return construct(key).Fields()
}

// Names returns the registered component names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.constructors))
	for name := range r.constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
