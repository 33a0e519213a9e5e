package rewrite

import (
	"fmt"
	"sort"
	"sync"

	"golang.org/x/text/cases"
)

// Recipe is a named, documented rewrite. Visitor returns a fresh top-level
// visitor for one compilation unit.
type Recipe interface {
	Name() string
	DisplayName() string
	Description() string
	Tags() []string
	Visitor() Visitor
}

// Registry holds recipes by their stable name.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]Recipe
}

func NewRegistry(recipes ...Recipe) (*Registry, error) {
	r := &Registry{byName: make(map[string]Recipe, len(recipes))}
	for _, rec := range recipes {
		if err := r.Register(rec); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) Register(rec Recipe) error {
	if rec == nil || rec.Name() == "" {
		return fmt.Errorf("recipe must have a name")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.byName[rec.Name()]; dup {
		return fmt.Errorf("recipe %q already registered", rec.Name())
	}
	r.byName[rec.Name()] = rec
	return nil
}

func (r *Registry) Lookup(name string) (Recipe, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.byName[name]
	return rec, ok
}

// All returns every recipe sorted by name.
func (r *Registry) All() []Recipe {
	r.mu.RLock()
	out := make([]Recipe, 0, len(r.byName))
	for _, rec := range r.byName {
		out = append(out, rec)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// WithTag filters by tag, comparing case-folded.
func (r *Registry) WithTag(tag string) []Recipe {
	fold := cases.Fold()
	want := fold.String(tag)
	var out []Recipe
	for _, rec := range r.All() {
		for _, t := range rec.Tags() {
			if fold.String(t) == want {
				out = append(out, rec)
				break
			}
		}
	}
	return out
}

// Select resolves names in order; an empty list selects every recipe.
func (r *Registry) Select(names []string) ([]Recipe, error) {
	if len(names) == 0 {
		return r.All(), nil
	}
	out := make([]Recipe, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		rec, ok := r.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("unknown recipe %q", name)
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, rec)
	}
	return out, nil
}

// Visitors instantiates one top-level visitor per recipe.
func Visitors(recipes []Recipe) []Visitor {
	out := make([]Visitor, 0, len(recipes))
	for _, rec := range recipes {
		out = append(out, rec.Visitor())
	}
	return out
}
