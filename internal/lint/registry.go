package lint

import (
	"fmt"
	"sort"
	"sync"
)

// Registry holds the known rules by name and alias.
type Registry struct {
	mu     sync.Mutex
	rules  map[string]Rule
	byName map[string]string // name or alias -> name
}

func NewRegistry() *Registry {
	return &Registry{
		rules:  make(map[string]Rule),
		byName: make(map[string]string),
	}
}

// Register adds rule. Names and aliases must be unique across the registry.
func (r *Registry) Register(rule Rule) error {
	meta := rule.Meta()
	if meta.Name == "" {
		return fmt.Errorf("lint: rule without a name")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	keys := append([]string{meta.Name}, meta.Aliases...)
	for _, k := range keys {
		if owner, dup := r.byName[k]; dup {
			return fmt.Errorf("lint: rule name %q already registered by %q", k, owner)
		}
	}
	r.rules[meta.Name] = rule
	for _, k := range keys {
		r.byName[k] = meta.Name
	}
	return nil
}

// MustRegister is Register that panics on conflicts.
func (r *Registry) MustRegister(rule Rule) {
	if err := r.Register(rule); err != nil {
		panic(err)
	}
}

// Lookup finds a rule by name or alias.
func (r *Registry) Lookup(name string) (Rule, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	canonical, ok := r.byName[name]
	if !ok {
		return nil, false
	}
	return r.rules[canonical], true
}

// All returns the rules sorted by name.
func (r *Registry) All() []Rule {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Rule, 0, len(r.rules))
	for _, rule := range r.rules {
		out = append(out, rule)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Meta().Name < out[j].Meta().Name })
	return out
}

// Len returns the number of registered rules.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rules)
}
