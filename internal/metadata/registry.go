package metadata

import (
	"sort"
	"sync"
)

type Registry struct {
	mu      sync.RWMutex
	schemas map[string]*Schema
	order   []string
	rules   map[string][]*Rule // keyed by schema name, sorted by priority
}

func NewRegistry() *Registry {
	return &Registry{
		schemas: make(map[string]*Schema),
		rules:   make(map[string][]*Rule),
	}
}

// GetSchema returns the schema with the given name, or nil.
func (r *Registry) GetSchema(name string) *Schema {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.schemas[name]
}

// AllSchemas returns all registered schemas in load order.
func (r *Registry) AllSchemas() []*Schema {
	r.mu.RLock()
	defer r.mu.RUnlock()
	schemas := make([]*Schema, 0, len(r.order))
	for _, name := range r.order {
		schemas = append(schemas, r.schemas[name])
	}
	return schemas
}

// GetRules returns the rules for a schema ordered by priority.
func (r *Registry) GetRules(schema string) []*Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rules[schema]
}

// AllRules returns every rule, grouped by schema in load order.
func (r *Registry) AllRules() []*Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var all []*Rule
	for _, name := range r.order {
		all = append(all, r.rules[name]...)
	}
	return all
}

// Load replaces all schemas in the registry.
func (r *Registry) Load(schemas []*Schema) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.schemas = make(map[string]*Schema, len(schemas))
	r.order = make([]string, 0, len(schemas))
	for _, s := range schemas {
		if _, dup := r.schemas[s.Name]; !dup {
			r.order = append(r.order, s.Name)
		}
		r.schemas[s.Name] = s
	}
}

// LoadRules replaces all rules in the registry.
func (r *Registry) LoadRules(rules []*Rule) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules = make(map[string][]*Rule)
	for _, rule := range rules {
		r.rules[rule.Schema] = append(r.rules[rule.Schema], rule)
	}
	for _, list := range r.rules {
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Priority < list[j].Priority
		})
	}
}
