package tools

import (
	"fmt"
	"sort"
)

// Registry maps tool names to tools. It is built once and never mutated, so
// concurrent lookups need no locking.
type Registry struct {
	tools map[string]Tool
	names []string
}

// NewRegistry builds a registry from the given tools. Names must be unique.
func NewRegistry(list ...Tool) (*Registry, error) {
	r := &Registry{
		tools: make(map[string]Tool, len(list)),
	}
	for _, t := range list {
		if t == nil {
			continue
		}
		name := t.Name()
		if name == "" {
			return nil, fmt.Errorf("tool with empty name: %T", t)
		}
		if _, dup := r.tools[name]; dup {
			return nil, fmt.Errorf("duplicate tool name: %s", name)
		}
		r.tools[name] = t
		r.names = append(r.names, name)
	}
	sort.Strings(r.names)
	return r, nil
}

// Get returns a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	tool, exists := r.tools[name]
	return tool, exists
}

// Names returns the registered tool names in sorted order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	return len(r.tools)
}

// Definition is the public description of a tool.
type Definition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

// Definitions describes every registered tool, sorted by name.
func (r *Registry) Definitions() []Definition {
	defs := make([]Definition, 0, len(r.names))
	for _, name := range r.names {
		t := r.tools[name]
		defs = append(defs, Definition{
			Name:        name,
			Description: t.Description(),
			InputSchema: t.Schema().JSONSchema(),
		})
	}
	return defs
}
