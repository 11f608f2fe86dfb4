package tools

import (
	"context"
	"fmt"
)

// DefaultTool carries the name, description and schema of a tool and can be
// embedded in concrete tools.
type DefaultTool struct {
	name        string
	description string
	schema      Schema
}

// NewDefaultTool creates a new DefaultTool with the given name, description and schema.
func NewDefaultTool(name, description string, schema Schema) *DefaultTool {
	return &DefaultTool{
		name:        name,
		description: description,
		schema:      schema,
	}
}

// Name returns the name of the tool.
func (t *DefaultTool) Name() string {
	return t.name
}

// Description returns the human-readable description.
func (t *DefaultTool) Description() string {
	return t.description
}

// Schema returns the declared arguments.
func (t *DefaultTool) Schema() Schema {
	return t.schema
}

// Call is the default implementation of the Tool interface.
// Tools should override this method with their specific implementation.
func (t *DefaultTool) Call(ctx context.Context, args Args) (Result, error) {
	return Result{}, fmt.Errorf("method not implemented for tool: %s", t.name)
}
