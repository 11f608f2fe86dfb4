package tools

import (
	"fmt"

	"mcp-business-go/internal/jsonrpc"
)

// Type is a JSON Schema primitive type name.
type Type string

const (
	TypeString  Type = "string"
	TypeInteger Type = "integer"
	TypeNumber  Type = "number"
	TypeBoolean Type = "boolean"
	TypeObject  Type = "object"
)

// Property declares one argument.
type Property struct {
	Name        string
	Type        Type
	Description string
	Required    bool
}

// Schema is an ordered list of properties. Order decides which offending
// field a validation error names.
type Schema []Property

// ValidationError names the first argument that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Result converts the error to a business-level tool result.
func (e *ValidationError) Result() Result {
	return ErrorResult(jsonrpc.ValidationFailed, e.Message)
}

// Validate checks each declared property in order: a required property must
// be present and non-null, and a present property must match its type.
// Keys not declared in the schema are ignored.
func (s Schema) Validate(args Args) *ValidationError {
	for _, p := range s {
		if !args.Has(p.Name) {
			if p.Required {
				return &ValidationError{
					Field:   p.Name,
					Message: fmt.Sprintf("Falta el argumento requerido '%s'", p.Name),
				}
			}
			continue
		}
		if !p.Type.accepts(args[p.Name]) {
			return &ValidationError{
				Field:   p.Name,
				Message: fmt.Sprintf("El argumento '%s' debe ser de tipo %s", p.Name, p.Type),
			}
		}
	}
	return nil
}

func (t Type) accepts(v any) bool {
	switch t {
	case TypeString:
		_, ok := v.(string)
		return ok
	case TypeInteger:
		return isIntegral(v)
	case TypeNumber:
		_, ok := toFloat(v)
		return ok
	case TypeBoolean:
		_, ok := v.(bool)
		return ok
	case TypeObject:
		_, ok := v.(map[string]any)
		if !ok {
			_, ok = v.(Args)
		}
		return ok
	}
	return true
}

// JSONSchema renders the schema in JSON Schema form.
func (s Schema) JSONSchema() map[string]any {
	props := make(map[string]any, len(s))
	var required []string
	for _, p := range s {
		prop := map[string]any{"type": string(p.Type)}
		if p.Description != "" {
			prop["description"] = p.Description
		}
		props[p.Name] = prop
		if p.Required {
			required = append(required, p.Name)
		}
	}

	out := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		out["required"] = required
	}
	return out
}
