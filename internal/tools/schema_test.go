package tools

import (
	"encoding/json"
	"testing"
)

func TestSchema_Validate(t *testing.T) {
	schema := Schema{
		{Name: "kind", Type: TypeString, Required: true},
		{Name: "n", Type: TypeInteger},
		{Name: "factor", Type: TypeNumber},
		{Name: "dry", Type: TypeBoolean},
		{Name: "params", Type: TypeObject},
	}

	tests := []struct {
		name  string
		args  Args
		field string
	}{
		{"valid minimal", Args{"kind": "sales"}, ""},
		{"valid full", Args{"kind": "s", "n": 3, "factor": 1.3, "dry": true, "params": map[string]any{}}, ""},
		{"unknown keys ignored", Args{"kind": "s", "whatever": []int{1}}, ""},
		{"json number integer", Args{"kind": "s", "n": json.Number("4")}, ""},
		{"missing required", Args{"n": 1}, "kind"},
		{"null counts as missing", Args{"kind": nil}, "kind"},
		{"wrong string type", Args{"kind": 5}, "kind"},
		{"fractional integer", Args{"kind": "s", "n": 1.5}, "n"},
		{"string number", Args{"kind": "s", "factor": "1.3"}, "factor"},
		{"wrong bool", Args{"kind": "s", "dry": "yes"}, "dry"},
		{"wrong object", Args{"kind": "s", "params": "x"}, "params"},
		{"first offending field wins", Args{"n": "x"}, "kind"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := schema.Validate(tt.args)
			if tt.field == "" {
				if err != nil {
					t.Errorf("Unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Expected error for field %s", tt.field)
			}
			if err.Field != tt.field {
				t.Errorf("Field = %s, want %s", err.Field, tt.field)
			}
		})
	}
}

func TestArgsAccessors(t *testing.T) {
	args := Args{"s": "  Agosto ", "i": float64(7), "f": 1.3, "j": json.Number("2.5")}

	if args.String("s", "") != "Agosto" {
		t.Error("String() must trim")
	}
	if args.String("missing", "def") != "def" {
		t.Error("String() must fall back")
	}
	if args.Int("i", 0) != 7 {
		t.Error("Int() from float64")
	}
	if args.Int("missing", 5) != 5 {
		t.Error("Int() must fall back")
	}
	if args.Float("f", 0) != 1.3 || args.Float("j", 0) != 2.5 {
		t.Error("Float() conversions")
	}
}
