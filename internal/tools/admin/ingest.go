// Package admin implements the admin.ingest_csv tool.
package admin

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"mcp-business-go/internal/jsonrpc"
	"mcp-business-go/internal/store"
	"mcp-business-go/internal/tools"
)

// DefaultMaxBytes caps a decoded CSV payload.
const DefaultMaxBytes = 5 << 20

// Replacer swaps in a whole table. A failed replacement leaves the current
// table untouched.
type Replacer interface {
	ReplaceSales(rows []store.SalesRecord) error
	ReplaceInventory(rows []store.InventoryRecord) error
}

// IngestTool replaces a table with an uploaded CSV.
type IngestTool struct {
	*tools.DefaultTool
	tables   Replacer
	maxBytes int
	observe  func(kind store.Kind, rows int)
}

// Option configures IngestTool.
type Option func(*IngestTool)

// WithMaxBytes overrides DefaultMaxBytes.
func WithMaxBytes(n int) Option {
	return func(t *IngestTool) {
		if n > 0 {
			t.maxBytes = n
		}
	}
}

// WithObserver is called after every successful ingest.
func WithObserver(fn func(kind store.Kind, rows int)) Option {
	return func(t *IngestTool) {
		t.observe = fn
	}
}

// NewIngestTool creates the admin.ingest_csv tool.
func NewIngestTool(tables Replacer, opts ...Option) *IngestTool {
	t := &IngestTool{
		DefaultTool: tools.NewDefaultTool(
			"admin.ingest_csv",
			"Ingesta de CSV (sales|inventory) vía base64",
			tools.Schema{
				{Name: "kind", Type: tools.TypeString, Description: "sales o inventory", Required: true},
				{Name: "csv_base64", Type: tools.TypeString, Description: "Contenido CSV en base64", Required: true},
			},
		),
		tables:   tables,
		maxBytes: DefaultMaxBytes,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Call implements tools.Tool.
func (t *IngestTool) Call(ctx context.Context, args tools.Args) (tools.Result, error) {
	kind, ok := store.ParseKind(args.String("kind", ""))
	if !ok {
		return tools.ErrorResult(jsonrpc.ValidationFailed, "kind debe ser 'sales' o 'inventory'"), nil
	}
	encoded := args.String("csv_base64", "")
	if encoded == "" {
		return tools.ErrorResult(jsonrpc.ValidationFailed, "Falta csv_base64"), nil
	}
	if base64.StdEncoding.DecodedLen(len(encoded)) > t.maxBytes+2 {
		return tools.ErrorResult(jsonrpc.ValidationFailed,
			fmt.Sprintf("CSV excede el máximo de %d bytes", t.maxBytes)), nil
	}
	raw, err := decodeBase64(encoded)
	if err != nil {
		return tools.ErrorResult(jsonrpc.ValidationFailed, "csv_base64 no es base64 válido"), nil
	}
	if len(raw) > t.maxBytes {
		return tools.ErrorResult(jsonrpc.ValidationFailed,
			fmt.Sprintf("CSV excede el máximo de %d bytes", t.maxBytes)), nil
	}

	rows, err := t.replace(kind, raw)
	if err != nil {
		var derr *store.DecodeError
		if errors.As(err, &derr) {
			return tools.ErrorResult(jsonrpc.IngestSchemaError, derr.Message), nil
		}
		return tools.Result{}, err
	}

	if t.observe != nil {
		t.observe(kind, rows)
	}
	return tools.TextResult(fmt.Sprintf("Datos '%s' actualizados (%d filas).", kind, rows)), nil
}

func (t *IngestTool) replace(kind store.Kind, raw []byte) (int, error) {
	if kind == store.KindSales {
		rows, err := store.DecodeSales(bytes.NewReader(raw))
		if err != nil {
			return 0, err
		}
		return len(rows), t.tables.ReplaceSales(rows)
	}
	rows, err := store.DecodeInventory(bytes.NewReader(raw))
	if err != nil {
		return 0, err
	}
	return len(rows), t.tables.ReplaceInventory(rows)
}

// decodeBase64 accepts padded or unpadded standard base64 with embedded
// line breaks.
func decodeBase64(s string) ([]byte, error) {
	s = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' || r == ' ' || r == '\t' {
			return -1
		}
		return r
	}, s)
	if raw, err := base64.StdEncoding.DecodeString(s); err == nil {
		return raw, nil
	}
	return base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "="))
}
