// Package report implements the report.generate tool, which writes sales,
// inventory or general reports as CSV or PDF files.
package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"mcp-business-go/internal/document"
	"mcp-business-go/internal/jsonrpc"
	"mcp-business-go/internal/store"
	"mcp-business-go/internal/tools"
	"mcp-business-go/internal/tools/inventory"
	"mcp-business-go/internal/tools/sales"
	"mcp-business-go/internal/tools/textfmt"
)

// Kind selects the report content.
type Kind string

const (
	KindSales     Kind = "ventas"
	KindInventory Kind = "inventario"
	KindGeneral   Kind = "general"
)

// Format selects the output encoding.
type Format string

const (
	FormatCSV Format = "csv"
	FormatPDF Format = "pdf"
)

const timestampLayout = "20060102_150405"

// Source yields the tables a call reads from.
type Source interface {
	Snapshot() *store.Snapshot
}

// Saver stores a generated file and returns its download link.
type Saver interface {
	Save(name string, data []byte) (string, error)
}

// Tool generates report files.
type Tool struct {
	*tools.DefaultTool
	src   Source
	files Saver
	now   func() time.Time
	newID func() string
}

// Option configures the report tool.
type Option func(*Tool)

// WithClock replaces the clock used for file names.
func WithClock(now func() time.Time) Option {
	return func(t *Tool) {
		t.now = now
	}
}

// WithIDGenerator replaces the source of the suffix that keeps file names
// unique within one second.
func WithIDGenerator(fn func() string) Option {
	return func(t *Tool) {
		t.newID = fn
	}
}

func shortID() string {
	return uuid.NewString()[:8]
}

// NewTool creates the report.generate tool.
func NewTool(src Source, files Saver, opts ...Option) *Tool {
	t := &Tool{
		DefaultTool: tools.NewDefaultTool(
			"report.generate",
			"Genera reportes CSV/PDF (ventas|inventario|general)",
			tools.Schema{
				{Name: "type", Type: tools.TypeString, Description: "ventas, inventario o general"},
				{Name: "format", Type: tools.TypeString, Description: "csv o pdf (general siempre pdf)"},
			},
		),
		src:   src,
		files: files,
		now:   time.Now,
		newID: shortID,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// ParseKind accepts Spanish and English names. Empty means general.
func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ventas", "sales":
		return KindSales, true
	case "inventario", "inventory":
		return KindInventory, true
	case "general", "":
		return KindGeneral, true
	}
	return "", false
}

// ParseFormat accepts csv or pdf. Empty means csv.
func ParseFormat(s string) (Format, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv", "":
		return FormatCSV, true
	case "pdf":
		return FormatPDF, true
	}
	return "", false
}

// Call implements tools.Tool.
func (t *Tool) Call(ctx context.Context, args tools.Args) (tools.Result, error) {
	kind, ok := ParseKind(args.String("type", ""))
	if !ok {
		return tools.ErrorResult(jsonrpc.ValidationFailed,
			"type debe ser 'ventas', 'inventario' o 'general'"), nil
	}
	format, ok := ParseFormat(args.String("format", ""))
	if !ok {
		return tools.ErrorResult(jsonrpc.ValidationFailed, "format debe ser 'csv' o 'pdf'"), nil
	}
	if kind == KindGeneral {
		format = FormatPDF
	}

	data, err := t.render(t.src.Snapshot(), kind, format)
	if err != nil {
		return tools.Result{}, err
	}

	name := fmt.Sprintf("reporte_%s_%s_%s.%s", kind, t.now().Format(timestampLayout), t.newID(), format)
	link, err := t.files.Save(name, data)
	if err != nil {
		return tools.Result{}, fmt.Errorf("save report: %w", err)
	}
	return tools.TextResult(message(kind, format, link)), nil
}

func (t *Tool) render(snap *store.Snapshot, kind Kind, format Format) ([]byte, error) {
	if format == FormatCSV {
		table := store.InventoryTable(snap.Inventory)
		if kind == KindSales {
			table = store.SalesTable(snap.Sales, true)
		}
		return document.EncodeCSV(table)
	}

	data := document.EncodePDF(Build(snap, kind))
	if err := document.VerifyPDF(data); err != nil {
		return nil, fmt.Errorf("pdf self check: %w", err)
	}
	return data, nil
}

// Build lays out the PDF document for kind.
func Build(snap *store.Snapshot, kind Kind) document.Document {
	switch kind {
	case KindSales:
		lines := []string{"REPORTE DE VENTAS"}
		for _, r := range snap.Sales {
			lines = append(lines, fmt.Sprintf("%s - %s: %d u, %s c/u",
				r.Month, r.Product, r.Units, textfmt.Currency(r.UnitPrice)))
		}
		return document.New("Reporte de Ventas", lines)
	case KindInventory:
		lines := []string{"REPORTE INVENTARIO"}
		for _, r := range snap.Inventory {
			lines = append(lines, fmt.Sprintf("%s: stock %d / min %d", r.Product, r.Stock, r.MinRequired))
		}
		return document.New("Reporte de Inventario", lines)
	default:
		lines := []string{"REPORTE GENERAL"}
		lines = append(lines, strings.Split(sales.Summary("", snap.Sales), "\n")...)
		lines = append(lines, "")
		lines = append(lines, strings.Split(inventory.Status(snap.Inventory), "\n")...)
		return document.New("Reporte General", lines)
	}
}

func message(kind Kind, format Format, link string) string {
	switch {
	case kind == KindSales && format == FormatCSV:
		return "Reporte de ventas generado: " + link
	case kind == KindSales:
		return "Reporte PDF de ventas: " + link
	case kind == KindInventory && format == FormatCSV:
		return "Reporte de inventario generado: " + link
	case kind == KindInventory:
		return "Reporte PDF de inventario: " + link
	default:
		return "Reporte general PDF: " + link
	}
}
