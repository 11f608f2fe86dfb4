package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"mcp-business-go/internal/document"
	"mcp-business-go/internal/jsonrpc"
	"mcp-business-go/internal/store"
	"mcp-business-go/internal/tools"
)

type memSaver struct {
	files map[string][]byte
	err   error
}

func (m *memSaver) Save(name string, data []byte) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.files[name] = data
	return "/files/" + name, nil
}

func fixedClock() time.Time {
	return time.Date(2024, 9, 1, 10, 15, 0, 0, time.UTC)
}

func newTestTool() (*Tool, *memSaver) {
	saver := &memSaver{files: map[string][]byte{}}
	src := store.New(store.DemoSales(), store.DemoInventory(), zerolog.Nop())
	return NewTool(src, saver, WithClock(fixedClock), WithIDGenerator(func() string { return "a1b2c3d4" })), saver
}

func TestGenerate(t *testing.T) {
	tests := []struct {
		args    tools.Args
		file    string
		message string
	}{
		{tools.Args{"type": "ventas", "format": "csv"}, "reporte_ventas_20240901_101500_a1b2c3d4.csv", "Reporte de ventas generado: /files/reporte_ventas_20240901_101500_a1b2c3d4.csv"},
		{tools.Args{"type": "ventas", "format": "pdf"}, "reporte_ventas_20240901_101500_a1b2c3d4.pdf", "Reporte PDF de ventas: /files/reporte_ventas_20240901_101500_a1b2c3d4.pdf"},
		{tools.Args{"type": "inventario"}, "reporte_inventario_20240901_101500_a1b2c3d4.csv", "Reporte de inventario generado: /files/reporte_inventario_20240901_101500_a1b2c3d4.csv"},
		{tools.Args{"type": "INVENTORY", "format": "PDF"}, "reporte_inventario_20240901_101500_a1b2c3d4.pdf", "Reporte PDF de inventario: /files/reporte_inventario_20240901_101500_a1b2c3d4.pdf"},
		{tools.Args{}, "reporte_general_20240901_101500_a1b2c3d4.pdf", "Reporte general PDF: /files/reporte_general_20240901_101500_a1b2c3d4.pdf"},
		{tools.Args{"type": "general", "format": "csv"}, "reporte_general_20240901_101500_a1b2c3d4.pdf", "Reporte general PDF: /files/reporte_general_20240901_101500_a1b2c3d4.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			tool, saver := newTestTool()
			res, err := tool.Call(context.Background(), tt.args)
			if err != nil {
				t.Fatalf("Call failed: %v", err)
			}
			if res.Text() != tt.message {
				t.Errorf("Message = %q, want %q", res.Text(), tt.message)
			}
			data, ok := saver.files[tt.file]
			if !ok {
				t.Fatalf("File %s not saved; have %v", tt.file, saver.files)
			}
			if strings.HasSuffix(tt.file, ".pdf") {
				if err := document.VerifyPDF(data); err != nil {
					t.Errorf("Invalid PDF: %v", err)
				}
			}
		})
	}
}

func TestGenerate_SalesCSVContent(t *testing.T) {
	tool, saver := newTestTool()
	if _, err := tool.Call(context.Background(), tools.Args{"type": "ventas", "format": "csv"}); err != nil {
		t.Fatalf("Call failed: %v", err)
	}

	records, err := csv.NewReader(bytes.NewReader(saver.files["reporte_ventas_20240901_101500_a1b2c3d4.csv"])).ReadAll()
	if err != nil {
		t.Fatalf("Failed to parse CSV: %v", err)
	}
	if strings.Join(records[0], ",") != "month,product,units,unit_price,revenue" {
		t.Errorf("Unexpected header: %v", records[0])
	}
	if len(records) != 7 {
		t.Errorf("Expected 7 records, got %d", len(records))
	}
	if records[4][1] != `Monitor 27"` || records[4][4] != "6000" {
		t.Errorf("Unexpected row: %v", records[4])
	}
}

func TestGenerate_SameSecondNamesDiffer(t *testing.T) {
	saver := &memSaver{files: map[string][]byte{}}
	src := store.New(store.DemoSales(), store.DemoInventory(), zerolog.Nop())
	tool := NewTool(src, saver, WithClock(fixedClock))

	var links []string
	for i := 0; i < 2; i++ {
		res, err := tool.Call(context.Background(), tools.Args{"type": "ventas", "format": "csv"})
		if err != nil || res.IsError {
			t.Fatalf("Call failed: %v %+v", err, res)
		}
		links = append(links, res.Text())
	}
	if links[0] == links[1] {
		t.Errorf("Reports generated in the same second share a link: %s", links[0])
	}
	if len(saver.files) != 2 {
		t.Errorf("Expected 2 stored files, got %d", len(saver.files))
	}
	for name := range saver.files {
		if !strings.HasPrefix(name, "reporte_ventas_20240901_101500_") || !strings.HasSuffix(name, ".csv") {
			t.Errorf("Unexpected file name %s", name)
		}
	}
}

func TestGenerate_InvalidArguments(t *testing.T) {
	tool, saver := newTestTool()
	for _, args := range []tools.Args{
		{"type": "clientes"},
		{"type": "ventas", "format": "xlsx"},
	} {
		res, err := tool.Call(context.Background(), args)
		if err != nil {
			t.Fatalf("Call failed: %v", err)
		}
		if !res.IsError || res.ErrorCode != jsonrpc.ValidationFailed {
			t.Errorf("Expected validation failure for %v, got %+v", args, res)
		}
	}
	if len(saver.files) != 0 {
		t.Error("No file may be written for invalid arguments")
	}
}

func TestGenerate_SaveFailureIsFault(t *testing.T) {
	tool, saver := newTestTool()
	saver.err = errors.New("read-only file system")

	if _, err := tool.Call(context.Background(), tools.Args{"type": "ventas"}); err == nil {
		t.Error("Expected error when the file cannot be saved")
	}
}

func TestBuild_General(t *testing.T) {
	snap := &store.Snapshot{Sales: store.DemoSales(), Inventory: store.DemoInventory()}
	doc := Build(snap, KindGeneral)

	lines := doc.Lines()
	if doc.Title() != "Reporte General" || lines[0] != "REPORTE GENERAL" {
		t.Errorf("Unexpected header: %q %q", doc.Title(), lines[0])
	}
	joined := strings.Join(lines, "\n")
	for _, want := range []string{"Ingreso total: $44,950.00", "ESTADO DE INVENTARIO:", "Laptop Pro: 8 (mín 10) → CRÍTICO"} {
		if !strings.Contains(joined, want) {
			t.Errorf("General report lacks %q", want)
		}
	}
	for _, ln := range lines {
		if strings.Contains(ln, "\n") {
			t.Errorf("Line contains newline: %q", ln)
		}
	}
}
