package console

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"mcp-business-go/internal/jsonrpc"
	"mcp-business-go/pkg/client"
)

type call struct {
	name string
	args map[string]any
}

// fakeAPI records tool calls and answers with canned responses.
type fakeAPI struct {
	calls []call
	resp  *client.CallResponse
	err   error
}

func (f *fakeAPI) ListTools(ctx context.Context) ([]client.Tool, error) {
	return []client.Tool{{Name: "sales.summary", Description: "Resumen de ventas"}}, nil
}

func (f *fakeAPI) CallTool(ctx context.Context, name string, args map[string]any) (*client.CallResponse, error) {
	f.calls = append(f.calls, call{name, args})
	if f.err != nil {
		return nil, f.err
	}
	if f.resp != nil {
		return f.resp, nil
	}
	return &client.CallResponse{
		Status: 200,
		Result: &client.Result{Content: []client.Content{{Type: "text", Text: "respuesta de " + name}}},
	}, nil
}

func (f *fakeAPI) Health(ctx context.Context) (map[string]any, error) {
	return map[string]any{"status": "healthy"}, nil
}

func TestParseArgs(t *testing.T) {
	tests := []struct {
		in   string
		want map[string]any
	}{
		{"", map[string]any{}},
		{"month=Agosto", map[string]any{"month": "Agosto"}},
		{"n=3 by=units", map[string]any{"n": 3, "by": "units"}},
		{"lead_time_days=10 safety_factor=1.3", map[string]any{"lead_time_days": 10, "safety_factor": 1.3}},
		{`q="inventario de seguridad"`, map[string]any{"q": "inventario de seguridad"}},
		{`q='política'`, map[string]any{"q": "política"}},
		{`{"n": 2, "by": "revenue"}`, map[string]any{"n": float64(2), "by": "revenue"}},
		{"stray n=1", map[string]any{"n": 1}},
		{"x=inf", map[string]any{"x": "inf"}},
		{"null", map[string]any{}},
	}
	for _, tt := range tests {
		if got := ParseArgs(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParseArgs(%q) = %#v, want %#v", tt.in, got, tt.want)
		}
	}
}

func TestHandle_Commands(t *testing.T) {
	tests := []struct {
		line string
		want call
	}{
		{"/inv", call{"inventory.status", nil}},
		{"/sales month=Agosto", call{"sales.summary", map[string]any{"month": "Agosto"}}},
		{"/top n=3 by=units", call{"sales.top", map[string]any{"n": 3, "by": "units"}}},
		{"/reorder lead_time_days=10", call{"inventory.reorder_suggestions", map[string]any{"lead_time_days": 10}}},
		{"/report type=ventas format=pdf", call{"report.generate", map[string]any{"type": "ventas", "format": "pdf"}}},
		{`/docs q="stock mínimo"`, call{"docs.search", map[string]any{"q": "stock mínimo"}}},
		{`/ask "¿cómo vamos?"`, call{"llm.ask", map[string]any{"query": "¿cómo vamos?"}}},
		{"Top 3 productos por unidades", call{"sales.top", map[string]any{"n": 3, "by": "units"}}},
		{"hola", call{"llm.ask", map[string]any{"query": "hola"}}},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			api := &fakeAPI{}
			var out bytes.Buffer
			if !New(api, &out).Handle(context.Background(), tt.line) {
				t.Fatal("Session ended unexpectedly")
			}
			if len(api.calls) != 1 {
				t.Fatalf("Expected one call, got %v", api.calls)
			}
			got := api.calls[0]
			if got.name != tt.want.name || (len(tt.want.args) > 0 && !reflect.DeepEqual(got.args, tt.want.args)) {
				t.Errorf("Call = %+v, want %+v", got, tt.want)
			}
			if !strings.Contains(out.String(), "respuesta de "+tt.want.name) {
				t.Errorf("Output lacks the tool answer: %q", out.String())
			}
		})
	}
}

func TestHandle_UsageHints(t *testing.T) {
	for _, line := range []string{"/ask", "/docs", "/docs q=", "/ingest kind=sales", "/nope"} {
		api := &fakeAPI{}
		var out bytes.Buffer
		New(api, &out).Handle(context.Background(), line)
		if len(api.calls) != 0 {
			t.Errorf("%q must not call a tool, got %v", line, api.calls)
		}
		if out.Len() == 0 {
			t.Errorf("%q printed nothing", line)
		}
	}
}

func TestHandle_Quit(t *testing.T) {
	s := New(&fakeAPI{}, &bytes.Buffer{})
	for _, line := range []string{"/quit", "salir", "EXIT"} {
		if s.Handle(context.Background(), line) {
			t.Errorf("%q should end the session", line)
		}
	}
}

func TestHandle_Ingest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ventas.csv")
	csv := "month,product,units,unit_price\nAgosto,Cable,3,2.5\n"
	if err := os.WriteFile(path, []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}

	api := &fakeAPI{}
	New(api, &bytes.Buffer{}).Handle(context.Background(), "/ingest kind=sales path="+path)
	if len(api.calls) != 1 || api.calls[0].name != "admin.ingest_csv" {
		t.Fatalf("Unexpected calls: %v", api.calls)
	}
	encoded, _ := api.calls[0].args["csv_base64"].(string)
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil || string(decoded) != csv || api.calls[0].args["kind"] != "sales" {
		t.Errorf("Unexpected ingest args: %v", api.calls[0].args)
	}

	var out bytes.Buffer
	api = &fakeAPI{}
	New(api, &out).Handle(context.Background(), "/ingest kind=sales path="+filepath.Join(t.TempDir(), "missing.csv"))
	if len(api.calls) != 0 || !strings.Contains(out.String(), "Archivo no encontrado") {
		t.Errorf("Missing file must be reported locally: %q", out.String())
	}
}

func TestHandle_Errors(t *testing.T) {
	var out bytes.Buffer
	api := &fakeAPI{resp: &client.CallResponse{
		Status: 400,
		Error:  &jsonrpc.Error{Code: jsonrpc.ToolNotFound, Message: "Tool 'x' no encontrado"},
	}}
	New(api, &out).Handle(context.Background(), "/inv")
	if !strings.Contains(out.String(), "Error [400]") || !strings.Contains(out.String(), "Tool 'x' no encontrado") {
		t.Errorf("Unexpected output: %q", out.String())
	}

	out.Reset()
	api = &fakeAPI{err: errors.New("connection refused")}
	New(api, &out).Handle(context.Background(), "/inv")
	if !strings.Contains(out.String(), "connection refused") {
		t.Errorf("Unexpected output: %q", out.String())
	}
}

func TestRun(t *testing.T) {
	api := &fakeAPI{}
	var out bytes.Buffer
	in := strings.NewReader("/tools\n\n/health\n/inv\n/quit\n/sales\n")

	if err := New(api, &out).Run(context.Background(), in); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	text := out.String()
	for _, want := range []string{"MCP Empresa", "Herramientas", "sales.summary: Resumen de ventas", "healthy"} {
		if !strings.Contains(text, want) {
			t.Errorf("Output lacks %q", want)
		}
	}
	if len(api.calls) != 1 || api.calls[0].name != "inventory.status" {
		t.Errorf("Commands after /quit must not run: %v", api.calls)
	}
}
