package assistant

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"mcp-business-go/internal/jsonrpc"
	"mcp-business-go/internal/store"
	"mcp-business-go/internal/tools"
)

type staticCorpus struct {
	text string
	err  error
}

func (c staticCorpus) Text() (string, error) { return c.text, c.err }

func demoSnapshot() *store.Snapshot {
	return &store.Snapshot{Sales: store.DemoSales(), Inventory: store.DemoInventory()}
}

func TestKeywords(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"¿Cuál es la política de devoluciones?", "cuál, de, devoluciones, es, la, política"},
		{"ventas ventas VENTAS", "ventas"},
		{"?!", ""},
		{"stock_min 2024", "2024, stock_min"},
	}
	for _, tt := range tests {
		if got := Keywords(tt.in); got != tt.want {
			t.Errorf("Keywords(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestKeywords_Truncated(t *testing.T) {
	long := strings.Repeat("palabra ", 5) + strings.Repeat("x", 200)
	if got := Keywords(long); len([]rune(got)) != 120 {
		t.Errorf("Expected 120 characters, got %d", len([]rune(got)))
	}
}

func TestBuildContext(t *testing.T) {
	got := BuildContext(demoSnapshot(), "Manual interno")

	want := strings.Join([]string{
		"KPI ventas totales: $44,950.00 | TOP: Laptop Pro ($30,000.00)",
		"Inventario crítico: Laptop Pro, Monitor 27\"",
		"Docs: Manual interno",
	}, "\n")
	if got != want {
		t.Errorf("Unexpected context:\n%s\nwant:\n%s", got, want)
	}
}

func TestBuildContext_EmptyTablesAndLongDocs(t *testing.T) {
	got := BuildContext(&store.Snapshot{}, strings.Repeat("á", 400))
	lines := strings.Split(got, "\n")

	if lines[0] != "KPI ventas totales: $0.00 | " {
		t.Errorf("Unexpected KPI line: %q", lines[0])
	}
	if lines[1] != "Inventario crítico: ninguno" {
		t.Errorf("Unexpected inventory line: %q", lines[1])
	}
	if lines[2] != "Docs: "+strings.Repeat("á", 300)+"..." {
		t.Errorf("Docs excerpt not cut at 300 characters")
	}
}

func TestAnswerIsDeterministic(t *testing.T) {
	ctx := BuildContext(demoSnapshot(), "")
	first := Answer("Hola mundo", ctx)
	second := Answer("Hola mundo", ctx)

	if first != second {
		t.Error("Answer must be a pure function of its inputs")
	}
	want := "[LLM] Respuesta a: 'Hola mundo'. Contexto usado (" +
		strconv.Itoa(len([]rune(ctx))) + " chars). Palabras clave: hola, mundo"
	if first != want {
		t.Errorf("Answer = %q, want %q", first, want)
	}
	if !strings.HasSuffix(Answer("?!", ctx), "Palabras clave: n/a") {
		t.Error("Queries without words use n/a")
	}
}

func TestAskTool(t *testing.T) {
	src := store.New(store.DemoSales(), store.DemoInventory(), zerolog.Nop())
	tool := NewAskTool(src, staticCorpus{text: "docs"})

	res, err := tool.Call(context.Background(), tools.Args{"query": "¿Qué vendimos?"})
	if err != nil {
		t.Fatalf("Call failed: %v", err)
	}
	if !strings.HasPrefix(res.Text(), "[LLM] Respuesta a: '¿Qué vendimos?'.") {
		t.Errorf("Unexpected answer: %s", res.Text())
	}

	res, _ = tool.Call(context.Background(), tools.Args{"query": "  "})
	if !res.IsError || res.ErrorCode != jsonrpc.ValidationFailed {
		t.Errorf("Expected validation failure for blank query, got %+v", res)
	}

	broken := NewAskTool(src, staticCorpus{err: errors.New("io")})
	if _, err := broken.Call(context.Background(), tools.Args{"query": "x"}); err == nil {
		t.Error("Expected error for unreadable corpus")
	}
}
