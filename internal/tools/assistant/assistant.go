// Package assistant implements llm.ask, a deterministic stand-in for a
// language model. The answer is a pure function of the query and a context
// block built from the tables and the document corpus.
package assistant

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"mcp-business-go/internal/jsonrpc"
	"mcp-business-go/internal/store"
	"mcp-business-go/internal/tools"
	"mcp-business-go/internal/tools/textfmt"
)

const (
	maxKeywordChars = 120
	maxDocsExcerpt  = 300
)

// Source yields the tables a call reads from.
type Source interface {
	Snapshot() *store.Snapshot
}

// Corpus yields the concatenated document text.
type Corpus interface {
	Text() (string, error)
}

// AskTool answers a natural-language question.
type AskTool struct {
	*tools.DefaultTool
	src    Source
	corpus Corpus
}

// NewAskTool creates the llm.ask tool.
func NewAskTool(src Source, corpus Corpus) *AskTool {
	return &AskTool{
		DefaultTool: tools.NewDefaultTool(
			"llm.ask",
			"Pregunta en lenguaje natural usando contexto de ventas+inventario+docs",
			tools.Schema{
				{Name: "query", Type: tools.TypeString, Description: "Pregunta libre", Required: true},
			},
		),
		src:    src,
		corpus: corpus,
	}
}

// Call implements tools.Tool.
func (t *AskTool) Call(ctx context.Context, args tools.Args) (tools.Result, error) {
	query := args.String("query", "")
	if query == "" {
		return tools.ErrorResult(jsonrpc.ValidationFailed, "Falta 'query'"), nil
	}
	docs, err := t.corpus.Text()
	if err != nil {
		return tools.Result{}, fmt.Errorf("read docs: %w", err)
	}
	return tools.TextResult(Answer(query, BuildContext(t.src.Snapshot(), docs))), nil
}

// BuildContext summarises the tables and the corpus in three lines.
func BuildContext(snap *store.Snapshot, docs string) string {
	kpi := "KPI ventas totales: " + textfmt.Currency(store.TotalRevenue(snap.Sales)) + " | "
	if top := store.Top(snap.Sales, store.MetricRevenue, 1); len(top) > 0 {
		kpi += fmt.Sprintf("TOP: %s (%s)", top[0].Product, textfmt.Currency(top[0].Value))
	}

	critical := "ninguno"
	if rows := snap.Critical(); len(rows) > 0 {
		names := make([]string, len(rows))
		for i, r := range rows {
			names[i] = r.Product
		}
		critical = strings.Join(names, ", ")
	}

	excerpt := docs
	if utf8.RuneCountInString(docs) > maxDocsExcerpt {
		excerpt = string([]rune(docs)[:maxDocsExcerpt]) + "..."
	}

	return textfmt.Lines(
		kpi,
		"Inventario crítico: "+critical,
		"Docs: "+excerpt,
	)
}

// Answer composes the reply for query given a context block.
func Answer(query, context string) string {
	hints := Keywords(query)
	if hints == "" {
		hints = "n/a"
	}
	return fmt.Sprintf("[LLM] Respuesta a: '%s'. Contexto usado (%d chars). Palabras clave: %s",
		query, utf8.RuneCountInString(context), hints)
}

// Keywords returns the distinct lower-case words of query, sorted and
// comma-joined, cut to 120 characters.
func Keywords(query string) string {
	words := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
	seen := make(map[string]bool, len(words))
	uniq := words[:0]
	for _, w := range words {
		if !seen[w] {
			seen[w] = true
			uniq = append(uniq, w)
		}
	}
	sort.Strings(uniq)

	out := strings.Join(uniq, ", ")
	if utf8.RuneCountInString(out) > maxKeywordChars {
		out = string([]rune(out)[:maxKeywordChars])
	}
	return out
}
