// Package docs implements the docs.search tool.
package docs

import (
	"context"
	"fmt"
	"strings"

	"mcp-business-go/internal/jsonrpc"
	"mcp-business-go/internal/tools"
)

// Searcher finds corpus documents containing a query.
type Searcher interface {
	Search(q string) ([]string, error)
}

// SearchTool lists the documents that mention a query.
type SearchTool struct {
	*tools.DefaultTool
	corpus Searcher
}

func NewSearchTool(corpus Searcher) *SearchTool {
	return &SearchTool{
		DefaultTool: tools.NewDefaultTool(
			"docs.search",
			"Búsqueda simple en documentos internos (.txt)",
			tools.Schema{
				{Name: "q", Type: tools.TypeString, Description: "Texto a buscar", Required: true},
			},
		),
		corpus: corpus,
	}
}

func (t *SearchTool) Call(ctx context.Context, args tools.Args) (tools.Result, error) {
	q := args.String("q", "")
	if q == "" {
		return tools.ErrorResult(jsonrpc.ValidationFailed, "Proporcione 'q' (query)."), nil
	}
	found, err := t.corpus.Search(q)
	if err != nil {
		return tools.Result{}, fmt.Errorf("search docs: %w", err)
	}
	if len(found) == 0 {
		return tools.TextResult("Coincidencias: ninguna"), nil
	}
	return tools.TextResult("Coincidencias: " + strings.Join(found, ", ")), nil
}
