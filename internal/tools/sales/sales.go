// Package sales implements the sales.summary and sales.top tools.
package sales

import (
	"context"
	"fmt"
	"strconv"

	"mcp-business-go/internal/store"
	"mcp-business-go/internal/tools"
	"mcp-business-go/internal/tools/textfmt"
)

// Source yields the tables a call reads from.
type Source interface {
	Snapshot() *store.Snapshot
}

// SummaryTool reports total revenue and revenue per product.
type SummaryTool struct {
	*tools.DefaultTool
	src Source
}

// NewSummaryTool creates the sales.summary tool.
func NewSummaryTool(src Source) *SummaryTool {
	return &SummaryTool{
		DefaultTool: tools.NewDefaultTool(
			"sales.summary",
			"Resumen de ventas (opcional: month)",
			tools.Schema{
				{Name: "month", Type: tools.TypeString, Description: "Mes a filtrar, p. ej. Agosto"},
			},
		),
		src: src,
	}
}

// Call implements tools.Tool.
func (t *SummaryTool) Call(ctx context.Context, args tools.Args) (tools.Result, error) {
	month := args.String("month", "")
	rows := t.src.Snapshot().FilterMonth(month)
	return tools.TextResult(Summary(month, rows)), nil
}

// Summary renders the summary block for rows already filtered by month.
func Summary(month string, rows []store.SalesRecord) string {
	label := month
	if label == "" {
		label = "todos"
	}
	lines := []string{
		fmt.Sprintf("RESUMEN DE VENTAS (%s)", label),
		"Ingreso total: " + textfmt.Currency(store.TotalRevenue(rows)),
		"Por producto:",
	}
	for _, p := range store.GroupByProduct(rows, store.MetricRevenue) {
		lines = append(lines, textfmt.Bullet(p.Product, textfmt.Currency(p.Value)))
	}
	return textfmt.Lines(lines...)
}

// TopTool ranks products by revenue or units.
type TopTool struct {
	*tools.DefaultTool
	src Source
}

// NewTopTool creates the sales.top tool.
func NewTopTool(src Source) *TopTool {
	return &TopTool{
		DefaultTool: tools.NewDefaultTool(
			"sales.top",
			"Top N productos por revenue|units",
			tools.Schema{
				{Name: "n", Type: tools.TypeInteger, Description: "Cantidad de productos (por defecto 5)"},
				{Name: "by", Type: tools.TypeString, Description: "revenue o units"},
			},
		),
		src: src,
	}
}

// Call implements tools.Tool.
func (t *TopTool) Call(ctx context.Context, args tools.Args) (tools.Result, error) {
	n := args.Int("n", store.DefaultTopN)
	if n <= 0 {
		n = store.DefaultTopN
	}
	metric := store.ParseMetric(args.String("by", ""))

	lines := []string{fmt.Sprintf("TOP %d productos por %s:", n, metric)}
	for _, p := range store.Top(t.src.Snapshot().Sales, metric, n) {
		value := strconv.Itoa(int(p.Value))
		if metric == store.MetricRevenue {
			value = textfmt.Currency(p.Value)
		}
		lines = append(lines, textfmt.Bullet(p.Product, value))
	}
	return tools.TextResult(textfmt.Lines(lines...)), nil
}
