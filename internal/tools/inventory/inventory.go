// Package inventory implements the inventory.status and
// inventory.reorder_suggestions tools.
package inventory

import (
	"context"
	"fmt"
	"strconv"

	"mcp-business-go/internal/jsonrpc"
	"mcp-business-go/internal/store"
	"mcp-business-go/internal/tools"
	"mcp-business-go/internal/tools/textfmt"
)

// Source yields the tables a call reads from.
type Source interface {
	Snapshot() *store.Snapshot
}

// StatusTool lists every product with its critical/OK flag.
type StatusTool struct {
	*tools.DefaultTool
	src Source
}

func NewStatusTool(src Source) *StatusTool {
	return &StatusTool{
		DefaultTool: tools.NewDefaultTool(
			"inventory.status",
			"Estado actual del inventario (críticos/OK)",
			nil,
		),
		src: src,
	}
}

func (t *StatusTool) Call(ctx context.Context, args tools.Args) (tools.Result, error) {
	return tools.TextResult(Status(t.src.Snapshot().Inventory)), nil
}

// Status renders one line per inventory row.
func Status(rows []store.InventoryRecord) string {
	lines := []string{"ESTADO DE INVENTARIO:"}
	for _, r := range rows {
		flag := "OK"
		if r.Critical() {
			flag = "CRÍTICO"
		}
		lines = append(lines, textfmt.Bullet(r.Product,
			fmt.Sprintf("%d (mín %d) → %s", r.Stock, r.MinRequired, flag)))
	}
	return textfmt.Lines(lines...)
}

// ReorderTool suggests order quantities for critical products.
type ReorderTool struct {
	*tools.DefaultTool
	src Source
}

func NewReorderTool(src Source) *ReorderTool {
	return &ReorderTool{
		DefaultTool: tools.NewDefaultTool(
			"inventory.reorder_suggestions",
			"Sugerencias de reabastecimiento",
			tools.Schema{
				{Name: "lead_time_days", Type: tools.TypeInteger, Description: "Días de entrega (por defecto 7)"},
				{Name: "safety_factor", Type: tools.TypeNumber, Description: "Factor de seguridad (por defecto 1.2)"},
			},
		),
		src: src,
	}
}

func (t *ReorderTool) Call(ctx context.Context, args tools.Args) (tools.Result, error) {
	plan := store.ReorderPlan{
		LeadTimeDays: args.Int("lead_time_days", store.DefaultLeadTimeDays),
		SafetyFactor: args.Float("safety_factor", store.DefaultSafetyFactor),
	}
	if plan.LeadTimeDays < 0 {
		return tools.ErrorResult(jsonrpc.ValidationFailed, "lead_time_days no puede ser negativo"), nil
	}
	if plan.SafetyFactor <= 0 {
		return tools.ErrorResult(jsonrpc.ValidationFailed, "safety_factor debe ser mayor que cero"), nil
	}

	lines := []string{
		"SUGERENCIAS DE REABASTECIMIENTO:",
		fmt.Sprintf("Lead time: %d días | Factor de seguridad: %s",
			plan.LeadTimeDays, strconv.FormatFloat(plan.SafetyFactor, 'f', -1, 64)),
	}
	suggestions := plan.Suggest(t.src.Snapshot())
	if len(suggestions) == 0 {
		lines = append(lines, " Todo en orden.")
	}
	for _, s := range suggestions {
		lines = append(lines, textfmt.Bullet(s.Product,
			fmt.Sprintf("pedir %d (stock %d, lead %d días)", s.Quantity, s.Stock, plan.LeadTimeDays)))
	}
	return tools.TextResult(textfmt.Lines(lines...)), nil
}
