// Package router maps free-form Spanish or English text onto a tool call.
//
// Rules are tried in a fixed order and the first match wins. Keyword tests
// run on folded text (lower case, no accents); free-text extraction such as
// a document query reads the original input.
package router

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"mcp-business-go/internal/textfold"
)

// FallbackTool receives any text no rule recognises.
const FallbackTool = "llm.ask"

// Intent is a resolved tool call.
type Intent struct {
	Tool      string         `json:"tool"`
	Arguments map[string]any `json:"arguments"`
}

// input carries both spellings of the user text.
type input struct {
	raw    string
	folded string
}

type rule struct {
	name  string
	match func(in input) (Intent, bool)
}

// rules is evaluated top to bottom.
var rules = []rule{
	{"report", matchReport},
	{"top", matchTop},
	{"summary", matchSummary},
	{"reorder", matchReorder},
	{"inventory", matchInventory},
	{"docs", matchDocs},
}

var (
	reportRe    = regexp.MustCompile(`\b(reportes?|informes?|reports?|genera|generar|generate|exporta|exportar|export)\b`)
	pdfRe       = regexp.MustCompile(`\bpdf\b`)
	csvRe       = regexp.MustCompile(`\bcsv\b`)
	inventoryRe = regexp.MustCompile(`\b(inventarios?|stock|existencias|almacen(es)?|inventory|warehouse)\b`)
	salesRe     = regexp.MustCompile(`\b(ventas?|facturacion|ingresos|sales|revenue)\b`)
	productRe   = regexp.MustCompile(`\b(productos?|products?|unidades|units)\b`)
	topRe       = regexp.MustCompile(`\btop\s*(\d+)|\btop\b|\blos\s+(\d+)\s+mas\b|\b(\d+)\s+most\b`)
	unitsRe     = regexp.MustCompile(`\b(unidades|units)\b`)
	revenueRe   = regexp.MustCompile(`\b(ventas|facturacion|ingresos|sales|revenue)\b`)
	summaryRe   = regexp.MustCompile(`\b(ventas?|facturacion|ingresos|sales|resumen|summary)\b`)
	reorderRe   = regexp.MustCompile(`\b(reabastec\w*|reorden\w*|reponer|replenish\w*|reorder\w*)`)
	suggestRe   = regexp.MustCompile(`\b(sugerencias?|suggest\w*)`)
	leadRe      = regexp.MustCompile(`\blead\s*(?:time\s*)?[:=]?\s*(\d+)`)
	safetyRe    = regexp.MustCompile(`(?:safety\s*factor|factor\s*(?:de\s*)?seguridad)\s*[:=]?\s*(\d+(?:[.,]\d+)?)`)
	docsRe      = regexp.MustCompile(`\b(docs?|documentos?|documents?|politicas?|policy|policies|manual(es)?|procedimientos?)\b`)
	quotedRe    = regexp.MustCompile(`["“]([^"“”]+)["”]`)
	aboutRe     = regexp.MustCompile(`(?i)\b(?:sobre|acerca\s+de|about|regarding)\s+(.+)$`)
)

// months maps folded month names to their canonical Spanish spelling. The
// English "may" is left out because it is an ordinary word.
var months = map[string]string{
	"enero": "Enero", "febrero": "Febrero", "marzo": "Marzo", "abril": "Abril",
	"mayo": "Mayo", "junio": "Junio", "julio": "Julio", "agosto": "Agosto",
	"septiembre": "Septiembre", "setiembre": "Septiembre", "octubre": "Octubre",
	"noviembre": "Noviembre", "diciembre": "Diciembre",
	"january": "Enero", "february": "Febrero", "march": "Marzo", "april": "Abril",
	"june": "Junio", "july": "Julio", "august": "Agosto", "september": "Septiembre",
	"october": "Octubre", "november": "Noviembre", "december": "Diciembre",
}

var monthRe = regexp.MustCompile(`\b(` + strings.Join(monthNames(), "|") + `)\b`)

func monthNames() []string {
	names := make([]string, 0, len(months))
	for k := range months {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Route returns the intent for text, or false when no rule matches.
func Route(text string) (Intent, bool) {
	in := input{raw: strings.TrimSpace(text)}
	in.folded = textfold.Fold(in.raw)
	if in.folded == "" {
		return Intent{}, false
	}
	for _, r := range rules {
		if intent, ok := r.match(in); ok {
			return intent, true
		}
	}
	return Intent{}, false
}

// Resolve is Route with the fallback applied: unmatched text becomes an
// llm.ask call carrying the original text.
func Resolve(text string) Intent {
	if intent, ok := Route(text); ok {
		return intent
	}
	return Intent{Tool: FallbackTool, Arguments: map[string]any{"query": text}}
}

func matchReport(in input) (Intent, bool) {
	if !reportRe.MatchString(in.folded) {
		return Intent{}, false
	}
	format := "pdf"
	if csvRe.MatchString(in.folded) && !pdfRe.MatchString(in.folded) {
		format = "csv"
	}
	kind := "general"
	switch {
	case inventoryRe.MatchString(in.folded):
		kind = "inventario"
	case salesRe.MatchString(in.folded):
		kind = "ventas"
	}
	return Intent{
		Tool:      "report.generate",
		Arguments: map[string]any{"type": kind, "format": format},
	}, true
}

func matchTop(in input) (Intent, bool) {
	m := topRe.FindStringSubmatch(in.folded)
	if m == nil {
		return Intent{}, false
	}
	if !salesRe.MatchString(in.folded) && !productRe.MatchString(in.folded) {
		return Intent{}, false
	}
	n := 5
	for _, g := range m[1:] {
		if v, err := strconv.Atoi(g); err == nil && v > 0 {
			n = v
			break
		}
	}
	by := "revenue"
	if unitsRe.MatchString(in.folded) && !revenueRe.MatchString(in.folded) {
		by = "units"
	}
	return Intent{
		Tool:      "sales.top",
		Arguments: map[string]any{"n": n, "by": by},
	}, true
}

func matchSummary(in input) (Intent, bool) {
	if !summaryRe.MatchString(in.folded) {
		return Intent{}, false
	}
	args := map[string]any{}
	if m := monthRe.FindString(in.folded); m != "" {
		args["month"] = months[m]
	}
	return Intent{Tool: "sales.summary", Arguments: args}, true
}

func matchReorder(in input) (Intent, bool) {
	if !reorderRe.MatchString(in.folded) &&
		!(inventoryRe.MatchString(in.folded) && suggestRe.MatchString(in.folded)) {
		return Intent{}, false
	}
	args := map[string]any{}
	if m := leadRe.FindStringSubmatch(in.folded); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil {
			args["lead_time_days"] = v
		}
	}
	if m := safetyRe.FindStringSubmatch(in.folded); m != nil {
		if v, err := strconv.ParseFloat(strings.Replace(m[1], ",", ".", 1), 64); err == nil {
			args["safety_factor"] = v
		}
	}
	return Intent{Tool: "inventory.reorder_suggestions", Arguments: args}, true
}

func matchInventory(in input) (Intent, bool) {
	if !inventoryRe.MatchString(in.folded) {
		return Intent{}, false
	}
	return Intent{Tool: "inventory.status", Arguments: map[string]any{}}, true
}

func matchDocs(in input) (Intent, bool) {
	if !docsRe.MatchString(in.folded) {
		return Intent{}, false
	}
	q := docsQuery(in.raw)
	if q == "" {
		return Intent{}, false
	}
	return Intent{Tool: "docs.search", Arguments: map[string]any{"q": q}}, true
}

// docsQuery picks quoted text, else the text after "sobre"/"about", else
// the first six words of five or more letters.
func docsQuery(raw string) string {
	if m := quotedRe.FindStringSubmatch(raw); m != nil {
		if q := strings.TrimSpace(m[1]); q != "" {
			return q
		}
	}
	if m := aboutRe.FindStringSubmatch(raw); m != nil {
		if q := strings.TrimRight(strings.TrimSpace(m[1]), "?!.¿¡ "); q != "" {
			return q
		}
	}
	words := strings.FieldsFunc(raw, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	var long []string
	for _, w := range words {
		if utf8.RuneCountInString(w) >= 5 {
			long = append(long, w)
			if len(long) == 6 {
				break
			}
		}
	}
	return strings.Join(long, " ")
}
