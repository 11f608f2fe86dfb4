package store

import (
	"math"
	"sort"
	"strings"
)

// DefaultTopN is used when a top-N request carries no positive N.
const DefaultTopN = 5

// Metric selects what top-N and grouping computations add up.
type Metric string

const (
	MetricRevenue Metric = "revenue"
	MetricUnits   Metric = "units"
)

// ParseMetric maps "units" to MetricUnits and anything else to MetricRevenue.
func ParseMetric(s string) Metric {
	if lower(s) == string(MetricUnits) {
		return MetricUnits
	}
	return MetricRevenue
}

// ProductTotal is an aggregated value for one product.
type ProductTotal struct {
	Product string
	Value   float64
}

// FilterMonth returns the sales rows whose month equals month, ignoring case.
// An empty month selects every row.
func (s *Snapshot) FilterMonth(month string) []SalesRecord {
	month = strings.TrimSpace(month)
	if month == "" {
		return s.Sales
	}
	var out []SalesRecord
	for _, r := range s.Sales {
		if strings.EqualFold(strings.TrimSpace(r.Month), month) {
			out = append(out, r)
		}
	}
	return out
}

// TotalRevenue sums units*unit_price over the rows of the given month.
func (s *Snapshot) TotalRevenue(month string) float64 {
	return TotalRevenue(s.FilterMonth(month))
}

// TotalRevenue sums the revenue of rows in order.
func TotalRevenue(rows []SalesRecord) float64 {
	var total float64
	for _, r := range rows {
		total += r.Revenue()
	}
	return total
}

// GroupByProduct totals metric per product, largest first. Products with
// equal totals keep the order in which they first appear in rows.
func GroupByProduct(rows []SalesRecord, metric Metric) []ProductTotal {
	index := make(map[string]int)
	var totals []ProductTotal
	for _, r := range rows {
		i, ok := index[r.Product]
		if !ok {
			i = len(totals)
			index[r.Product] = i
			totals = append(totals, ProductTotal{Product: r.Product})
		}
		if metric == MetricUnits {
			totals[i].Value += float64(r.Units)
		} else {
			totals[i].Value += r.Revenue()
		}
	}

	sort.SliceStable(totals, func(a, b int) bool {
		return totals[a].Value > totals[b].Value
	})
	return totals
}

// Top returns at most n products by metric. n <= 0 means DefaultTopN.
func Top(rows []SalesRecord, metric Metric, n int) []ProductTotal {
	if n <= 0 {
		n = DefaultTopN
	}
	totals := GroupByProduct(rows, metric)
	if len(totals) > n {
		totals = totals[:n]
	}
	return totals
}

// Critical returns the inventory rows whose stock is below the minimum.
func (s *Snapshot) Critical() []InventoryRecord {
	var out []InventoryRecord
	for _, r := range s.Inventory {
		if r.Critical() {
			out = append(out, r)
		}
	}
	return out
}

// Reorder defaults.
const (
	DefaultLeadTimeDays = 7
	DefaultSafetyFactor = 1.2
)

// quantityTolerance absorbs float noise such as 10*1.2 = 12.000000000000002.
const quantityTolerance = 1e-9

// ReorderPlan parameterises reorder suggestions.
type ReorderPlan struct {
	LeadTimeDays int
	SafetyFactor float64
}

// DefaultReorderPlan returns a plan with lead time 7 days and safety factor 1.2.
func DefaultReorderPlan() ReorderPlan {
	return ReorderPlan{
		LeadTimeDays: DefaultLeadTimeDays,
		SafetyFactor: DefaultSafetyFactor,
	}
}

// Suggestion is a quantity to order for one critical product.
type Suggestion struct {
	Product  string
	Stock    int
	Quantity int
}

// ReorderQuantity is ceil(max(0, min_required*safety - stock)).
func ReorderQuantity(r InventoryRecord, safety float64) int {
	need := float64(r.MinRequired)*safety - float64(r.Stock)
	if need <= quantityTolerance {
		return 0
	}
	return int(math.Ceil(need - quantityTolerance))
}

// Suggest computes a suggestion for every critical row, in table order.
func (p ReorderPlan) Suggest(s *Snapshot) []Suggestion {
	var out []Suggestion
	for _, r := range s.Critical() {
		out = append(out, Suggestion{
			Product:  r.Product,
			Stock:    r.Stock,
			Quantity: ReorderQuantity(r, p.SafetyFactor),
		})
	}
	return out
}
