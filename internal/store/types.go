package store

// SalesRecord is one row of the sales table.
type SalesRecord struct {
	Month     string  `json:"month"`
	Product   string  `json:"product"`
	Units     int     `json:"units"`
	UnitPrice float64 `json:"unit_price"`
}

// Revenue is always derived from units and unit price.
func (r SalesRecord) Revenue() float64 {
	return float64(r.Units) * r.UnitPrice
}

// InventoryRecord is one row of the inventory table.
type InventoryRecord struct {
	Product     string `json:"product"`
	Stock       int    `json:"stock"`
	MinRequired int    `json:"min_required"`
}

// Critical reports whether stock is below the configured minimum.
func (r InventoryRecord) Critical() bool {
	return r.Stock < r.MinRequired
}

// Kind identifies one of the two tables.
type Kind string

const (
	KindSales     Kind = "sales"
	KindInventory Kind = "inventory"
)

// ParseKind accepts "sales" or "inventory" in any case.
func ParseKind(s string) (Kind, bool) {
	switch Kind(lower(s)) {
	case KindSales:
		return KindSales, true
	case KindInventory:
		return KindInventory, true
	}
	return "", false
}

// Column sets required when ingesting each table, in export order.
var (
	SalesColumns     = []string{"month", "product", "units", "unit_price"}
	InventoryColumns = []string{"product", "stock", "min_required"}
)
