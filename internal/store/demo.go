package store

// DemoSales returns the sample sales table used when no data exists yet.
func DemoSales() []SalesRecord {
	return []SalesRecord{
		{Month: "Agosto", Product: "Laptop Pro", Units: 15, UnitPrice: 1200},
		{Month: "Agosto", Product: "Mouse X", Units: 120, UnitPrice: 20},
		{Month: "Agosto", Product: "Teclado Mecánico", Units: 75, UnitPrice: 50},
		{Month: "Agosto", Product: `Monitor 27"`, Units: 20, UnitPrice: 300},
		{Month: "Septiembre", Product: "Laptop Pro", Units: 10, UnitPrice: 1200},
		{Month: "Septiembre", Product: "Mouse X", Units: 140, UnitPrice: 20},
	}
}

// DemoInventory returns the sample inventory table used when no data exists yet.
func DemoInventory() []InventoryRecord {
	return []InventoryRecord{
		{Product: "Laptop Pro", Stock: 8, MinRequired: 10},
		{Product: "Mouse X", Stock: 500, MinRequired: 200},
		{Product: "Teclado Mecánico", Stock: 50, MinRequired: 30},
		{Product: `Monitor 27"`, Stock: 5, MinRequired: 15},
	}
}
