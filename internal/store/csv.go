package store

import (
	"encoding/csv"
	"errors"
	"io"
	"math"
	"strconv"
	"strings"

	"mcp-business-go/internal/document"
)

// DecodeSales parses a sales CSV. The header must contain every column in
// SalesColumns; other columns are ignored.
func DecodeSales(r io.Reader) ([]SalesRecord, error) {
	rows, cols, err := readTable(r, KindSales, SalesColumns)
	if err != nil {
		return nil, err
	}

	out := make([]SalesRecord, 0, len(rows))
	for i, row := range rows {
		line := i + 2
		units, err := parseCount(row[cols["units"]], line, "units")
		if err != nil {
			return nil, err
		}
		price, err := parseAmount(row[cols["unit_price"]], line, "unit_price")
		if err != nil {
			return nil, err
		}
		out = append(out, SalesRecord{
			Month:     strings.TrimSpace(row[cols["month"]]),
			Product:   strings.TrimSpace(row[cols["product"]]),
			Units:     units,
			UnitPrice: price,
		})
	}
	return out, nil
}

// DecodeInventory parses an inventory CSV. The header must contain every
// column in InventoryColumns; other columns are ignored.
func DecodeInventory(r io.Reader) ([]InventoryRecord, error) {
	rows, cols, err := readTable(r, KindInventory, InventoryColumns)
	if err != nil {
		return nil, err
	}

	out := make([]InventoryRecord, 0, len(rows))
	for i, row := range rows {
		line := i + 2
		stock, err := parseCount(row[cols["stock"]], line, "stock")
		if err != nil {
			return nil, err
		}
		minRequired, err := parseCount(row[cols["min_required"]], line, "min_required")
		if err != nil {
			return nil, err
		}
		out = append(out, InventoryRecord{
			Product:     strings.TrimSpace(row[cols["product"]]),
			Stock:       stock,
			MinRequired: minRequired,
		})
	}
	return out, nil
}

func readTable(r io.Reader, kind Kind, required []string) ([][]string, map[string]int, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, NewMissingColumnError(kind, required[0])
	}
	if err != nil {
		return nil, nil, NewMalformedCSVError(err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := cols[name]; !dup {
			cols[name] = i
		}
	}
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			return nil, nil, NewMissingColumnError(kind, name)
		}
	}

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, nil, NewMalformedCSVError(err)
	}
	return rows, cols, nil
}

func parseCount(raw string, row int, column string) (int, error) {
	raw = strings.TrimSpace(raw)
	n, err := strconv.Atoi(raw)
	if err != nil {
		// Accept integral floats such as "15.0" written by spreadsheet tools.
		f, ferr := strconv.ParseFloat(raw, 64)
		if ferr != nil || f != float64(int(f)) {
			return 0, NewInvalidValueError(row, column, raw, err)
		}
		n = int(f)
	}
	if n < 0 {
		return 0, NewInvalidValueError(row, column, raw, errors.New("negative value"))
	}
	return n, nil
}

func parseAmount(raw string, row int, column string) (float64, error) {
	raw = strings.TrimSpace(raw)
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, NewInvalidValueError(row, column, raw, err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, NewInvalidValueError(row, column, raw, errors.New("non-finite value"))
	}
	if f < 0 {
		return 0, NewInvalidValueError(row, column, raw, errors.New("negative value"))
	}
	return f, nil
}

// SalesTable lays out rows for export. withRevenue appends the derived
// revenue column.
func SalesTable(rows []SalesRecord, withRevenue bool) document.Table {
	cols := append([]string(nil), SalesColumns...)
	if withRevenue {
		cols = append(cols, "revenue")
	}
	t := document.Table{Columns: cols}
	for _, r := range rows {
		fields := []string{
			r.Month,
			r.Product,
			strconv.Itoa(r.Units),
			formatFloat(r.UnitPrice),
		}
		if withRevenue {
			fields = append(fields, formatFloat(r.Revenue()))
		}
		t.Rows = append(t.Rows, fields)
	}
	return t
}

// InventoryTable lays out rows for export.
func InventoryTable(rows []InventoryRecord) document.Table {
	t := document.Table{Columns: append([]string(nil), InventoryColumns...)}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.Product,
			strconv.Itoa(r.Stock),
			strconv.Itoa(r.MinRequired),
		})
	}
	return t
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
