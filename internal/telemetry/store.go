package telemetry

import "mcp-business-go/internal/store"

// RecordIngest counts accepted rows and refreshes the table gauge.
func (m *Metrics) RecordIngest(kind store.Kind, rows int) {
	m.IngestedRows.WithLabelValues(string(kind)).Add(float64(rows))
	m.TableRows.WithLabelValues(string(kind)).Set(float64(rows))
}

// UpdateTableRows publishes the row count of every table.
func (m *Metrics) UpdateTableRows(counts map[store.Kind]int) {
	for kind, n := range counts {
		m.TableRows.WithLabelValues(string(kind)).Set(float64(n))
	}
}
