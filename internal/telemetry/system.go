package telemetry

import (
	"context"
	"runtime"
	"time"

	"github.com/rs/zerolog"

	"mcp-business-go/internal/store"
)

// TableCounter reports the row count of each table.
type TableCounter interface {
	Counts() map[store.Kind]int
}

// SystemMetricsCollector refreshes runtime and table gauges periodically
type SystemMetricsCollector struct {
	metrics  *Metrics
	tables   TableCounter
	logger   zerolog.Logger
	interval time.Duration
	done     chan struct{}
}

// NewSystemMetricsCollector creates a new collector. tables may be nil.
func NewSystemMetricsCollector(metrics *Metrics, tables TableCounter, logger zerolog.Logger, interval time.Duration) *SystemMetricsCollector {
	return &SystemMetricsCollector{
		metrics:  metrics,
		tables:   tables,
		logger:   logger.With().Str("component", "system_metrics").Logger(),
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start collects once immediately and then on every tick until ctx is
// cancelled or Stop is called.
func (c *SystemMetricsCollector) Start(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.logger.Info().
		Dur("interval", c.interval).
		Msg("Starting system metrics collection")
	c.Collect()

	for {
		select {
		case <-ctx.Done():
			c.logger.Info().Msg("Stopping system metrics collection due to context cancellation")
			return
		case <-c.done:
			c.logger.Info().Msg("Stopping system metrics collection")
			return
		case <-ticker.C:
			c.Collect()
		}
	}
}

// Stop stops the metrics collection
func (c *SystemMetricsCollector) Stop() {
	close(c.done)
}

// Collect updates every gauge once
func (c *SystemMetricsCollector) Collect() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	goroutines := runtime.NumGoroutine()

	c.metrics.UpdateSystemMetrics(goroutines, m.Alloc)
	if c.tables != nil {
		c.metrics.UpdateTableRows(c.tables.Counts())
	}

	c.logger.Debug().
		Int("goroutines", goroutines).
		Uint64("memory_bytes", m.Alloc).
		Msg("Updated system metrics")
}
