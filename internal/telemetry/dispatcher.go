package telemetry

import (
	"context"
	"time"

	"mcp-business-go/internal/jsonrpc"
	"mcp-business-go/internal/tools"
)

// InstrumentedDispatcher wraps a dispatcher to add telemetry
type InstrumentedDispatcher struct {
	*tools.Dispatcher
	metrics *Metrics
}

// NewInstrumentedDispatcher creates a new telemetry-aware dispatcher wrapper
func NewInstrumentedDispatcher(d *tools.Dispatcher, metrics *Metrics) *InstrumentedDispatcher {
	return &InstrumentedDispatcher{
		Dispatcher: d,
		metrics:    metrics,
	}
}

// Dispatch wraps the underlying Dispatch to add telemetry
func (w *InstrumentedDispatcher) Dispatch(ctx context.Context, name string, args tools.Args, requestID string) tools.Envelope {
	start := time.Now()

	env := w.Dispatcher.Dispatch(ctx, name, args, requestID)

	status := outcome(env)
	if status == "not_found" {
		// Unknown names come from clients and must not become label values.
		name = "unknown"
	}
	w.metrics.RecordToolExecution(name, status, time.Since(start))
	return env
}

func outcome(env tools.Envelope) string {
	switch {
	case env.Success && env.Payload != nil && env.Payload.IsError:
		return "tool_error"
	case env.Success:
		return "success"
	case env.ErrorCode == jsonrpc.ToolNotFound:
		return "not_found"
	default:
		return "error"
	}
}
