package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"mcp-business-go/internal/jsonrpc"
)

// Envelope wraps the outcome of one dispatch call.
//
// Success reports whether the call itself completed. A tool that rejected its
// input still yields Success=true; the failure is carried by Payload.IsError.
type Envelope struct {
	RequestID    string            `json:"requestId"`
	Success      bool              `json:"success"`
	Payload      *Result           `json:"payload"`
	ErrorCode    jsonrpc.ErrorCode `json:"errorCode"`
	ErrorMessage string            `json:"errorMessage,omitempty"`
}

// Response converts the envelope to its JSON-RPC wire form.
func (e Envelope) Response() *jsonrpc.Response {
	if !e.Success {
		return jsonrpc.NewErrorResponse(e.RequestID, e.ErrorCode, e.ErrorMessage)
	}
	return jsonrpc.NewResult(e.RequestID, e.Payload)
}

// Dispatcher validates arguments and invokes tools from a Registry.
type Dispatcher struct {
	registry *Registry
	logger   zerolog.Logger
	newID    func() string
}

// NewDispatcher creates a dispatcher over registry.
func NewDispatcher(registry *Registry, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		logger:   logger.With().Str("component", "dispatcher").Logger(),
		newID:    uuid.NewString,
	}
}

// Registry returns the registry backing the dispatcher.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Dispatch runs the named tool. An empty requestID is replaced by a fresh one.
// Dispatch never panics: handler faults become ExecutionError envelopes.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, args Args, requestID string) Envelope {
	if requestID == "" {
		requestID = d.newID()
	}
	if args == nil {
		args = Args{}
	}

	tool, ok := d.registry.Get(name)
	if !ok {
		d.logger.Warn().
			Str("request_id", requestID).
			Str("tool", name).
			Msg("Tool not found")
		return Envelope{
			RequestID:    requestID,
			ErrorCode:    jsonrpc.ToolNotFound,
			ErrorMessage: fmt.Sprintf("Tool '%s' no encontrado", name),
		}
	}

	if verr := tool.Schema().Validate(args); verr != nil {
		d.logger.Debug().
			Str("request_id", requestID).
			Str("tool", name).
			Str("field", verr.Field).
			Msg("Argument validation failed")
		result := verr.Result()
		return Envelope{RequestID: requestID, Success: true, Payload: &result}
	}

	start := time.Now()
	result, err := invoke(ctx, tool, args)
	if err != nil {
		d.logger.Error().
			Err(err).
			Str("request_id", requestID).
			Str("tool", name).
			Dur("duration", time.Since(start)).
			Msg("Tool execution failed")
		return Envelope{
			RequestID:    requestID,
			ErrorCode:    jsonrpc.ExecutionError,
			ErrorMessage: fmt.Sprintf("Error ejecutando '%s': %v", name, err),
		}
	}

	if len(result.Content) == 0 {
		result.Content = []Content{{Type: "text", Text: ""}}
	}

	d.logger.Debug().
		Str("request_id", requestID).
		Str("tool", name).
		Bool("is_error", result.IsError).
		Dur("duration", time.Since(start)).
		Msg("Tool executed")

	return Envelope{RequestID: requestID, Success: true, Payload: &result}
}

// invoke calls the tool, converting a panic into an error.
func invoke(ctx context.Context, tool Tool, args Args) (result Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return tool.Call(ctx, args)
}
