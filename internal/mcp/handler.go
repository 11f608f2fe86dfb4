// Package mcp exposes the tool dispatcher over HTTP: a JSON endpoint per
// operation plus a JSON-RPC 2.0 stream over server-sent events.
package mcp

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/rs/zerolog"

	"mcp-business-go/internal/jsonrpc"
	"mcp-business-go/internal/tools"
)

// DefaultMaxBodyBytes bounds request bodies. It leaves room for a
// base64-encoded ingest payload of 5 MiB.
const DefaultMaxBodyBytes = 8 << 20

// Dispatcher runs tools by name.
type Dispatcher interface {
	Dispatch(ctx context.Context, name string, args tools.Args, requestID string) tools.Envelope
	Registry() *tools.Registry
}

// Handler serves the MCP endpoints.
type Handler struct {
	dispatcher   Dispatcher
	logger       zerolog.Logger
	maxBodyBytes int64
	heartbeat    time.Duration
	onIntent     func(tool string, matched bool)
}

// Option configures a Handler.
type Option func(*Handler)

// WithMaxBodyBytes overrides DefaultMaxBodyBytes.
func WithMaxBodyBytes(n int64) Option {
	return func(h *Handler) {
		if n > 0 {
			h.maxBodyBytes = n
		}
	}
}

// WithHeartbeat sets how often an idle event stream receives a comment line.
func WithHeartbeat(d time.Duration) Option {
	return func(h *Handler) {
		if d > 0 {
			h.heartbeat = d
		}
	}
}

// WithIntentHook is called with every resolved natural-language intent.
func WithIntentHook(fn func(tool string, matched bool)) Option {
	return func(h *Handler) {
		h.onIntent = fn
	}
}

// NewHandler creates the MCP handler.
func NewHandler(d Dispatcher, logger zerolog.Logger, opts ...Option) *Handler {
	h := &Handler{
		dispatcher:   d,
		logger:       logger.With().Str("component", "mcp").Logger(),
		maxBodyBytes: DefaultMaxBodyBytes,
		heartbeat:    15 * time.Second,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes returns the /mcp sub-router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/tools/list", h.ListTools)
	r.Post("/tools/call", h.CallTool)
	r.Post("/ask", h.Ask)
	return r
}

// httpStatus maps an error code to the status of a failed call.
func httpStatus(code jsonrpc.ErrorCode) int {
	switch code {
	case jsonrpc.ExecutionError, jsonrpc.InternalError:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

func (h *Handler) writeRPC(w http.ResponseWriter, r *http.Request, resp *jsonrpc.Response) {
	if resp.Error != nil {
		render.Status(r, httpStatus(resp.Error.Code))
	}
	render.JSON(w, r, resp)
}

func (h *Handler) writeRPCError(w http.ResponseWriter, r *http.Request, id any, code jsonrpc.ErrorCode, msg string) {
	h.writeRPC(w, r, jsonrpc.NewErrorResponse(id, code, msg))
}
