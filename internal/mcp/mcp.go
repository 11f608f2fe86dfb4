package mcp

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"mcp-business-go/internal/jsonrpc"
	"mcp-business-go/internal/tools"
)

// JSON-RPC methods accepted on the event stream.
const (
	MethodToolsList = "tools/list"
	MethodToolsCall = "tools/call"
	MethodPing      = "ping"
)

type callParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments,omitempty"`
}

// SSE serves JSON-RPC over server-sent events. A POST carries one JSON-RPC
// message and receives its response as a single event. A GET opens an idle
// stream that announces the tool list and then sends heartbeats until the
// client disconnects.
func (h *Handler) SSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported!", http.StatusInternalServerError)
		return
	}

	var body []byte
	if r.Method == http.MethodPost && r.Body != nil {
		var err error
		body, err = io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
		if err != nil {
			http.Error(w, "could not read request body", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	if len(body) > 0 {
		if resp := h.handleMessage(r, body); resp != nil {
			h.writeEvent(w, "message", resp)
		}
		flusher.Flush()
		return
	}

	// An open stream outlives the server write timeout.
	if err := http.NewResponseController(w).SetWriteDeadline(time.Time{}); err != nil {
		h.logger.Debug().Err(err).Msg("Could not clear write deadline")
	}

	h.writeEvent(w, "ready", map[string]any{
		"jsonrpc": jsonrpc.Version,
		"method":  MethodToolsList,
		"params":  map[string]any{"tools": h.dispatcher.Registry().Definitions()},
	})
	flusher.Flush()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()
	for {
		select {
		case <-r.Context().Done():
			h.logger.Debug().Msg("Event stream closed by client")
			return
		case <-ticker.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		}
	}
}

// handleMessage answers one JSON-RPC message. Notifications get no reply.
func (h *Handler) handleMessage(r *http.Request, body []byte) *jsonrpc.Response {
	msg, err := jsonrpc.ParseMessage(body)
	if err != nil {
		if rpcErr, ok := err.(*jsonrpc.Error); ok {
			return &jsonrpc.Response{JSONRPC: jsonrpc.Version, Error: rpcErr}
		}
		return jsonrpc.NewErrorResponse(nil, jsonrpc.ParseError, "Parse error")
	}

	req, ok := msg.(*jsonrpc.Request)
	if !ok {
		h.logger.Debug().Msg("Ignoring non-request message on event stream")
		return nil
	}

	switch req.Method {
	case MethodToolsList:
		return jsonrpc.NewResult(req.ID, map[string]any{"tools": h.dispatcher.Registry().Definitions()})
	case MethodPing:
		return jsonrpc.NewResult(req.ID, map[string]any{})
	case MethodToolsCall:
		var params callParams
		if len(req.Params) == 0 || json.Unmarshal(req.Params, &params) != nil || params.Name == "" {
			return jsonrpc.NewErrorResponse(req.ID, jsonrpc.InvalidParams, "Parámetros inválidos para tools/call")
		}
		env := h.dispatcher.Dispatch(r.Context(), params.Name, tools.Args(params.Arguments), requestID(req.ID))
		resp := env.Response()
		resp.ID = req.ID
		return resp
	default:
		return jsonrpc.NewErrorResponse(req.ID, jsonrpc.MethodNotFound,
			fmt.Sprintf("Método '%s' no soportado", req.Method))
	}
}

func (h *Handler) writeEvent(w io.Writer, event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to encode event")
		data = []byte(`{"jsonrpc":"2.0","error":{"code":-32603,"message":"Internal error"}}`)
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
}
