package mcp

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/render"

	"mcp-business-go/internal/jsonrpc"
	"mcp-business-go/internal/router"
	"mcp-business-go/internal/tools"
)

// CallRequest is the body of POST /mcp/tools/call.
type CallRequest struct {
	ID        any            `json:"id,omitempty"`
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments,omitempty"`
}

// AskRequest is the body of POST /mcp/ask.
type AskRequest struct {
	ID   any    `json:"id,omitempty"`
	Text string `json:"text"`
}

// AskResponse pairs the resolved intent with the tool response.
type AskResponse struct {
	Intent   router.Intent     `json:"intent"`
	Response *jsonrpc.Response `json:"response"`
}

// ListTools handles GET /mcp/tools/list.
func (h *Handler) ListTools(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]any{"tools": h.dispatcher.Registry().Definitions()})
}

// CallTool handles POST /mcp/tools/call.
func (h *Handler) CallTool(w http.ResponseWriter, r *http.Request) {
	var req CallRequest
	if err := h.decode(w, r, &req); err != nil {
		h.logger.Debug().Err(err).Msg("Rejected tool call body")
		h.writeRPCError(w, r, nil, jsonrpc.ParseError, "Cuerpo JSON inválido")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		h.writeRPCError(w, r, req.ID, jsonrpc.InvalidRequest, "Falta 'name' de la herramienta")
		return
	}

	h.writeRPC(w, r, h.dispatch(r, req.Name, req.Arguments, req.ID))
}

// Ask handles POST /mcp/ask: the text is routed to a tool and dispatched.
func (h *Handler) Ask(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if err := h.decode(w, r, &req); err != nil {
		h.writeRPCError(w, r, nil, jsonrpc.ParseError, "Cuerpo JSON inválido")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		h.writeRPCError(w, r, req.ID, jsonrpc.InvalidRequest, "Falta 'text'")
		return
	}

	intent, matched := router.Route(req.Text)
	if !matched {
		intent = router.Resolve(req.Text)
	}
	if h.onIntent != nil {
		h.onIntent(intent.Tool, matched)
	}
	h.logger.Debug().
		Str("tool", intent.Tool).
		Bool("matched", matched).
		Msg("Resolved intent")

	resp := h.dispatch(r, intent.Tool, intent.Arguments, req.ID)
	if resp.Error != nil {
		render.Status(r, httpStatus(resp.Error.Code))
	}
	render.JSON(w, r, AskResponse{Intent: intent, Response: resp})
}

func (h *Handler) dispatch(r *http.Request, name string, args map[string]any, id any) *jsonrpc.Response {
	// An id that renders empty is replaced by the dispatcher's, so the
	// response and the logs carry the same id.
	rid := requestID(id)
	env := h.dispatcher.Dispatch(r.Context(), name, tools.Args(args), rid)
	resp := env.Response()
	if rid != "" {
		resp.ID = id
	}
	return resp
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) error {
	if r.Body == nil {
		return errors.New("empty body")
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	return render.DecodeJSON(r.Body, v)
}

// requestID renders a caller-supplied JSON id as a string. Empty means none.
func requestID(id any) string {
	switch v := id.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case nil:
		return ""
	}
	return ""
}
