// Package client is a Go client for the tool dispatch API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"mcp-business-go/internal/jsonrpc"
)

// DefaultBaseURL is where a local server listens.
const DefaultBaseURL = "http://127.0.0.1:8080"

// Tool describes one server-side tool.
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

// Content is one segment of a tool result.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Result is the payload of a completed tool call.
type Result struct {
	Content   []Content         `json:"content"`
	IsError   bool              `json:"isError"`
	ErrorCode jsonrpc.ErrorCode `json:"errorCode,omitempty"`
}

// Text joins all text segments with newlines.
func (r *Result) Text() string {
	parts := make([]string, 0, len(r.Content))
	for _, c := range r.Content {
		parts = append(parts, c.Text)
	}
	return strings.Join(parts, "\n")
}

// CallResponse is the JSON-RPC response of a tool call together with the
// HTTP status it arrived with. Exactly one of Result and Error is set.
type CallResponse struct {
	Status  int            `json:"-"`
	JSONRPC string         `json:"jsonrpc"`
	ID      any            `json:"id,omitempty"`
	Result  *Result        `json:"result,omitempty"`
	Error   *jsonrpc.Error `json:"error,omitempty"`
}

// Intent is the tool selection made for a natural-language request.
type Intent struct {
	Tool      string         `json:"tool"`
	Arguments map[string]any `json:"arguments"`
}

// AskResponse is returned by Ask.
type AskResponse struct {
	Status   int           `json:"-"`
	Intent   Intent        `json:"intent"`
	Response *CallResponse `json:"response"`
}

// StatusError is returned when the server answers with a body that is
// not a protocol response.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("client: unexpected status %d: %s", e.Status, e.Body)
}

// Client talks to a server over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// New creates a client for baseURL. An empty baseURL means DefaultBaseURL.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the server address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListTools returns the tools the server exposes.
func (c *Client) ListTools(ctx context.Context) ([]Tool, error) {
	var body struct {
		Tools []Tool `json:"tools"`
	}
	if _, err := c.do(ctx, http.MethodGet, "/mcp/tools/list", nil, &body); err != nil {
		return nil, err
	}
	return body.Tools, nil
}

// CallTool invokes a tool. Failed calls still return a CallResponse when the
// server answered with a JSON-RPC error.
func (c *Client) CallTool(ctx context.Context, name string, args map[string]any) (*CallResponse, error) {
	if args == nil {
		args = map[string]any{}
	}
	req := map[string]any{
		"id":        "req-" + uuid.NewString(),
		"name":      name,
		"arguments": args,
	}
	var resp CallResponse
	status, err := c.do(ctx, http.MethodPost, "/mcp/tools/call", req, &resp)
	if err != nil {
		return nil, err
	}
	resp.Status = status
	return &resp, nil
}

// Ask lets the server pick a tool for text and run it.
func (c *Client) Ask(ctx context.Context, text string) (*AskResponse, error) {
	var resp AskResponse
	status, err := c.do(ctx, http.MethodPost, "/mcp/ask", map[string]any{"text": text}, &resp)
	if err != nil {
		return nil, err
	}
	resp.Status = status
	if resp.Response != nil {
		resp.Response.Status = status
	}
	return &resp, nil
}

// Health returns the decoded health document.
func (c *Client) Health(ctx context.Context) (map[string]any, error) {
	var body map[string]any
	if _, err := c.do(ctx, http.MethodGet, "/health", nil, &body); err != nil {
		return nil, err
	}
	return body, nil
}

// do sends a request and decodes any JSON answer into out. Non-JSON
// answers are reported as a StatusError.
func (c *Client) do(ctx context.Context, method, path string, in, out any) (int, error) {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return 0, fmt.Errorf("client: encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, fmt.Errorf("client: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("client: read response: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return resp.StatusCode, &StatusError{Status: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}
	return resp.StatusCode, nil
}
