package tools

import (
	"context"
	"strings"

	"mcp-business-go/internal/jsonrpc"
)

// Tool is the interface that all tools must implement.
type Tool interface {
	// Name returns the unique registry key of the tool.
	Name() string

	// Description is shown to clients building help text.
	Description() string

	// Schema declares the accepted arguments. It is the single source of
	// truth for required and optional parameters.
	Schema() Schema

	// Call executes the tool. Expected failures are returned as a Result
	// with IsError set; a non-nil error is reserved for unexpected faults.
	Call(ctx context.Context, args Args) (Result, error)
}

// Content is one segment of a tool result.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Result is what a tool returns to the caller.
type Result struct {
	Content   []Content         `json:"content"`
	IsError   bool              `json:"isError"`
	ErrorCode jsonrpc.ErrorCode `json:"errorCode,omitempty"`
}

// TextResult wraps text as a successful result.
func TextResult(text string) Result {
	return Result{Content: []Content{{Type: "text", Text: text}}}
}

// ErrorResult builds a business-level failure carrying a stable code.
func ErrorResult(code jsonrpc.ErrorCode, message string) Result {
	return Result{
		Content:   []Content{{Type: "text", Text: message}},
		IsError:   true,
		ErrorCode: code,
	}
}

// Text joins all text segments with newlines.
func (r Result) Text() string {
	parts := make([]string, 0, len(r.Content))
	for _, c := range r.Content {
		parts = append(parts, c.Text)
	}
	return strings.Join(parts, "\n")
}
