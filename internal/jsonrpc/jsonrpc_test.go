package jsonrpc

import (
	"encoding/json"
	"testing"
)

func TestParseMessage(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		errCode ErrorCode
	}{
		{"request", `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`, "request", 0},
		{"notification", `{"jsonrpc":"2.0","method":"notifications/initialized"}`, "notification", 0},
		{"response", `{"jsonrpc":"2.0","id":"a","result":{}}`, "response", 0},
		{"bad json", `{`, "", ParseError},
		{"bad version", `{"jsonrpc":"1.0","id":1,"method":"x"}`, "", InvalidRequest},
		{"empty", `{"jsonrpc":"2.0"}`, "", InvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := ParseMessage([]byte(tt.input))
			if tt.errCode != 0 {
				rpcErr, ok := err.(*Error)
				if !ok {
					t.Fatalf("Expected *Error, got %T", err)
				}
				if rpcErr.Code != tt.errCode {
					t.Errorf("Code = %d, want %d", rpcErr.Code, tt.errCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			var kind string
			switch msg.(type) {
			case *Request:
				kind = "request"
			case *Notification:
				kind = "notification"
			case *Response:
				kind = "response"
			}
			if kind != tt.want {
				t.Errorf("Parsed as %s, want %s", kind, tt.want)
			}
		})
	}
}

func TestErrorCodesAreDistinct(t *testing.T) {
	codes := []ErrorCode{ToolNotFound, ValidationFailed, ExecutionError, IngestSchemaError, ParseError, InvalidRequest}
	seen := make(map[ErrorCode]bool)
	for _, c := range codes {
		if seen[c] {
			t.Errorf("Duplicate error code %d", c)
		}
		seen[c] = true
	}
}

func TestNewErrorResponse(t *testing.T) {
	resp := NewErrorResponse("req-1", ToolNotFound, "Tool 'x' no encontrado")
	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	want := `{"jsonrpc":"2.0","id":"req-1","error":{"code":-32601,"message":"Tool 'x' no encontrado"}}`
	if string(data) != want {
		t.Errorf("Got %s, want %s", data, want)
	}
}
