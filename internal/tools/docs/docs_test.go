package docs

import (
	"context"
	"errors"
	"testing"

	"mcp-business-go/internal/jsonrpc"
	"mcp-business-go/internal/tools"
)

type fakeCorpus struct {
	hits []string
	err  error
	last string
}

func (f *fakeCorpus) Search(q string) ([]string, error) {
	f.last = q
	return f.hits, f.err
}

func TestSearchTool(t *testing.T) {
	corpus := &fakeCorpus{hits: []string{"a.txt", "b.txt"}}
	res, err := NewSearchTool(corpus).Call(context.Background(), tools.Args{"q": "  devoluciones "})
	if err != nil {
		t.Fatalf("Call failed: %v", err)
	}
	if res.Text() != "Coincidencias: a.txt, b.txt" {
		t.Errorf("Unexpected output: %s", res.Text())
	}
	if corpus.last != "devoluciones" {
		t.Errorf("Query not trimmed: %q", corpus.last)
	}
}

func TestSearchTool_NoHits(t *testing.T) {
	res, _ := NewSearchTool(&fakeCorpus{}).Call(context.Background(), tools.Args{"q": "x"})
	if res.Text() != "Coincidencias: ninguna" {
		t.Errorf("Unexpected output: %s", res.Text())
	}
}

func TestSearchTool_BlankQuery(t *testing.T) {
	corpus := &fakeCorpus{}
	res, _ := NewSearchTool(corpus).Call(context.Background(), tools.Args{"q": "   "})
	if !res.IsError || res.ErrorCode != jsonrpc.ValidationFailed {
		t.Errorf("Expected validation failure, got %+v", res)
	}
	if corpus.last != "" {
		t.Error("Corpus must not be searched for a blank query")
	}
}

func TestSearchTool_CorpusFailure(t *testing.T) {
	_, err := NewSearchTool(&fakeCorpus{err: errors.New("permission denied")}).
		Call(context.Background(), tools.Args{"q": "x"})
	if err == nil {
		t.Error("Expected error from unreadable corpus")
	}
}
