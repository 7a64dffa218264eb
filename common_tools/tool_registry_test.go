package common_tools

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestDefaultToolsOrder(t *testing.T) {
	tools := DefaultTools(NewLookup(""))
	expected := []string{"multiply", "add", "subtract", "divide", "modulus", "wiki_search", "web_search", "arxiv_search"}
	if len(tools) != len(expected) {
		t.Fatalf("expected %d default tools, got %d", len(expected), len(tools))
	}
	for i, name := range expected {
		if tools[i].Name != name {
			t.Errorf("tool %d: expected %q, got %q", i, name, tools[i].Name)
		}
		if tools[i].Description == "" {
			t.Errorf("%s: description should not be empty", name)
		}
		if tools[i].Callable == nil {
			t.Errorf("%s: Callable should not be nil", name)
		}
		if tools[i].Parameters.Type != "object" {
			t.Errorf("%s: expected object type, got %q", name, tools[i].Parameters.Type)
		}
	}
}

func TestArithmeticToolDeclarations(t *testing.T) {
	for _, tool := range ArithmeticTools() {
		if len(tool.Parameters.Required) != 2 {
			t.Errorf("%s: expected required=[a b], got %v", tool.Name, tool.Parameters.Required)
		}
		for _, name := range []string{"a", "b"} {
			prop := tool.Parameters.Property(name)
			if prop == nil || prop["type"] != "integer" {
				t.Errorf("%s: expected integer property %q, got %v", tool.Name, name, prop)
			}
		}
	}
}

func TestArithmeticCallables(t *testing.T) {
	ctx := context.Background()
	args := map[string]interface{}{"a": float64(2), "b": float64(2)}

	got, err := AddTool().Callable(ctx, args)
	if err != nil {
		t.Fatal(err)
	}
	if got != 4 {
		t.Errorf("add(2, 2) = %v, want 4", got)
	}

	got, err = DivideTool().Callable(ctx, map[string]interface{}{"a": float64(1), "b": float64(4)})
	if err != nil {
		t.Fatal(err)
	}
	if got != 0.25 {
		t.Errorf("divide(1, 4) = %v, want 0.25", got)
	}

	_, err = DivideTool().Callable(ctx, map[string]interface{}{"a": float64(1), "b": float64(0)})
	if !errors.Is(err, ErrDivisionByZero) {
		t.Errorf("divide(1, 0) error = %v, want ErrDivisionByZero", err)
	}

	if _, err := MultiplyTool().Callable(ctx, map[string]interface{}{"a": float64(1)}); err == nil {
		t.Error("expected error for missing b")
	}

	_, err = MultiplyTool().Callable(ctx, map[string]interface{}{"a": float64(1 << 32), "b": float64(1 << 32)})
	if !errors.Is(err, ErrIntegerOverflow) {
		t.Errorf("multiply(2^32, 2^32) error = %v, want ErrIntegerOverflow", err)
	}
}

func TestSearchToolDeclarations(t *testing.T) {
	l := NewLookup("")
	for _, tool := range []struct {
		name string
		fn   func(*Lookup) string
	}{
		{"wiki_search", func(l *Lookup) string { return WikiSearchTool(l).Name }},
		{"web_search", func(l *Lookup) string { return WebSearchTool(l).Name }},
		{"arxiv_search", func(l *Lookup) string { return ArxivSearchTool(l).Name }},
	} {
		if got := tool.fn(l); got != tool.name {
			t.Errorf("expected %q, got %q", tool.name, got)
		}
	}

	for _, decl := range []string{WebSearchTool(l).Description, ArxivSearchTool(l).Description} {
		if !strings.HasSuffix(decl, "maximum 3 results.") {
			t.Errorf("unexpected description %q", decl)
		}
	}

	decl := WikiSearchTool(l)
	if len(decl.Parameters.Required) != 1 || decl.Parameters.Required[0] != "query" {
		t.Errorf("expected required=['query'], got %v", decl.Parameters.Required)
	}
}
