package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
)

func echoTool() *Tool {
	return &Tool{
		Name:        "echo",
		Description: "Echoes the input back.",
		Properties: map[string]any{
			"text": map[string]any{"type": "string"},
		},
		Required: []string{"text"},
		Handler: func(ctx context.Context, input json.RawMessage) (string, error) {
			var args struct {
				Text string `json:"text"`
			}
			if err := json.Unmarshal(input, &args); err != nil {
				return "", err
			}
			return args.Text, nil
		},
	}
}

func TestRegistryRegister(t *testing.T) {
	r := NewRegistry()

	if err := r.Register(echoTool()); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if got := r.Get("echo"); got == nil {
		t.Fatal("expected registered tool to be retrievable")
	}
	if got := r.Get("missing"); got != nil {
		t.Error("expected nil for unregistered tool")
	}
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(echoTool())

	if err := r.Register(echoTool()); err == nil {
		t.Error("expected error registering duplicate tool")
	}
}

func TestRegistryRejectsInvalid(t *testing.T) {
	r := NewRegistry()

	if err := r.Register(&Tool{Handler: func(ctx context.Context, input json.RawMessage) (string, error) {
		return "", nil
	}}); err == nil {
		t.Error("expected error registering tool without a name")
	}

	if err := r.Register(&Tool{Name: "no-handler"}); err == nil {
		t.Error("expected error registering tool without a handler")
	}
}

func TestRegistryNames(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(&Tool{Name: "zeta", Handler: nopHandler})
	r.MustRegister(&Tool{Name: "alpha", Handler: nopHandler})

	names := r.Names()
	if len(names) != 2 || names[0] != "alpha" || names[1] != "zeta" {
		t.Errorf("expected sorted names [alpha zeta], got %v", names)
	}
}

func TestRegistryDecls(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(echoTool())

	decls := r.Decls([]string{"echo", "missing"})
	if len(decls) != 1 {
		t.Fatalf("expected 1 declaration (unknown names skipped), got %d", len(decls))
	}
	if decls[0].Name != "echo" {
		t.Errorf("expected declaration for 'echo', got %q", decls[0].Name)
	}
	if len(decls[0].Required) != 1 || decls[0].Required[0] != "text" {
		t.Errorf("required fields not carried: %v", decls[0].Required)
	}
}

func TestRegistryExecute(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(echoTool())

	result := r.Execute(context.Background(), "echo", json.RawMessage(`{"text":"hello"}`))
	if result.IsError {
		t.Fatalf("unexpected error result: %s", result.Content)
	}
	if result.Content != "hello" {
		t.Errorf("expected 'hello', got %q", result.Content)
	}
}

func TestRegistryExecuteUnknownTool(t *testing.T) {
	r := NewRegistry()

	result := r.Execute(context.Background(), "nope", nil)
	if !result.IsError {
		t.Fatal("expected error result for unknown tool")
	}
	if !strings.Contains(result.Content, "unknown tool") {
		t.Errorf("unexpected content: %q", result.Content)
	}
}

func TestRegistryExecuteHandlerError(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(&Tool{
		Name: "boom",
		Handler: func(ctx context.Context, input json.RawMessage) (string, error) {
			return "", fmt.Errorf("it broke")
		},
	})

	result := r.Execute(context.Background(), "boom", nil)
	if !result.IsError {
		t.Fatal("expected error result from failing handler")
	}
	if result.Content != "it broke" {
		t.Errorf("expected handler error as content, got %q", result.Content)
	}
}

func nopHandler(ctx context.Context, input json.RawMessage) (string, error) {
	return "", nil
}
