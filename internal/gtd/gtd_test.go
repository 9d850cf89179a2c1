package gtd

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/ShayCichocki/flowkit/internal/flow"
	"github.com/ShayCichocki/flowkit/internal/llm"
)

func TestNewRegistryTools(t *testing.T) {
	r := NewRegistry()

	want := []string{"capture_task", "clarify_task", "engage_with_task", "organize_task", "review_tasks"}
	got := r.Names()
	if len(got) != len(want) {
		t.Fatalf("expected %d tools, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("expected tool %q at position %d, got %q", want[i], i, got[i])
		}
	}
}

func TestCaptureTask(t *testing.T) {
	r := NewRegistry()

	result := r.Execute(context.Background(), "capture_task",
		json.RawMessage(`{"task_description":"buy milk","context":"errands"}`))
	if result.IsError {
		t.Fatalf("unexpected error: %s", result.Content)
	}
	if !strings.Contains(result.Content, "Task captured: 'buy milk'") {
		t.Errorf("unexpected content: %q", result.Content)
	}
	if !strings.Contains(result.Content, "(Context: errands)") {
		t.Errorf("context missing: %q", result.Content)
	}
}

func TestCaptureTaskBadInput(t *testing.T) {
	r := NewRegistry()
	result := r.Execute(context.Background(), "capture_task", json.RawMessage(`not json`))
	if !result.IsError {
		t.Error("expected error result for invalid input")
	}
}

func TestClarifyTask(t *testing.T) {
	r := NewRegistry()
	result := r.Execute(context.Background(), "clarify_task", json.RawMessage(`{"task":"buy milk"}`))
	if result.IsError {
		t.Fatalf("unexpected error: %s", result.Content)
	}
	if !strings.Contains(result.Content, "'buy milk' is actionable") {
		t.Errorf("unexpected content: %q", result.Content)
	}
	if !strings.Contains(result.Content, "@computer") {
		t.Errorf("context missing: %q", result.Content)
	}
}

func TestOrganizeTask(t *testing.T) {
	r := NewRegistry()
	result := r.Execute(context.Background(), "organize_task", json.RawMessage(`{"task":"buy milk"}`))
	if result.IsError {
		t.Fatalf("unexpected error: %s", result.Content)
	}
	if result.Content != "Task organized into @computer context: buy milk" {
		t.Errorf("unexpected content: %q", result.Content)
	}
}

func TestReviewTasks(t *testing.T) {
	r := NewRegistry()
	result := r.Execute(context.Background(), "review_tasks", nil)
	if result.IsError {
		t.Fatalf("unexpected error: %s", result.Content)
	}
	if !strings.Contains(result.Content, "Weekly review completed") {
		t.Errorf("unexpected content: %q", result.Content)
	}
}

func TestEngageWithTask(t *testing.T) {
	r := NewRegistry()
	result := r.Execute(context.Background(), "engage_with_task", json.RawMessage(`{"task":"buy milk"}`))
	if result.IsError {
		t.Fatalf("unexpected error: %s", result.Content)
	}
	if result.Content != "Working on task: buy milk - Task completed successfully" {
		t.Errorf("unexpected content: %q", result.Content)
	}
}

// nopCompleter satisfies llm.Completer for construction tests.
type nopCompleter struct{}

func (nopCompleter) Complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	return &llm.Response{EndTurn: true}, nil
}
func (nopCompleter) Model() string { return "nop" }

func TestNewCoordinatorTree(t *testing.T) {
	coordinator := NewCoordinator(nopCompleter{})

	root, ok := coordinator.(*flow.LLMAgent)
	if !ok {
		t.Fatalf("expected LLMAgent root, got %T", coordinator)
	}
	if root.Name() != "gtd_coordinator" {
		t.Errorf("unexpected root name: %q", root.Name())
	}
	if len(root.SubAgents) != 3 {
		t.Fatalf("expected 3 sub-agents, got %d", len(root.SubAgents))
	}

	if seq, ok := root.SubAgents[0].(*flow.SequentialAgent); !ok {
		t.Errorf("expected sequential inbox processor, got %T", root.SubAgents[0])
	} else {
		if seq.Name() != "inbox_processor" || len(seq.SubAgents) != 3 {
			t.Errorf("unexpected inbox processor: %s with %d subs", seq.Name(), len(seq.SubAgents))
		}
	}

	if par, ok := root.SubAgents[1].(*flow.ParallelAgent); !ok {
		t.Errorf("expected parallel context processor, got %T", root.SubAgents[1])
	} else if par.Name() != "context_processor" {
		t.Errorf("unexpected parallel agent name: %q", par.Name())
	}

	if loop, ok := root.SubAgents[2].(*flow.LoopAgent); !ok {
		t.Errorf("expected review loop, got %T", root.SubAgents[2])
	} else {
		if loop.Name() != "review_loop" || loop.MaxIterations != 1 {
			t.Errorf("unexpected review loop: %s iterations=%d", loop.Name(), loop.MaxIterations)
		}
	}
}

func TestDefaultQueries(t *testing.T) {
	if len(DefaultQueries) != 2 {
		t.Fatalf("expected 2 default queries, got %d", len(DefaultQueries))
	}
}
