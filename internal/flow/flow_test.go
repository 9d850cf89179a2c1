package flow

import (
	"context"
	"sync"

	"github.com/ShayCichocki/flowkit/internal/llm"
	"github.com/ShayCichocki/flowkit/internal/session"
)

// fakeCompleter replays scripted responses and records the requests it saw.
type fakeCompleter struct {
	mu        sync.Mutex
	responses []*llm.Response
	err       error
	requests  []llm.Request
}

func (f *fakeCompleter) Complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	if len(f.responses) == 0 {
		return &llm.Response{Parts: []llm.Part{llm.TextPart("done")}, EndTurn: true}, nil
	}
	resp := f.responses[0]
	f.responses = f.responses[1:]
	return resp, nil
}

func (f *fakeCompleter) Model() string { return "fake-model" }

func (f *fakeCompleter) requestCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

// textResponse builds a final text-only response.
func textResponse(text string) *llm.Response {
	return &llm.Response{
		Parts:   []llm.Part{llm.TextPart(text)},
		Usage:   llm.Usage{InputTokens: 10, OutputTokens: 5},
		EndTurn: true,
	}
}

// toolCallResponse builds a response requesting one tool call.
func toolCallResponse(name, input string) *llm.Response {
	return &llm.Response{
		Parts: []llm.Part{{ToolCall: &llm.ToolCall{
			ID:    name,
			Name:  name,
			Input: []byte(input),
		}}},
		Usage: llm.Usage{InputTokens: 10, OutputTokens: 5},
	}
}

// funcAgent is a stub agent driven by a closure.
type funcAgent struct {
	name string
	fn   func(ctx context.Context, inv *Invocation) error
}

func (a *funcAgent) Name() string        { return a.name }
func (a *funcAgent) Description() string { return "stub agent" }
func (a *funcAgent) Run(ctx context.Context, inv *Invocation) error {
	return a.fn(ctx, inv)
}

// newTestInvocation builds an invocation with a large emitter buffer so
// tests never block on emission.
func newTestInvocation(text string) *Invocation {
	svc := session.NewService()
	sess, _ := svc.Create("TestApp", "tester")
	emitter := NewEmitter(1000)
	return NewInvocation(sess, emitter, llm.UserMessage(llm.TextPart(text)))
}

// drainEvents closes the invocation's emitter and collects all events.
func drainEvents(inv *Invocation) []Event {
	inv.emitter.Close()
	var events []Event
	for event := range inv.emitter.Events() {
		events = append(events, event)
	}
	return events
}

// eventTypes extracts the type sequence from events.
func eventTypes(events []Event) []EventType {
	types := make([]EventType, 0, len(events))
	for _, e := range events {
		types = append(types, e.Type)
	}
	return types
}
