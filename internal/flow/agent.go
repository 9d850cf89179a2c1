package flow

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/ShayCichocki/flowkit/internal/llm"
	"github.com/ShayCichocki/flowkit/internal/session"
)

// Agent is a node in a workflow tree. LLM agents and the composite
// agents (sequential, parallel, loop) all implement it.
type Agent interface {
	// Name returns the agent's unique name within its workflow.
	Name() string
	// Description returns a short description of the agent's role.
	Description() string
	// Run executes the agent against the given invocation.
	Run(ctx context.Context, inv *Invocation) error
}

// Invocation carries the shared state for one run through an agent tree:
// the conversation history, the session, and the event emitter.
type Invocation struct {
	// ID is the unique identifier for this invocation.
	ID string
	// Session is the conversation session the run belongs to.
	Session *session.Session

	emitter *Emitter
	endLoop atomic.Bool

	mu      sync.Mutex
	history []llm.Message
}

// NewInvocation creates an invocation seeded with the user's message.
func NewInvocation(sess *session.Session, emitter *Emitter, message llm.Message) *Invocation {
	return &Invocation{
		ID:      uuid.New().String()[:8],
		Session: sess,
		emitter: emitter,
		history: []llm.Message{message},
	}
}

// Emit sends an event to the run's subscribers.
func (inv *Invocation) Emit(event Event) {
	inv.emitter.Emit(event)
}

// History returns a snapshot of the conversation so far.
func (inv *Invocation) History() []llm.Message {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	out := make([]llm.Message, len(inv.history))
	copy(out, inv.history)
	return out
}

// Append adds messages to the shared conversation history.
// Parallel branches may append concurrently; order between branches is
// whatever the scheduler produced.
func (inv *Invocation) Append(messages ...llm.Message) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	inv.history = append(inv.history, messages...)
}

// EndLoop signals the enclosing LoopAgent (if any) to stop after the
// current pass.
func (inv *Invocation) EndLoop() {
	inv.endLoop.Store(true)
}

// LoopEnded reports whether EndLoop has been called.
func (inv *Invocation) LoopEnded() bool {
	return inv.endLoop.Load()
}
