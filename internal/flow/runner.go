package flow

import (
	"context"
	"fmt"

	"github.com/ShayCichocki/flowkit/internal/llm"
	"github.com/ShayCichocki/flowkit/internal/session"
)

// eventBufferSize is the emitter buffer per run.
const eventBufferSize = 100

// Runner owns an agent tree and a session service, and streams run
// events to callers.
type Runner struct {
	agent    Agent
	appName  string
	sessions *session.Service
}

// RunnerConfig contains configuration for creating a Runner.
type RunnerConfig struct {
	// Agent is the root of the workflow tree.
	Agent Agent
	// AppName identifies the workflow in sessions.
	AppName string
	// Sessions is the session service. A fresh in-memory service is
	// created when nil.
	Sessions *session.Service
}

// NewRunner creates a runner for the given agent tree.
func NewRunner(cfg RunnerConfig) (*Runner, error) {
	if cfg.Agent == nil {
		return nil, fmt.Errorf("agent is required")
	}
	if cfg.AppName == "" {
		return nil, fmt.Errorf("app name is required")
	}

	sessions := cfg.Sessions
	if sessions == nil {
		sessions = session.NewService()
	}

	return &Runner{
		agent:    cfg.Agent,
		appName:  cfg.AppName,
		sessions: sessions,
	}, nil
}

// Sessions returns the runner's session service.
func (r *Runner) Sessions() *session.Service {
	return r.sessions
}

// CreateSession creates a new session for the given user.
func (r *Runner) CreateSession(userID string) (*session.Session, error) {
	return r.sessions.Create(r.appName, userID)
}

// Run executes the agent tree against the given session and message.
// It returns immediately with a channel of run events; the channel is
// closed when the run finishes. A final done or error event is always
// emitted before close.
func (r *Runner) Run(ctx context.Context, sessionID string, message llm.Message) (<-chan Event, error) {
	sess := r.sessions.Get(sessionID)
	if sess == nil {
		return nil, fmt.Errorf("unknown session: %s", sessionID)
	}

	emitter := NewEmitter(eventBufferSize)
	inv := NewInvocation(sess, emitter, message)

	go func() {
		defer emitter.Close()

		if err := r.agent.Run(ctx, inv); err != nil {
			emitter.Emit(Event{Type: EventError, Author: r.agent.Name(), Error: err})
			_ = r.sessions.SetStatus(sessionID, session.StatusFailed)
			return
		}

		emitter.Emit(Event{Type: EventDone, Author: r.agent.Name()})
		_ = r.sessions.SetStatus(sessionID, session.StatusCompleted)
	}()

	return emitter.Events(), nil
}

// RunText is a convenience wrapper that sends a plain text user message.
func (r *Runner) RunText(ctx context.Context, sessionID, text string) (<-chan Event, error) {
	return r.Run(ctx, sessionID, llm.UserMessage(llm.TextPart(text)))
}

// CollectText runs the agent tree to completion and returns the
// concatenated text output. Used by callers that do not need streaming.
func (r *Runner) CollectText(ctx context.Context, sessionID, text string) (string, error) {
	events, err := r.RunText(ctx, sessionID, text)
	if err != nil {
		return "", err
	}

	var out string
	var runErr error
	for event := range events {
		switch event.Type {
		case EventText:
			out += event.Content
		case EventError:
			runErr = event.Error
		}
	}
	return out, runErr
}
