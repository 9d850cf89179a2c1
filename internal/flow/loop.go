package flow

import (
	"context"
	"fmt"
)

// LoopAgent re-runs its sub-agents for up to MaxIterations passes. A
// sub-agent may end the loop early by calling Invocation.EndLoop.
type LoopAgent struct {
	// AgentName is the composite's name.
	AgentName string
	// AgentDescription describes the composite's role.
	AgentDescription string
	// SubAgents run in order on each pass.
	SubAgents []Agent
	// MaxIterations is the number of passes. 0 means a single pass.
	MaxIterations int
}

// Name returns the composite's name.
func (a *LoopAgent) Name() string { return a.AgentName }

// Description returns the composite's description.
func (a *LoopAgent) Description() string { return a.AgentDescription }

// Run executes the sub-agents repeatedly until the iteration cap is hit,
// the loop is ended early, or an error occurs.
func (a *LoopAgent) Run(ctx context.Context, inv *Invocation) error {
	maxIter := a.MaxIterations
	if maxIter <= 0 {
		maxIter = 1
	}

	inv.Emit(Event{Type: EventAgentStarted, Author: a.AgentName})

	for iter := 0; iter < maxIter; iter++ {
		for _, sub := range a.SubAgents {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := sub.Run(ctx, inv); err != nil {
				return fmt.Errorf("%s (iteration %d): %w", a.AgentName, iter+1, err)
			}
			if inv.LoopEnded() {
				inv.Emit(Event{Type: EventAgentDone, Author: a.AgentName})
				return nil
			}
		}
	}

	inv.Emit(Event{Type: EventAgentDone, Author: a.AgentName})
	return nil
}
