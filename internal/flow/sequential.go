package flow

import (
	"context"
	"fmt"
)

// SequentialAgent runs its sub-agents in declaration order against the
// same invocation. The first failure aborts the remainder.
type SequentialAgent struct {
	// AgentName is the composite's name.
	AgentName string
	// AgentDescription describes the composite's role.
	AgentDescription string
	// SubAgents run in order.
	SubAgents []Agent
}

// Name returns the composite's name.
func (a *SequentialAgent) Name() string { return a.AgentName }

// Description returns the composite's description.
func (a *SequentialAgent) Description() string { return a.AgentDescription }

// Run executes each sub-agent in order, stopping on the first error or
// context cancellation.
func (a *SequentialAgent) Run(ctx context.Context, inv *Invocation) error {
	inv.Emit(Event{Type: EventAgentStarted, Author: a.AgentName})

	for _, sub := range a.SubAgents {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := sub.Run(ctx, inv); err != nil {
			return fmt.Errorf("%s: %w", a.AgentName, err)
		}
	}

	inv.Emit(Event{Type: EventAgentDone, Author: a.AgentName})
	return nil
}
