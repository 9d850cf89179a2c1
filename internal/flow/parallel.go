package flow

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// ParallelAgent runs its sub-agents concurrently against the same
// invocation. Events from all branches funnel into the shared emitter.
// The first failure cancels the remaining branches.
type ParallelAgent struct {
	// AgentName is the composite's name.
	AgentName string
	// AgentDescription describes the composite's role.
	AgentDescription string
	// SubAgents run concurrently.
	SubAgents []Agent
}

// Name returns the composite's name.
func (a *ParallelAgent) Name() string { return a.AgentName }

// Description returns the composite's description.
func (a *ParallelAgent) Description() string { return a.AgentDescription }

// Run executes all sub-agents concurrently and waits for them to finish.
func (a *ParallelAgent) Run(ctx context.Context, inv *Invocation) error {
	inv.Emit(Event{Type: EventAgentStarted, Author: a.AgentName})

	g, gctx := errgroup.WithContext(ctx)
	for _, sub := range a.SubAgents {
		g.Go(func() error {
			return sub.Run(gctx, inv)
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("%s: %w", a.AgentName, err)
	}

	inv.Emit(Event{Type: EventAgentDone, Author: a.AgentName})
	return nil
}
