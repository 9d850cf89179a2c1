package flow

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ShayCichocki/flowkit/internal/llm"
	"github.com/ShayCichocki/flowkit/internal/tool"
)

// defaultMaxIterations caps the number of model calls per agent run.
const defaultMaxIterations = 10

// LLMAgent is a single-purpose agent: an instruction, a model, and a set
// of tools. Sub-agents, when present, are exposed to the model as
// delegation tools so the agent can route work to them.
type LLMAgent struct {
	// AgentName is the agent's unique name within its workflow.
	AgentName string
	// AgentDescription is a short description of the agent's role.
	AgentDescription string
	// Model overrides the completer's default model when non-empty.
	Model string
	// Instruction is the system prompt for this agent.
	Instruction string
	// Tools lists the registry tool names this agent may call.
	Tools []string
	// SubAgents are workflow nodes this agent can delegate to.
	SubAgents []Agent
	// Completer is the model backend.
	Completer llm.Completer
	// Registry resolves tool names to handlers.
	Registry *tool.Registry
	// MaxIterations caps model calls per run (0 uses the default).
	MaxIterations int
}

// Name returns the agent's name.
func (a *LLMAgent) Name() string { return a.AgentName }

// Description returns the agent's description.
func (a *LLMAgent) Description() string { return a.AgentDescription }

// Run executes the model call and tool execution cycle until the model
// ends its turn or the iteration cap is hit.
func (a *LLMAgent) Run(ctx context.Context, inv *Invocation) error {
	if a.Completer == nil {
		return fmt.Errorf("agent %s: no completer configured", a.AgentName)
	}

	maxIter := a.MaxIterations
	if maxIter == 0 {
		maxIter = defaultMaxIterations
	}

	inv.Emit(Event{Type: EventAgentStarted, Author: a.AgentName})

	messages := inv.History()
	tools := a.toolDecls()

	var textOutput string
	for iter := 0; iter < maxIter; iter++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		resp, err := a.Completer.Complete(ctx, llm.Request{
			Model:    a.Model,
			System:   a.systemPrompt(),
			Messages: messages,
			Tools:    tools,
		})
		if err != nil {
			inv.Emit(Event{Type: EventError, Author: a.AgentName, Error: err})
			return fmt.Errorf("agent %s: %w", a.AgentName, err)
		}

		inv.Session.AddUsage(resp.Usage)

		var assistantParts []llm.Part
		var resultParts []llm.Part

		for _, part := range resp.Parts {
			switch {
			case part.ToolCall != nil:
				call := part.ToolCall
				inv.Emit(Event{
					Type:   EventToolUse,
					Author: a.AgentName,
					Tool:   call.Name,
					Input:  call.Input,
				})
				assistantParts = append(assistantParts, part)

				result := a.execute(ctx, inv, call)
				inv.Emit(Event{
					Type:    EventToolResult,
					Author:  a.AgentName,
					Tool:    call.Name,
					Content: truncateForDisplay(result.Content),
				})
				resultParts = append(resultParts, llm.Part{ToolResult: &llm.ToolResult{
					ID:      call.ID,
					Name:    call.Name,
					Content: result.Content,
					IsError: result.IsError,
				}})

			case part.Text != "":
				textOutput += part.Text
				inv.Emit(Event{
					Type:    EventText,
					Author:  a.AgentName,
					Content: part.Text,
					Usage:   resp.Usage,
				})
				assistantParts = append(assistantParts, part)
			}
		}

		if resp.EndTurn {
			if textOutput != "" {
				inv.Append(llm.AssistantMessage(llm.TextPart(textOutput)))
			}
			inv.Emit(Event{Type: EventAgentDone, Author: a.AgentName})
			return nil
		}

		messages = append(messages, llm.Message{Role: llm.RoleAssistant, Parts: assistantParts})
		if len(resultParts) > 0 {
			messages = append(messages, llm.Message{Role: llm.RoleUser, Parts: resultParts})
		}
	}

	return fmt.Errorf("agent %s: max iterations (%d) reached", a.AgentName, maxIter)
}

// systemPrompt builds the system instruction, listing delegation targets
// when sub-agents are present.
func (a *LLMAgent) systemPrompt() string {
	if len(a.SubAgents) == 0 {
		return a.Instruction
	}

	var b strings.Builder
	b.WriteString(a.Instruction)
	b.WriteString("\n\nYou can delegate work to the following agents by calling their delegate_ tool:\n")
	for _, sub := range a.SubAgents {
		fmt.Fprintf(&b, "- %s: %s\n", sub.Name(), sub.Description())
	}
	return b.String()
}

// toolDecls returns the tool declarations for this agent: its registry
// tools plus one delegation tool per sub-agent.
func (a *LLMAgent) toolDecls() []llm.ToolDecl {
	var decls []llm.ToolDecl
	if a.Registry != nil {
		decls = a.Registry.Decls(a.Tools)
	}

	for _, sub := range a.SubAgents {
		decls = append(decls, llm.ToolDecl{
			Name:        delegateToolName(sub.Name()),
			Description: fmt.Sprintf("Delegate to the %s agent. %s", sub.Name(), sub.Description()),
			Properties: map[string]any{
				"request": map[string]any{
					"type":        "string",
					"description": "What the delegated agent should work on",
				},
			},
			Required: []string{"request"},
		})
	}
	return decls
}

// execute runs one tool call: either delegation to a sub-agent or a
// registry tool.
func (a *LLMAgent) execute(ctx context.Context, inv *Invocation, call *llm.ToolCall) tool.Result {
	for _, sub := range a.SubAgents {
		if call.Name != delegateToolName(sub.Name()) {
			continue
		}

		var args struct {
			Request string `json:"request"`
		}
		if len(call.Input) > 0 {
			if err := json.Unmarshal(call.Input, &args); err != nil {
				return tool.Result{Content: fmt.Sprintf("invalid delegation input: %v", err), IsError: true}
			}
		}
		if args.Request != "" {
			inv.Append(llm.UserMessage(llm.TextPart(args.Request)))
		}

		before := len(inv.History())
		if err := sub.Run(ctx, inv); err != nil {
			return tool.Result{Content: err.Error(), IsError: true}
		}

		output := collectAssistantText(inv.History()[before:])
		if output == "" {
			output = fmt.Sprintf("%s completed", sub.Name())
		}
		return tool.Result{Content: output}
	}

	if a.Registry == nil {
		return tool.Result{Content: fmt.Sprintf("unknown tool: %s", call.Name), IsError: true}
	}
	return a.Registry.Execute(ctx, call.Name, call.Input)
}

// delegateToolName returns the tool name exposing a sub-agent to the model.
func delegateToolName(agentName string) string {
	return "delegate_" + agentName
}

// collectAssistantText joins the text of assistant messages.
func collectAssistantText(messages []llm.Message) string {
	var parts []string
	for _, msg := range messages {
		if msg.Role != llm.RoleAssistant {
			continue
		}
		for _, p := range msg.Parts {
			if p.Text != "" {
				parts = append(parts, p.Text)
			}
		}
	}
	return strings.Join(parts, "\n")
}

func truncateForDisplay(s string) string {
	const limit = 500
	if len(s) <= limit {
		return s
	}
	// Back off to a rune boundary so the cut never splits a multi-byte
	// character.
	n := limit
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
