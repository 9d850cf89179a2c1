// Package flow implements the agent composition layer: single LLM agents
// with tool calling, and sequential, parallel, and loop composites that
// run them as workflows.
package flow

import (
	"encoding/json"
	"time"

	"github.com/ShayCichocki/flowkit/internal/llm"
)

// EventType represents the type of run event.
type EventType string

const (
	// EventAgentStarted indicates an agent began executing.
	EventAgentStarted EventType = "agent_started"
	// EventAgentDone indicates an agent finished executing.
	EventAgentDone EventType = "agent_done"
	// EventText carries text produced by the model.
	EventText EventType = "text"
	// EventToolUse indicates the model requested a tool invocation.
	EventToolUse EventType = "tool_use"
	// EventToolResult carries the output of a tool invocation.
	EventToolResult EventType = "tool_result"
	// EventError indicates a failure during the run.
	EventError EventType = "error"
	// EventDone indicates the entire run is complete.
	EventDone EventType = "done"
)

// Event represents an event emitted during a run.
// These events are streamed to the CLI and TUI.
type Event struct {
	// Type is the kind of event.
	Type EventType
	// Author is the name of the agent that produced the event.
	Author string
	// Content is the text payload, if any.
	Content string
	// Tool is the tool name for tool events.
	Tool string
	// Input is the JSON-encoded tool arguments for tool_use events.
	Input json.RawMessage
	// Error contains error details for error events.
	Error error
	// Timestamp is when the event occurred.
	Timestamp time.Time
	// Usage is the token usage for the call that produced the event, if any.
	Usage llm.Usage
}
