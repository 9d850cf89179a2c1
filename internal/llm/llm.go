// Package llm provides provider-neutral types and clients for the model
// backends flowkit agents run on (Gemini REST, Anthropic SDK).
package llm

import (
	"context"
	"encoding/json"
)

// Role identifies the author of a message.
type Role string

const (
	// RoleUser is content supplied by the user (or tool results fed back).
	RoleUser Role = "user"
	// RoleAssistant is content produced by the model.
	RoleAssistant Role = "assistant"
)

// Blob is inline binary content, typically an image attachment.
type Blob struct {
	// MIMEType is the content type (e.g., "image/png").
	MIMEType string
	// Data is the raw bytes, encoded per provider on the wire.
	Data []byte
}

// ToolCall is a request from the model to invoke a registered tool.
type ToolCall struct {
	// ID is the provider call ID. Providers without call IDs use the tool name.
	ID string
	// Name is the tool to invoke.
	Name string
	// Input is the JSON-encoded tool arguments.
	Input json.RawMessage
}

// ToolResult carries the outcome of a tool invocation back to the model.
type ToolResult struct {
	// ID matches the originating ToolCall.ID.
	ID string
	// Name is the tool that was invoked.
	Name string
	// Content is the tool output.
	Content string
	// IsError marks the result as a tool failure.
	IsError bool
}

// Part is a single piece of message content. Exactly one field is set.
type Part struct {
	Text       string
	Blob       *Blob
	ToolCall   *ToolCall
	ToolResult *ToolResult
}

// TextPart returns a Part holding plain text.
func TextPart(text string) Part {
	return Part{Text: text}
}

// BlobPart returns a Part holding inline binary data.
func BlobPart(mimeType string, data []byte) Part {
	return Part{Blob: &Blob{MIMEType: mimeType, Data: data}}
}

// Message is a single conversation turn.
type Message struct {
	Role  Role
	Parts []Part
}

// UserMessage builds a user message from the given parts.
func UserMessage(parts ...Part) Message {
	return Message{Role: RoleUser, Parts: parts}
}

// AssistantMessage builds an assistant message from the given parts.
func AssistantMessage(parts ...Part) Message {
	return Message{Role: RoleAssistant, Parts: parts}
}

// ToolDecl describes a callable tool in provider-neutral form.
// Properties follows JSON Schema object property syntax.
type ToolDecl struct {
	Name        string
	Description string
	Properties  map[string]any
	Required    []string
}

// Request is a single completion request.
type Request struct {
	// Model overrides the client's default model when non-empty.
	Model string
	// System is the system instruction.
	System string
	// Messages is the conversation so far.
	Messages []Message
	// Tools lists tools the model may call.
	Tools []ToolDecl
	// MaxTokens caps the response length (0 uses the client default).
	MaxTokens int
}

// Usage reports token consumption for one call.
type Usage struct {
	InputTokens  int64
	OutputTokens int64
}

// Response is the model's reply to a Request.
type Response struct {
	// Parts holds text and tool-call parts in model order.
	Parts []Part
	// Usage is the token usage for this call.
	Usage Usage
	// EndTurn is true when the model finished without requesting tools.
	EndTurn bool
}

// Text concatenates all text parts of the response.
func (r *Response) Text() string {
	var out string
	for _, p := range r.Parts {
		out += p.Text
	}
	return out
}

// ToolCalls returns the tool calls requested by the model, in order.
func (r *Response) ToolCalls() []*ToolCall {
	var calls []*ToolCall
	for _, p := range r.Parts {
		if p.ToolCall != nil {
			calls = append(calls, p.ToolCall)
		}
	}
	return calls
}

// Completer is the interface all model backends implement.
type Completer interface {
	// Complete sends one request and returns the model's reply.
	Complete(ctx context.Context, req Request) (*Response, error)
	// Model returns the default model name for this client.
	Model() string
}
