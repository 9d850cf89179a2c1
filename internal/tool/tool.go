// Package tool defines callable tools that agents may invoke during a run,
// and a registry for looking them up by name.
package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/ShayCichocki/flowkit/internal/llm"
)

// Handler executes a tool call. Input is the JSON-encoded arguments from
// the model. A returned error marks the result as a tool failure; it is
// reported back to the model rather than aborting the run.
type Handler func(ctx context.Context, input json.RawMessage) (string, error)

// Tool pairs a JSON-schema declaration with its handler.
type Tool struct {
	// Name is the tool name exposed to the model.
	Name string
	// Description tells the model what the tool does.
	Description string
	// Properties follows JSON Schema object property syntax.
	Properties map[string]any
	// Required lists the required property names.
	Required []string
	// Handler executes the call.
	Handler Handler
}

// Decl returns the provider-neutral declaration for this tool.
func (t *Tool) Decl() llm.ToolDecl {
	return llm.ToolDecl{
		Name:        t.Name,
		Description: t.Description,
		Properties:  t.Properties,
		Required:    t.Required,
	}
}

// Result is the outcome of executing a tool call.
type Result struct {
	Content string
	IsError bool
}

// Registry holds tools by name.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]*Tool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]*Tool)}
}

// Register adds a tool to the registry. Registering a duplicate name is an error.
func (r *Registry) Register(t *Tool) error {
	if t.Name == "" {
		return fmt.Errorf("tool name is required")
	}
	if t.Handler == nil {
		return fmt.Errorf("tool %q has no handler", t.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[t.Name]; exists {
		return fmt.Errorf("tool %q already registered", t.Name)
	}
	r.tools[t.Name] = t
	return nil
}

// MustRegister registers a tool and panics on error. Intended for
// package-level tool wiring where a duplicate is a programming error.
func (r *Registry) MustRegister(t *Tool) {
	if err := r.Register(t); err != nil {
		panic(err)
	}
}

// Get returns the tool with the given name, or nil if not registered.
func (r *Registry) Get(name string) *Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tools[name]
}

// Names returns the registered tool names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Decls returns declarations for the named tools, skipping unknown names.
func (r *Registry) Decls(names []string) []llm.ToolDecl {
	r.mu.RLock()
	defer r.mu.RUnlock()

	decls := make([]llm.ToolDecl, 0, len(names))
	for _, name := range names {
		if t, ok := r.tools[name]; ok {
			decls = append(decls, t.Decl())
		}
	}
	return decls
}

// Execute runs the named tool with the given input. Unknown tools and
// handler errors produce error-flagged results, never a Go error, so the
// model sees the failure and can recover.
func (r *Registry) Execute(ctx context.Context, name string, input json.RawMessage) Result {
	t := r.Get(name)
	if t == nil {
		return Result{Content: fmt.Sprintf("unknown tool: %s", name), IsError: true}
	}

	content, err := t.Handler(ctx, input)
	if err != nil {
		return Result{Content: err.Error(), IsError: true}
	}
	return Result{Content: content}
}
