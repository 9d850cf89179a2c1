package flow

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ShayCichocki/flowkit/internal/llm"
	"github.com/ShayCichocki/flowkit/internal/tool"
)

// AgentDef is a declarative agent definition loadable from YAML.
// Composites nest their children under sub_agents.
type AgentDef struct {
	// Kind is one of "llm", "sequential", "parallel", "loop".
	Kind string `yaml:"kind"`
	// Name is the agent's name.
	Name string `yaml:"name"`
	// Description describes the agent's role.
	Description string `yaml:"description"`
	// Model overrides the default model (llm kind only).
	Model string `yaml:"model,omitempty"`
	// Instruction is the system prompt (llm kind only).
	Instruction string `yaml:"instruction,omitempty"`
	// Tools lists registry tool names (llm kind only).
	Tools []string `yaml:"tools,omitempty"`
	// MaxIterations is the pass count for loop kind.
	MaxIterations int `yaml:"max_iterations,omitempty"`
	// SubAgents are nested definitions.
	SubAgents []AgentDef `yaml:"sub_agents,omitempty"`
}

// WorkflowDef is a YAML workflow file: an app name and a root agent.
type WorkflowDef struct {
	// AppName identifies the workflow in sessions.
	AppName string `yaml:"app_name"`
	// Root is the root agent definition.
	Root AgentDef `yaml:"root"`
}

// LoadWorkflow parses a workflow definition from a YAML file.
func LoadWorkflow(path string) (*WorkflowDef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read workflow file: %w", err)
	}

	var def WorkflowDef
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parse workflow file: %w", err)
	}
	if def.AppName == "" {
		return nil, fmt.Errorf("workflow file %s: app_name is required", path)
	}

	return &def, nil
}

// Build resolves an agent definition tree into runnable agents.
// LLM agents share the given completer and tool registry.
func (d *AgentDef) Build(completer llm.Completer, registry *tool.Registry) (Agent, error) {
	if d.Name == "" {
		return nil, fmt.Errorf("agent definition missing name")
	}

	subs := make([]Agent, 0, len(d.SubAgents))
	for i := range d.SubAgents {
		sub, err := d.SubAgents[i].Build(completer, registry)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", d.Name, err)
		}
		subs = append(subs, sub)
	}

	switch d.Kind {
	case "llm", "":
		for _, name := range d.Tools {
			if registry == nil || registry.Get(name) == nil {
				return nil, fmt.Errorf("%s: unknown tool %q", d.Name, name)
			}
		}
		return &LLMAgent{
			AgentName:        d.Name,
			AgentDescription: d.Description,
			Model:            d.Model,
			Instruction:      d.Instruction,
			Tools:            d.Tools,
			SubAgents:        subs,
			Completer:        completer,
			Registry:         registry,
		}, nil

	case "sequential":
		if len(subs) == 0 {
			return nil, fmt.Errorf("%s: sequential agent needs sub_agents", d.Name)
		}
		return &SequentialAgent{AgentName: d.Name, AgentDescription: d.Description, SubAgents: subs}, nil

	case "parallel":
		if len(subs) == 0 {
			return nil, fmt.Errorf("%s: parallel agent needs sub_agents", d.Name)
		}
		return &ParallelAgent{AgentName: d.Name, AgentDescription: d.Description, SubAgents: subs}, nil

	case "loop":
		if len(subs) == 0 {
			return nil, fmt.Errorf("%s: loop agent needs sub_agents", d.Name)
		}
		return &LoopAgent{AgentName: d.Name, AgentDescription: d.Description, SubAgents: subs, MaxIterations: d.MaxIterations}, nil

	default:
		return nil, fmt.Errorf("%s: unknown agent kind %q", d.Name, d.Kind)
	}
}
