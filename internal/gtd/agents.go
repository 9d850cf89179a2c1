package gtd

import (
	"github.com/ShayCichocki/flowkit/internal/flow"
	"github.com/ShayCichocki/flowkit/internal/llm"
)

// AppName identifies the GTD workflow in sessions.
const AppName = "GTD_Workflow"

// DefaultQueries are the demo inbox items processed when the user
// provides none.
var DefaultQueries = []string{
	"Research vacation destinations for summer trip",
	"Review quarterly budget numbers",
}

const captureInstruction = `You are the Capture agent in a GTD system. Your job is to:
1. Listen for any tasks, ideas, or commitments mentioned by the user
2. Use the capture_task tool to record them immediately
3. Don't judge or organize - just capture everything
4. Be thorough and don't let anything slip through`

const clarifyInstruction = `You are the Clarify agent in a GTD system. Your job is to:
1. Take captured items and determine what they really mean
2. Ask: Is this actionable? What's the desired outcome?
3. Use the clarify_task tool to process each item
4. Be specific about next actions and contexts`

const organizeInstruction = `You are the Organize agent in a GTD system. Your job is to:
1. Take clarified tasks and put them in the right place
2. Sort by context (@calls, @computer, @errands, etc.)
3. Use the organize_task tool to categorize everything
4. Keep the system clean and organized`

const reviewInstruction = `You are the Review agent in a GTD system. Your job is to:
1. Conduct weekly reviews of all lists and projects
2. Update project statuses and next actions
3. Use the review_tasks tool to perform comprehensive reviews
4. Ensure the system stays current and trusted`

const engageInstruction = `You are the Engage agent in a GTD system. Your job is to:
1. Look at organized next actions and choose what to work on
2. Consider context, time available, and energy level
3. Use the engage_with_task tool to actually do the work
4. Focus on execution and completion`

const coordinatorInstruction = `You are the GTD Coordinator. You manage the entire Getting Things Done workflow:

1. Start by processing any inbox items through the inbox_processor
2. Use context_processor for handling multiple task contexts
3. Regularly trigger review_loop for system maintenance
4. Help users understand and follow GTD principles
5. Provide guidance on GTD best practices

Always explain what's happening in the GTD process and why each step matters.`

// NewCoordinator builds the full GTD agent tree: a sequential inbox
// processor, a parallel context processor, a review loop, and the LLM
// coordinator that delegates between them.
func NewCoordinator(completer llm.Completer) flow.Agent {
	registry := NewRegistry()

	captureAgent := &flow.LLMAgent{
		AgentName:        "capture_agent",
		AgentDescription: "Captures tasks and ideas into the GTD inbox",
		Instruction:      captureInstruction,
		Tools:            []string{"capture_task"},
		Completer:        completer,
		Registry:         registry,
	}

	clarifyAgent := &flow.LLMAgent{
		AgentName:        "clarify_agent",
		AgentDescription: "Clarifies what captured items actually mean",
		Instruction:      clarifyInstruction,
		Tools:            []string{"clarify_task"},
		Completer:        completer,
		Registry:         registry,
	}

	organizeAgentInbox := &flow.LLMAgent{
		AgentName:        "organize_agent_inbox",
		AgentDescription: "Organizes clarified tasks into appropriate lists",
		Instruction:      organizeInstruction,
		Tools:            []string{"organize_task"},
		Completer:        completer,
		Registry:         registry,
	}

	organizeAgentContext := &flow.LLMAgent{
		AgentName:        "organize_agent_context",
		AgentDescription: "Organizes clarified tasks into appropriate lists",
		Instruction:      organizeInstruction,
		Tools:            []string{"organize_task"},
		Completer:        completer,
		Registry:         registry,
	}

	reviewAgent := &flow.LLMAgent{
		AgentName:        "review_agent",
		AgentDescription: "Performs regular reviews of the GTD system",
		Instruction:      reviewInstruction,
		Tools:            []string{"review_tasks"},
		Completer:        completer,
		Registry:         registry,
	}

	engageAgent := &flow.LLMAgent{
		AgentName:        "engage_agent",
		AgentDescription: "Actually executes tasks and gets work done",
		Instruction:      engageInstruction,
		Tools:            []string{"engage_with_task"},
		Completer:        completer,
		Registry:         registry,
	}

	// Sequential workflow for processing inbox items
	inboxProcessor := &flow.SequentialAgent{
		AgentName:        "inbox_processor",
		AgentDescription: "Processes inbox items through capture -> clarify -> organize",
		SubAgents:        []flow.Agent{captureAgent, clarifyAgent, organizeAgentInbox},
	}

	// Parallel agent for handling multiple contexts simultaneously
	contextProcessor := &flow.ParallelAgent{
		AgentName:        "context_processor",
		AgentDescription: "Processes multiple contexts in parallel for efficiency",
		SubAgents:        []flow.Agent{organizeAgentContext, engageAgent},
	}

	// Loop agent for weekly reviews. One iteration for the demo;
	// normally this would be ongoing.
	reviewLoop := &flow.LoopAgent{
		AgentName:        "review_loop",
		AgentDescription: "Performs regular GTD reviews",
		MaxIterations:    1,
		SubAgents:        []flow.Agent{reviewAgent},
	}

	return &flow.LLMAgent{
		AgentName:        "gtd_coordinator",
		AgentDescription: "Coordinates the entire GTD workflow system",
		Instruction:      coordinatorInstruction,
		SubAgents:        []flow.Agent{inboxProcessor, contextProcessor, reviewLoop},
		Completer:        completer,
		Registry:         registry,
	}
}
