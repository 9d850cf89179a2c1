package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ShayCichocki/flowkit/internal/flow"
	"github.com/ShayCichocki/flowkit/internal/gtd"
	"github.com/ShayCichocki/flowkit/internal/tui"
	"github.com/ShayCichocki/flowkit/internal/web"
)

var runUseTUI bool

var runCmd = &cobra.Command{
	Use:   "run <workflow.yaml> <message>",
	Short: "Run a workflow defined in YAML",
	Long: `Run a custom agent workflow from a YAML definition.

The definition names a root agent (llm, sequential, parallel, or loop)
with nested sub-agents. Agents can reference the built-in tools: the
five GTD task tools and fetch_webpage_summary.

Example definition:

  app_name: MyWorkflow
  root:
    kind: sequential
    name: pipeline
    sub_agents:
      - kind: llm
        name: capture
        instruction: Capture every task the user mentions.
        tools: [capture_task]
      - kind: llm
        name: review
        instruction: Review the captured tasks.
        tools: [review_tasks]`,
	Args: cobra.ExactArgs(2),
	RunE: runWorkflow,
}

func init() {
	runCmd.Flags().BoolVar(&runUseTUI, "tui", false, "Show the run in a live TUI instead of plain output")
}

func runWorkflow(cmd *cobra.Command, args []string) error {
	cfg, completer, err := loadConfigAndCompleter()
	if err != nil {
		return err
	}

	def, err := flow.LoadWorkflow(args[0])
	if err != nil {
		return err
	}

	// Built-in tools available to YAML-defined agents.
	registry := gtd.NewRegistry()
	registry.MustRegister(web.NewSummaryTool(completer, nil))

	root, err := def.Root.Build(completer, registry)
	if err != nil {
		return fmt.Errorf("build workflow: %w", err)
	}

	runner, err := flow.NewRunner(flow.RunnerConfig{
		Agent:   root,
		AppName: def.AppName,
	})
	if err != nil {
		return fmt.Errorf("create runner: %w", err)
	}

	sess, err := runner.CreateSession("run_user")
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeouts.Run)
	defer cancel()

	events, err := runner.RunText(ctx, sess.ID, args[1])
	if err != nil {
		return fmt.Errorf("start run: %w", err)
	}

	var runErr error
	if runUseTUI && stdoutIsTerminal() {
		runErr = tui.RunStream(def.AppName, events, cfg.TUI.RefreshRate)
	} else {
		runErr = printEvents(events)
	}

	saveSession(runner.Sessions().Get(sess.ID))
	return runErr
}
