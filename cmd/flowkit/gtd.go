package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ShayCichocki/flowkit/internal/config"
	"github.com/ShayCichocki/flowkit/internal/flow"
	"github.com/ShayCichocki/flowkit/internal/gtd"
	"github.com/ShayCichocki/flowkit/internal/session"
	"github.com/ShayCichocki/flowkit/internal/tui"
)

var gtdUseTUI bool

var gtdCmd = &cobra.Command{
	Use:   "gtd [query...]",
	Short: "Run the GTD multi-agent workflow",
	Long: `Run the Getting Things Done coordinator over one or more inbox items.

The coordinator delegates to a sequential inbox processor
(capture -> clarify -> organize), a parallel context processor, and a
review loop. Each query gets a fresh session.

With no arguments, two demo inbox items are processed.`,
	RunE: runGTD,
}

func init() {
	gtdCmd.Flags().BoolVar(&gtdUseTUI, "tui", false, "Show the run in a live TUI instead of plain output")
}

func runGTD(cmd *cobra.Command, args []string) error {
	cfg, completer, err := loadConfigAndCompleter()
	if err != nil {
		return err
	}

	queries := args
	if len(queries) == 0 {
		queries = gtd.DefaultQueries
	}

	coordinator := gtd.NewCoordinator(completer)
	runner, err := flow.NewRunner(flow.RunnerConfig{
		Agent:   coordinator,
		AppName: gtd.AppName,
	})
	if err != nil {
		return fmt.Errorf("create runner: %w", err)
	}

	for i, query := range queries {
		fmt.Printf("\n--- Query %d/%d: %s ---\n", i+1, len(queries), query)

		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeouts.Run)
		err := runQuery(ctx, runner, cfg, query)
		cancel()
		if err != nil {
			// One failed query should not abort the batch.
			fmt.Printf("Query failed: %v\n", err)
		}
	}

	return nil
}

// runQuery executes a single query in a fresh session and persists the
// session record for the status command.
func runQuery(ctx context.Context, runner *flow.Runner, cfg *config.Config, query string) error {
	sess, err := runner.CreateSession("gtd_user")
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	events, err := runner.RunText(ctx, sess.ID, query)
	if err != nil {
		return fmt.Errorf("start run: %w", err)
	}

	var runErr error
	if gtdUseTUI && stdoutIsTerminal() {
		runErr = tui.RunStream("GTD: "+query, events, cfg.TUI.RefreshRate)
	} else {
		runErr = printEvents(events)
	}

	saveSession(runner.Sessions().Get(sess.ID))
	return runErr
}

// saveSession persists a finished session, best effort.
func saveSession(sess *session.Session) {
	if sess == nil {
		return
	}
	store, err := session.OpenStore(session.DefaultStorePath())
	if err != nil {
		return
	}
	defer store.Close()
	_ = store.Save(sess)
}
