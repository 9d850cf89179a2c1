package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ShayCichocki/flowkit/internal/flow"
	"github.com/ShayCichocki/flowkit/internal/web"
)

var webCmd = &cobra.Command{
	Use:   "web <url>",
	Short: "Summarize a webpage",
	Long: `Fetch a webpage and print a concise one-paragraph summary.

The page is fetched locally, its readable text extracted, and the model
asked for a 100-200 word summary.`,
	Args: cobra.ExactArgs(1),
	RunE: runWeb,
}

func runWeb(cmd *cobra.Command, args []string) error {
	cfg, completer, err := loadConfigAndCompleter()
	if err != nil {
		return err
	}

	pageURL := args[0]
	if err := web.ValidateURL(pageURL); err != nil {
		return err
	}

	agent := web.NewAgent(completer, nil)
	runner, err := flow.NewRunner(flow.RunnerConfig{
		Agent:   agent,
		AppName: web.AppName,
	})
	if err != nil {
		return fmt.Errorf("create runner: %w", err)
	}

	sess, err := runner.CreateSession("web_user")
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeouts.Run)
	defer cancel()

	events, err := runner.RunText(ctx, sess.ID, "Please summarize this webpage: "+pageURL)
	if err != nil {
		return fmt.Errorf("start run: %w", err)
	}

	runErr := printEvents(events)
	saveSession(runner.Sessions().Get(sess.ID))
	return runErr
}
