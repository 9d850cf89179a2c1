package main

import (
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/fatih/color"

	"github.com/ShayCichocki/flowkit/internal/flow"
)

var (
	agentColor = color.New(color.FgCyan, color.Bold)
	toolColor  = color.New(color.FgYellow)
	errColor   = color.New(color.FgRed)
	dimColor   = color.New(color.Faint)
)

// printEvents consumes a run event stream and prints it to stdout.
// Returns the first error event seen, if any.
func printEvents(events <-chan flow.Event) error {
	var runErr error
	for event := range events {
		switch event.Type {
		case flow.EventAgentStarted:
			agentColor.Printf("▶ %s\n", event.Author)
		case flow.EventAgentDone:
			dimColor.Printf("✓ %s done\n", event.Author)
		case flow.EventText:
			fmt.Printf("[%s] %s\n", event.Author, event.Content)
		case flow.EventToolUse:
			toolColor.Printf("  → %s(%s)\n", event.Tool, compactJSON(event.Input))
		case flow.EventToolResult:
			dimColor.Printf("  ← %s\n", event.Content)
		case flow.EventError:
			errColor.Printf("✗ %s: %v\n", event.Author, event.Error)
			runErr = event.Error
		}
	}
	return runErr
}

// stdoutIsTerminal reports whether stdout is attached to a terminal.
// The TUI falls back to plain printing when output is redirected.
func stdoutIsTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// compactJSON renders raw JSON arguments on one line, truncated for display.
// Truncation lands on a rune boundary so multi-byte characters stay intact.
func compactJSON(raw []byte) string {
	s := string(raw)
	const limit = 120
	if len(s) <= limit {
		return s
	}
	n := limit
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
