package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ShayCichocki/flowkit/internal/session"
	"github.com/spf13/cobra"
)

var statusPurge string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show recent workflow runs",
	Long: `Display recent workflow sessions.

Shows:
  - Workflow name and session status
  - When each run started
  - Token usage per run`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&statusPurge, "purge-older-than", "", "Delete sessions older than this duration (e.g. 720h)")
}

func runStatus(cmd *cobra.Command, args []string) error {
	dbPath := session.DefaultStorePath()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Println("No runs recorded yet. Run 'flowkit gtd', 'flowkit keep', or 'flowkit web' to start.")
		return nil
	}

	store, err := session.OpenStore(dbPath)
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	defer store.Close()

	if statusPurge != "" {
		d, err := time.ParseDuration(statusPurge)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", statusPurge, err)
		}
		n, err := store.PurgeOld(d)
		if err != nil {
			return err
		}
		fmt.Printf("Purged %d old sessions.\n", n)
	}

	sessions, err := store.Recent(10)
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}

	if len(sessions) == 0 {
		fmt.Println("No runs recorded yet.")
		return nil
	}

	fmt.Println("Recent Runs:")
	for _, s := range sessions {
		elapsed := formatDuration(time.Since(s.StartedAt))
		tokens := s.Usage.InputTokens + s.Usage.OutputTokens
		fmt.Printf("  %s  %-16s %-10s %s ago  %s tokens\n",
			shortID(s.ID), s.AppName, s.Status, elapsed, formatNumber(tokens))
	}

	return nil
}

// shortID truncates a session UUID for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	if d < 24*time.Hour {
		h := int(d.Hours())
		m := int(d.Minutes()) % 60
		if m > 0 {
			return fmt.Sprintf("%dh%dm", h, m)
		}
		return fmt.Sprintf("%dh", h)
	}
	days := int(d.Hours()) / 24
	return fmt.Sprintf("%dd", days)
}

// formatNumber formats a number with commas.
func formatNumber(n int64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}

	// Add commas every 3 digits from the right
	var result strings.Builder
	offset := len(s) % 3
	if offset > 0 {
		result.WriteString(s[:offset])
		if len(s) > offset {
			result.WriteString(",")
		}
	}
	for i := offset; i < len(s); i += 3 {
		result.WriteString(s[i : i+3])
		if i+3 < len(s) {
			result.WriteString(",")
		}
	}
	return result.String()
}
