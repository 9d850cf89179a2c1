package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/flowkit/internal/config"
	"github.com/ShayCichocki/flowkit/internal/keep"
	"github.com/ShayCichocki/flowkit/internal/session"
	"github.com/ShayCichocki/flowkit/pkg/models"
)

var (
	keepShowKeys        bool
	keepWatch           bool
	keepNoCache         bool
	keepAttachmentsOnly bool
)

var keepCmd = &cobra.Command{
	Use:   "keep [export-path]",
	Short: "Summarize Google Keep notes from a Takeout export",
	Long: `Walk a Google Keep Takeout export and print a short summary of each note.

The export path can be given as an argument, via keep.export_path in the
config, or via the KEEP_EXPORT_ABSOLUTE_PATH environment variable. Image
attachments are sent to the model alongside the note text.

Summaries are cached by file checksum, so re-runs only call the model
for notes that changed. Use --watch to keep running and summarize notes
as files change.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runKeep,
}

func init() {
	keepCmd.Flags().BoolVar(&keepShowKeys, "keys", false, "Print the JSON key paths of each note instead of summarizing")
	keepCmd.Flags().BoolVar(&keepWatch, "watch", false, "Watch the export directory and summarize notes as they change")
	keepCmd.Flags().BoolVar(&keepNoCache, "no-cache", false, "Bypass the summary cache")
	keepCmd.Flags().BoolVar(&keepAttachmentsOnly, "include-attachments-only", false, "Only summarize notes that have attachments")
}

func runKeep(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	exportPath := cfg.Keep.ExportPath
	if len(args) > 0 {
		exportPath = args[0]
	}
	if exportPath == "" {
		return fmt.Errorf("no export path: pass it as an argument, set keep.export_path, or set KEEP_EXPORT_ABSOLUTE_PATH")
	}
	if _, err := os.Stat(exportPath); err != nil {
		return fmt.Errorf("export path %s: %w", exportPath, err)
	}

	// Key inspection mode needs no model.
	if keepShowKeys {
		return printNoteKeys(exportPath)
	}

	completer, err := newCompleter(cfg)
	if err != nil {
		return err
	}

	summarizer, err := keep.NewSummarizer(completer)
	if err != nil {
		return err
	}

	var cache *keep.Cache
	if !keepNoCache {
		cachePath := cfg.Keep.CachePath
		if cachePath == "" {
			cachePath = keep.DefaultCachePath()
		}
		cache, err = keep.OpenCache(cachePath)
		if err != nil {
			// Cache failures degrade to uncached runs.
			fmt.Fprintf(os.Stderr, "Warning: summary cache unavailable: %v\n", err)
			cache = nil
		} else {
			defer cache.Close()
		}
	}

	ctx := cmd.Context()

	// Keep runs show up in `flowkit status` like the other workflows.
	svc := session.NewService()
	sess, err := svc.Create(keep.AppName, "keep_user")
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	var runErr error
	if keepWatch {
		runErr = watchExport(ctx, exportPath, summarizer, cache)
	} else {
		runErr = summarizeExport(ctx, exportPath, summarizer, cache)
	}

	status := session.StatusCompleted
	if runErr != nil {
		status = session.StatusFailed
	}
	_ = svc.SetStatus(sess.ID, status)
	sess.AddUsage(trackerUsage(completer))
	saveSession(sess)

	return runErr
}

// summarizeExport walks every note JSON under the export root and prints
// a summary per note. Parse failures are reported and skipped.
func summarizeExport(ctx context.Context, root string, summarizer *keep.Summarizer, cache *keep.Cache) error {
	titleColor := color.New(color.FgCyan, color.Bold)
	count := 0

	err := keep.WalkExport(root, func(path string, note *models.Note, err error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Skipping %s: %v\n", path, err)
			return nil
		}

		processed := keep.Process(note, root, path)
		if keepAttachmentsOnly && len(processed.Attachments) == 0 {
			return nil
		}
		count++

		title := processed.Title
		if title == "" {
			title = "(untitled)"
		}
		titleColor.Printf("%s\n", title)
		fmt.Printf("  %s\n", summarizeNote(ctx, summarizer, cache, processed, path))
		return nil
	})
	if err != nil {
		return err
	}

	if count == 0 {
		fmt.Println("No notes found in export.")
	}
	return nil
}

// summarizeNote returns a cached summary when the file is unchanged,
// otherwise calls the model and caches the result.
func summarizeNote(ctx context.Context, summarizer *keep.Summarizer, cache *keep.Cache, note *keep.ProcessedNote, path string) string {
	var checksum string
	if cache != nil {
		if data, err := os.ReadFile(path); err == nil {
			checksum = keep.Checksum(data)
			if summary, ok := cache.Get(path, checksum); ok {
				return summary
			}
		}
	}

	summary := summarizer.Summarize(ctx, note)

	if cache != nil && checksum != "" {
		_ = cache.Put(path, checksum, summary)
	}
	return summary
}

// watchExport summarizes existing notes, then re-summarizes notes as
// their files change until the context is cancelled.
func watchExport(ctx context.Context, root string, summarizer *keep.Summarizer, cache *keep.Cache) error {
	if err := summarizeExport(ctx, root, summarizer, cache); err != nil {
		return err
	}

	fmt.Println("\nWatching for changes (ctrl+c to stop)...")
	return keep.Watch(ctx, root, func(path string) {
		note, err := keep.LoadNote(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Skipping %s: %v\n", path, err)
			return
		}

		processed := keep.Process(note, root, path)
		title := processed.Title
		if title == "" {
			title = "(untitled)"
		}
		fmt.Printf("\nChanged: %s\n  %s\n", title, summarizeNote(ctx, summarizer, cache, processed, path))
	})
}

// printNoteKeys prints the JSON key paths of each note file, mirroring
// the structure of the export for inspection.
func printNoteKeys(root string) error {
	return keep.WalkExport(root, func(path string, note *models.Note, err error) error {
		if err != nil {
			fmt.Fprintf(os.Stderr, "Skipping %s: %v\n", path, err)
			return nil
		}

		// Re-read the raw JSON so unknown fields show up too.
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		var raw any
		if err := json.Unmarshal(data, &raw); err != nil {
			fmt.Fprintf(os.Stderr, "Skipping %s: %v\n", path, err)
			return nil
		}

		fmt.Printf("%s:\n", path)
		return keep.PrintKeys(os.Stdout, raw)
	})
}
