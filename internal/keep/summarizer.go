package keep

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/ShayCichocki/flowkit/internal/flow"
	"github.com/ShayCichocki/flowkit/internal/llm"
)

// AppName identifies the Keep summarizer workflow in sessions.
const AppName = "KeepSummarizer"

// summarizerInstruction is the system prompt for the note summarizer agent.
const summarizerInstruction = "You are a helpful agent that summarizes Google Keep notes. " +
	"Create concise, informative summaries in 1-2 sentences that capture " +
	"the main topics and key information from both text content and any attached images. " +
	"When images are present, analyze them and incorporate relevant visual information " +
	"into the summary. If attachments are mentioned, briefly note them in the summary."

// Summarizer produces one-line summaries of processed notes.
type Summarizer struct {
	runner *flow.Runner
}

// NewSummarizer creates a summarizer backed by the given model client.
func NewSummarizer(completer llm.Completer) (*Summarizer, error) {
	agent := &flow.LLMAgent{
		AgentName:        "keep_note_summarizer",
		AgentDescription: "Agent that creates summaries of Google Keep notes with text and image content.",
		Instruction:      summarizerInstruction,
		Completer:        completer,
	}

	runner, err := flow.NewRunner(flow.RunnerConfig{
		Agent:   agent,
		AppName: AppName,
	})
	if err != nil {
		return nil, fmt.Errorf("create summarizer runner: %w", err)
	}

	return &Summarizer{runner: runner}, nil
}

// Summarize runs the summarizer agent over a processed note. Empty and
// trashed notes are skipped. A model failure is reported as a formatted
// string so one bad note never aborts a batch.
func (s *Summarizer) Summarize(ctx context.Context, note *ProcessedNote) string {
	if !note.HasContent() || note.IsTrashed {
		return "Empty or trashed note - no summary generated"
	}

	parts := []llm.Part{llm.TextPart(buildPrompt(note))}
	parts = append(parts, imageParts(note.Attachments)...)

	sess, err := s.runner.CreateSession("keep_user")
	if err != nil {
		return fmt.Sprintf("Error generating summary: %v", err)
	}

	events, err := s.runner.Run(ctx, sess.ID, llm.UserMessage(parts...))
	if err != nil {
		return fmt.Sprintf("Error generating summary: %v", err)
	}

	var summary string
	for event := range events {
		switch event.Type {
		case flow.EventText:
			summary += event.Content
		case flow.EventError:
			return fmt.Sprintf("Error generating summary: %v", event.Error)
		}
	}

	summary = strings.TrimSpace(summary)
	if summary == "" {
		return "No summary generated"
	}
	return summary
}

// buildPrompt assembles the summarization prompt from the note fields.
func buildPrompt(note *ProcessedNote) string {
	promptParts := []string{fmt.Sprintf("Text content: %s", note.TextContent)}

	if note.Created != nil {
		promptParts = append(promptParts, fmt.Sprintf("Created: %s", note.Created))
	}
	if note.Edited != nil && (note.Created == nil || !note.Edited.Equal(*note.Created)) {
		promptParts = append(promptParts, fmt.Sprintf("Last edited: %s", note.Edited))
	}
	if len(note.Attachments) > 0 {
		names := make([]string, 0, len(note.Attachments))
		for _, att := range note.Attachments {
			names = append(names, filepath.Base(att))
		}
		promptParts = append(promptParts,
			fmt.Sprintf("Attachments: %d file(s) - %v", len(note.Attachments), names))
	}
	if note.IsArchived {
		promptParts = append(promptParts, "Note is archived")
	}

	return "Please summarize this Google Keep note in 1-2 concise sentences. Focus on the main topic and key information. " +
		"If there are images attached, analyze them and incorporate relevant visual information into the summary:\n\n" +
		strings.Join(promptParts, "\n")
}

// imageParts loads readable image attachments as inline blobs.
// Unreadable files are logged and skipped.
func imageParts(attachments []string) []llm.Part {
	var parts []llm.Part
	for _, path := range attachments {
		if !IsImageAttachment(path) {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			log.Printf("[keep] Warning: Could not load image %s: %v", path, err)
			continue
		}

		parts = append(parts, llm.BlobPart(MIMEType(path), data))
	}
	return parts
}
