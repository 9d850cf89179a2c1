package keep

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ShayCichocki/flowkit/internal/llm"
)

// fakeCompleter returns a fixed reply and records the requests it saw.
type fakeCompleter struct {
	mu       sync.Mutex
	reply    string
	err      error
	requests []llm.Request
}

func (f *fakeCompleter) Complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &llm.Response{
		Parts:   []llm.Part{llm.TextPart(f.reply)},
		EndTurn: true,
	}, nil
}

func (f *fakeCompleter) Model() string { return "fake-model" }

func (f *fakeCompleter) lastRequest() llm.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func TestSummarize(t *testing.T) {
	completer := &fakeCompleter{reply: "A short grocery list."}
	summarizer, err := NewSummarizer(completer)
	if err != nil {
		t.Fatalf("NewSummarizer failed: %v", err)
	}

	created := time.Unix(1700000000, 0)
	note := &ProcessedNote{
		Title:       "Shopping",
		TextContent: "milk\neggs",
		Created:     &created,
	}

	summary := summarizer.Summarize(context.Background(), note)
	if summary != "A short grocery list." {
		t.Errorf("unexpected summary: %q", summary)
	}

	// The prompt carries the note text and creation time.
	prompt := completer.lastRequest().Messages[0].Parts[0].Text
	if !strings.Contains(prompt, "milk\neggs") {
		t.Errorf("prompt missing text content: %q", prompt)
	}
	if !strings.Contains(prompt, "Created:") {
		t.Errorf("prompt missing creation time: %q", prompt)
	}
}

func TestSummarizeSkipsEmptyNote(t *testing.T) {
	completer := &fakeCompleter{reply: "should not be called"}
	summarizer, _ := NewSummarizer(completer)

	summary := summarizer.Summarize(context.Background(), &ProcessedNote{TextContent: "  "})
	if summary != "Empty or trashed note - no summary generated" {
		t.Errorf("unexpected summary: %q", summary)
	}
	if len(completer.requests) != 0 {
		t.Error("expected no model calls for empty note")
	}
}

func TestSummarizeSkipsTrashedNote(t *testing.T) {
	completer := &fakeCompleter{reply: "should not be called"}
	summarizer, _ := NewSummarizer(completer)

	summary := summarizer.Summarize(context.Background(), &ProcessedNote{
		TextContent: "still has text",
		IsTrashed:   true,
	})
	if summary != "Empty or trashed note - no summary generated" {
		t.Errorf("unexpected summary: %q", summary)
	}
}

func TestSummarizeModelFailure(t *testing.T) {
	completer := &fakeCompleter{err: os.ErrDeadlineExceeded}
	summarizer, _ := NewSummarizer(completer)

	summary := summarizer.Summarize(context.Background(), &ProcessedNote{TextContent: "text"})
	if !strings.HasPrefix(summary, "Error generating summary:") {
		t.Errorf("expected error string, got %q", summary)
	}
}

func TestSummarizeAttachesImages(t *testing.T) {
	dir := t.TempDir()
	imagePath := filepath.Join(dir, "photo.png")
	if err := os.WriteFile(imagePath, []byte{0x89, 0x50, 0x4e, 0x47}, 0644); err != nil {
		t.Fatal(err)
	}

	completer := &fakeCompleter{reply: "A photo note."}
	summarizer, _ := NewSummarizer(completer)

	note := &ProcessedNote{
		TextContent: "see photo",
		Attachments: []string{imagePath, filepath.Join(dir, "missing.png"), filepath.Join(dir, "audio.3gp")},
	}
	summarizer.Summarize(context.Background(), note)

	parts := completer.lastRequest().Messages[0].Parts
	var blobs int
	for _, p := range parts {
		if p.Blob != nil {
			blobs++
			if p.Blob.MIMEType != "image/png" {
				t.Errorf("unexpected MIME type: %q", p.Blob.MIMEType)
			}
		}
	}
	// Readable image attached; missing and non-image files skipped.
	if blobs != 1 {
		t.Errorf("expected 1 image blob, got %d", blobs)
	}

	prompt := parts[0].Text
	if !strings.Contains(prompt, "Attachments: 3 file(s)") {
		t.Errorf("prompt missing attachment count: %q", prompt)
	}
}

func TestBuildPromptEditedOnlyWhenDifferent(t *testing.T) {
	created := time.Unix(1700000000, 0)
	same := created

	prompt := buildPrompt(&ProcessedNote{TextContent: "x", Created: &created, Edited: &same})
	if strings.Contains(prompt, "Last edited:") {
		t.Error("expected no edited line when times match")
	}

	edited := created.Add(time.Hour)
	prompt = buildPrompt(&ProcessedNote{TextContent: "x", Created: &created, Edited: &edited})
	if !strings.Contains(prompt, "Last edited:") {
		t.Error("expected edited line when times differ")
	}
}

func TestBuildPromptArchived(t *testing.T) {
	prompt := buildPrompt(&ProcessedNote{TextContent: "x", IsArchived: true})
	if !strings.Contains(prompt, "Note is archived") {
		t.Error("expected archived marker in prompt")
	}
}
