package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ShayCichocki/flowkit/internal/flow"
	"github.com/ShayCichocki/flowkit/internal/llm"
)

// fakeCompleter returns a fixed reply and records requests.
type fakeCompleter struct {
	reply    string
	err      error
	requests []llm.Request
}

func (f *fakeCompleter) Complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
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

func callTool(t *testing.T, completer llm.Completer, client *http.Client, url string) SummaryResult {
	t.Helper()

	summaryTool := NewSummaryTool(completer, client)
	input, _ := json.Marshal(map[string]string{"url": url})
	content, err := summaryTool.Handler(context.Background(), input)
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	var result SummaryResult
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		t.Fatalf("result is not valid JSON: %v\n%s", err, content)
	}
	return result
}

func TestSummaryToolSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><title>Go Blog</title></head><body><p>Go 1.24 released.</p></body></html>`))
	}))
	defer server.Close()

	completer := &fakeCompleter{reply: "The page announces the Go 1.24 release."}
	result := callTool(t, completer, server.Client(), server.URL)

	if result.Status != "success" {
		t.Fatalf("unexpected status: %q (%s)", result.Status, result.ErrorMessage)
	}
	if result.Summary != "The page announces the Go 1.24 release." {
		t.Errorf("unexpected summary: %q", result.Summary)
	}
	if result.URL != server.URL {
		t.Errorf("unexpected URL: %q", result.URL)
	}

	// The model sees the page title and extracted text, not raw HTML.
	prompt := completer.requests[0].Messages[0].Parts[0].Text
	if !strings.Contains(prompt, "Go Blog") {
		t.Errorf("prompt missing title: %q", prompt)
	}
	if !strings.Contains(prompt, "Go 1.24 released.") {
		t.Errorf("prompt missing page text: %q", prompt)
	}
	if strings.Contains(prompt, "<html>") {
		t.Errorf("prompt contains raw HTML: %q", prompt)
	}
}

func TestSummaryToolInvalidURL(t *testing.T) {
	completer := &fakeCompleter{reply: "unused"}
	result := callTool(t, completer, nil, "not-a-url")

	if result.Status != "error" {
		t.Fatalf("unexpected status: %q", result.Status)
	}
	want := "Invalid URL format. Please provide a valid URL with protocol (http:// or https://)."
	if result.ErrorMessage != want {
		t.Errorf("unexpected error message: %q", result.ErrorMessage)
	}
	if len(completer.requests) != 0 {
		t.Error("expected no model calls for invalid URL")
	}
}

func TestSummaryToolFetchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	completer := &fakeCompleter{reply: "unused"}
	result := callTool(t, completer, server.Client(), server.URL)

	if result.Status != "error" {
		t.Fatalf("unexpected status: %q", result.Status)
	}
	if !strings.Contains(result.ErrorMessage, "An error occurred while processing the webpage") {
		t.Errorf("unexpected error message: %q", result.ErrorMessage)
	}
}

func TestSummaryToolModelFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<p>content</p>`))
	}))
	defer server.Close()

	completer := &fakeCompleter{err: context.DeadlineExceeded}
	result := callTool(t, completer, server.Client(), server.URL)

	if result.Status != "error" {
		t.Fatalf("unexpected status: %q", result.Status)
	}
	if !strings.Contains(result.ErrorMessage, "Failed to generate summary") {
		t.Errorf("unexpected error message: %q", result.ErrorMessage)
	}
}

func TestNewAgent(t *testing.T) {
	agent, ok := NewAgent(&fakeCompleter{}, nil).(*flow.LLMAgent)
	if !ok {
		t.Fatal("expected LLMAgent")
	}
	if agent.Name() != "webpage_summary_agent" {
		t.Errorf("unexpected name: %q", agent.Name())
	}
	if len(agent.Tools) != 1 || agent.Tools[0] != "fetch_webpage_summary" {
		t.Errorf("unexpected tools: %v", agent.Tools)
	}
	if agent.Registry.Get("fetch_webpage_summary") == nil {
		t.Error("tool not registered")
	}
}
