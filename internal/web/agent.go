package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ShayCichocki/flowkit/internal/flow"
	"github.com/ShayCichocki/flowkit/internal/llm"
	"github.com/ShayCichocki/flowkit/internal/tool"
)

// AppName identifies the webpage summary workflow in sessions.
const AppName = "WebpageSummary"

const agentInstruction = "You are a helpful agent that can visit any webpage and provide a clear, " +
	"concise one-paragraph summary of its content. When a user provides a URL, " +
	"you will fetch the webpage, analyze its content, and return a summary that " +
	"captures the main topics and key information discussed on the page."

const summaryPromptFormat = `Provide a concise one-paragraph summary of the webpage at %s.

The summary should:
- Be exactly one paragraph (no line breaks)
- Capture the main topics and key information
- Be clear and informative
- Include the webpage title if available
- Be approximately 100-200 words

Webpage title: %s

Webpage content:
%s

Format your response as just the summary paragraph, without any additional text or formatting.`

// maxContentChars caps how much extracted page text is sent to the model.
const maxContentChars = 24000

// SummaryResult is the structured result of the fetch_webpage_summary tool.
type SummaryResult struct {
	Status       string `json:"status"`
	Summary      string `json:"summary,omitempty"`
	URL          string `json:"url,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// NewSummaryTool builds the fetch_webpage_summary tool. The tool fetches
// the page itself, extracts the readable text, and runs a nested model
// call to produce the summary. Failures are returned as structured error
// results, never Go errors, so the calling agent can report them.
func NewSummaryTool(completer llm.Completer, client *http.Client) *tool.Tool {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	return &tool.Tool{
		Name: "fetch_webpage_summary",
		Description: "Fetches a webpage and generates a one-paragraph text summary " +
			"of its content.",
		Properties: map[string]any{
			"url": map[string]any{
				"type":        "string",
				"description": "The URL of the webpage to summarize",
			},
		},
		Required: []string{"url"},
		Handler: func(ctx context.Context, input json.RawMessage) (string, error) {
			var args struct {
				URL string `json:"url"`
			}
			if err := json.Unmarshal(input, &args); err != nil {
				return encodeResult(SummaryResult{
					Status:       "error",
					ErrorMessage: fmt.Sprintf("invalid input: %v", err),
				})
			}

			if err := ValidateURL(args.URL); err != nil {
				return encodeResult(SummaryResult{
					Status: "error",
					ErrorMessage: "Invalid URL format. Please provide a valid URL " +
						"with protocol (http:// or https://).",
				})
			}

			page, err := Fetch(client, args.URL)
			if err != nil {
				return encodeResult(SummaryResult{
					Status:       "error",
					ErrorMessage: fmt.Sprintf("An error occurred while processing the webpage: %v", err),
				})
			}

			summary, err := summarize(ctx, completer, page)
			if err != nil {
				return encodeResult(SummaryResult{
					Status:       "error",
					ErrorMessage: fmt.Sprintf("Failed to generate summary: %v", err),
				})
			}

			return encodeResult(SummaryResult{
				Status:  "success",
				Summary: summary,
				URL:     args.URL,
			})
		},
	}
}

// summarize runs a single model call over the extracted page content.
func summarize(ctx context.Context, completer llm.Completer, page *Page) (string, error) {
	content := page.Text
	if len(content) > maxContentChars {
		content = content[:maxContentChars]
	}

	prompt := fmt.Sprintf(summaryPromptFormat, page.URL, page.Title, content)
	resp, err := completer.Complete(ctx, llm.Request{
		Messages: []llm.Message{llm.UserMessage(llm.TextPart(prompt))},
	})
	if err != nil {
		return "", err
	}

	summary := strings.TrimSpace(resp.Text())
	if summary == "" {
		return "", fmt.Errorf("model returned no summary")
	}
	return summary, nil
}

// encodeResult marshals a tool result to JSON.
func encodeResult(result SummaryResult) (string, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// NewAgent builds the webpage summary agent wired with its tool.
func NewAgent(completer llm.Completer, client *http.Client) flow.Agent {
	registry := tool.NewRegistry()
	registry.MustRegister(NewSummaryTool(completer, client))

	return &flow.LLMAgent{
		AgentName:        "webpage_summary_agent",
		AgentDescription: "Agent that fetches webpages and generates concise one-paragraph text summaries.",
		Instruction:      agentInstruction,
		Tools:            []string{"fetch_webpage_summary"},
		Completer:        completer,
		Registry:         registry,
	}
}
