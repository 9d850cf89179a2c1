package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewGeminiClientRequiresKey(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")

	_, err := NewGeminiClient(GeminiConfig{})
	if err == nil {
		t.Fatal("expected error when no API key is configured")
	}
}

func TestNewGeminiClientDefaults(t *testing.T) {
	client, err := NewGeminiClient(GeminiConfig{APIKey: "test-key"})
	if err != nil {
		t.Fatalf("NewGeminiClient failed: %v", err)
	}

	if client.Model() != DefaultGeminiModel {
		t.Errorf("expected default model %q, got %q", DefaultGeminiModel, client.Model())
	}
}

func TestGeminiCompleteText(t *testing.T) {
	var gotPath, gotKey string
	var gotReq geminiRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}

		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{
					"role":  "model",
					"parts": []map[string]any{{"text": "Hello there"}},
				},
				"finishReason": "STOP",
			}},
			"usageMetadata": map[string]any{
				"promptTokenCount":     12,
				"candidatesTokenCount": 4,
			},
		})
	}))
	defer server.Close()

	client, err := NewGeminiClient(GeminiConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
	})
	if err != nil {
		t.Fatalf("NewGeminiClient failed: %v", err)
	}

	resp, err := client.Complete(context.Background(), Request{
		System:   "Be helpful.",
		Messages: []Message{UserMessage(TextPart("Hi"))},
	})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	if !strings.HasSuffix(gotPath, DefaultGeminiModel+":generateContent") {
		t.Errorf("unexpected request path: %s", gotPath)
	}
	if gotKey != "test-key" {
		t.Errorf("expected api key header 'test-key', got %q", gotKey)
	}
	if gotReq.SystemInstruction == nil || gotReq.SystemInstruction.Parts[0].Text != "Be helpful." {
		t.Error("system instruction not sent")
	}
	if len(gotReq.Contents) != 1 || gotReq.Contents[0].Role != "user" {
		t.Errorf("unexpected contents: %+v", gotReq.Contents)
	}

	if resp.Text() != "Hello there" {
		t.Errorf("expected text 'Hello there', got %q", resp.Text())
	}
	if !resp.EndTurn {
		t.Error("expected EndTurn true for a text-only reply")
	}
	if resp.Usage.InputTokens != 12 || resp.Usage.OutputTokens != 4 {
		t.Errorf("unexpected usage: %+v", resp.Usage)
	}
	in, out := client.Tracker().Total()
	if in != 12 || out != 4 {
		t.Errorf("expected tracker totals 12/4, got %d/%d", in, out)
	}
}

func TestGeminiCompleteToolCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req geminiRequest
		json.NewDecoder(r.Body).Decode(&req)

		if len(req.Tools) != 1 || req.Tools[0].FunctionDeclarations[0].Name != "capture_task" {
			t.Errorf("tool declarations not sent: %+v", req.Tools)
		}

		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{
					"role": "model",
					"parts": []map[string]any{{
						"functionCall": map[string]any{
							"name": "capture_task",
							"args": map[string]any{"task_description": "buy milk"},
						},
					}},
				},
			}},
		})
	}))
	defer server.Close()

	client, err := NewGeminiClient(GeminiConfig{APIKey: "test-key", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewGeminiClient failed: %v", err)
	}

	resp, err := client.Complete(context.Background(), Request{
		Messages: []Message{UserMessage(TextPart("capture: buy milk"))},
		Tools: []ToolDecl{{
			Name:        "capture_task",
			Description: "Capture a task",
			Properties: map[string]any{
				"task_description": map[string]any{"type": "string"},
			},
			Required: []string{"task_description"},
		}},
	})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	if resp.EndTurn {
		t.Error("expected EndTurn false when a tool call is present")
	}

	calls := resp.ToolCalls()
	if len(calls) != 1 {
		t.Fatalf("expected 1 tool call, got %d", len(calls))
	}
	if calls[0].Name != "capture_task" {
		t.Errorf("expected tool 'capture_task', got %q", calls[0].Name)
	}
	if calls[0].ID != "capture_task" {
		t.Errorf("expected call ID to fall back to tool name, got %q", calls[0].ID)
	}

	var args map[string]string
	if err := json.Unmarshal(calls[0].Input, &args); err != nil {
		t.Fatalf("unmarshal args: %v", err)
	}
	if args["task_description"] != "buy milk" {
		t.Errorf("unexpected args: %v", args)
	}
}

func TestGeminiCompleteAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"code":    400,
				"message": "API key not valid",
				"status":  "INVALID_ARGUMENT",
			},
		})
	}))
	defer server.Close()

	client, err := NewGeminiClient(GeminiConfig{APIKey: "bad-key", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewGeminiClient failed: %v", err)
	}

	_, err = client.Complete(context.Background(), Request{
		Messages: []Message{UserMessage(TextPart("Hi"))},
	})
	if err == nil {
		t.Fatal("expected error from API error response")
	}
	if !strings.Contains(err.Error(), "API key not valid") {
		t.Errorf("expected error message to surface, got: %v", err)
	}
}

func TestEncodeGeminiMessages(t *testing.T) {
	messages := []Message{
		UserMessage(TextPart("hello"), BlobPart("image/png", []byte{1, 2, 3})),
		AssistantMessage(Part{ToolCall: &ToolCall{Name: "t", Input: json.RawMessage(`{}`)}}),
		UserMessage(Part{ToolResult: &ToolResult{Name: "t", Content: "ok"}}),
	}

	contents := encodeGeminiMessages(messages)
	if len(contents) != 3 {
		t.Fatalf("expected 3 contents, got %d", len(contents))
	}

	if contents[0].Role != "user" || contents[0].Parts[0].Text != "hello" {
		t.Errorf("unexpected first content: %+v", contents[0])
	}
	if contents[0].Parts[1].InlineData == nil || contents[0].Parts[1].InlineData.MIMEType != "image/png" {
		t.Error("blob part not encoded as inlineData")
	}
	if contents[1].Role != "model" || contents[1].Parts[0].FunctionCall == nil {
		t.Errorf("tool call not encoded: %+v", contents[1])
	}
	if contents[2].Parts[0].FunctionResponse == nil {
		t.Errorf("tool result not encoded: %+v", contents[2])
	}
	if contents[2].Parts[0].FunctionResponse.Response["output"] != "ok" {
		t.Error("tool result content not carried in response map")
	}
}

func TestEncodeGeminiMessagesErrorResult(t *testing.T) {
	contents := encodeGeminiMessages([]Message{
		UserMessage(Part{ToolResult: &ToolResult{Name: "t", Content: "boom", IsError: true}}),
	})

	resp := contents[0].Parts[0].FunctionResponse.Response
	if resp["error"] != "boom" {
		t.Errorf("expected error key for failed tool result, got %v", resp)
	}
}
