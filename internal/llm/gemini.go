package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// DefaultGeminiModel is the model used when none is configured.
const DefaultGeminiModel = "gemini-2.0-flash"

// geminiBaseURL is the REST endpoint for the generateContent API.
const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

// GeminiClient talks to the Gemini generateContent REST API.
type GeminiClient struct {
	apiKey  string
	model   string
	baseURL string
	httpc   *http.Client
	tracker *TokenTracker
}

// GeminiConfig contains configuration for creating a GeminiClient.
type GeminiConfig struct {
	// Model is the Gemini model name. Defaults to DefaultGeminiModel.
	Model string
	// APIKey is the API key. If empty, GOOGLE_API_KEY then GEMINI_API_KEY
	// environment variables are consulted.
	APIKey string
	// BaseURL overrides the API endpoint (used in tests).
	BaseURL string
	// Timeout bounds each HTTP call. Defaults to 2 minutes.
	Timeout time.Duration
}

// NewGeminiClient creates a new Gemini REST client.
func NewGeminiClient(cfg GeminiConfig) (*GeminiClient, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("GOOGLE_API_KEY")
	}
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("GOOGLE_API_KEY environment variable is not set")
	}

	model := cfg.Model
	if model == "" {
		model = DefaultGeminiModel
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = geminiBaseURL
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 2 * time.Minute
	}

	return &GeminiClient{
		apiKey:  apiKey,
		model:   model,
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: timeout},
		tracker: NewTokenTracker(),
	}, nil
}

// Model returns the configured model name.
func (c *GeminiClient) Model() string {
	return c.model
}

// Tracker returns the token tracker for this client.
func (c *GeminiClient) Tracker() *TokenTracker {
	return c.tracker
}

// Wire types for the generateContent API.

type geminiRequest struct {
	SystemInstruction *geminiContent  `json:"systemInstruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
	Tools             []geminiTool    `json:"tools,omitempty"`
	GenerationConfig  *geminiGenCfg   `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text             string          `json:"text,omitempty"`
	InlineData       *geminiBlob     `json:"inlineData,omitempty"`
	FunctionCall     *geminiFnCall   `json:"functionCall,omitempty"`
	FunctionResponse *geminiFnResult `json:"functionResponse,omitempty"`
}

type geminiBlob struct {
	MIMEType string `json:"mimeType"`
	Data     []byte `json:"data"` // base64 via encoding/json
}

type geminiFnCall struct {
	Name string          `json:"name"`
	Args json.RawMessage `json:"args,omitempty"`
}

type geminiFnResult struct {
	Name     string         `json:"name"`
	Response map[string]any `json:"response"`
}

type geminiTool struct {
	FunctionDeclarations []geminiFnDecl `json:"functionDeclarations"`
}

type geminiFnDecl struct {
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Parameters  *geminiSchema `json:"parameters,omitempty"`
}

type geminiSchema struct {
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties,omitempty"`
	Required   []string       `json:"required,omitempty"`
}

type geminiGenCfg struct {
	MaxOutputTokens int `json:"maxOutputTokens,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int64 `json:"promptTokenCount"`
		CandidatesTokenCount int64 `json:"candidatesTokenCount"`
	} `json:"usageMetadata"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Complete sends one generateContent request and decodes the reply.
func (c *GeminiClient) Complete(ctx context.Context, req Request) (*Response, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}

	wire := geminiRequest{
		Contents: encodeGeminiMessages(req.Messages),
	}
	if req.System != "" {
		wire.SystemInstruction = &geminiContent{
			Parts: []geminiPart{{Text: req.System}},
		}
	}
	if len(req.Tools) > 0 {
		wire.Tools = []geminiTool{{FunctionDeclarations: encodeGeminiTools(req.Tools)}}
	}
	if req.MaxTokens > 0 {
		wire.GenerationConfig = &geminiGenCfg{MaxOutputTokens: req.MaxTokens}
	}

	body, err := json.Marshal(wire)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent", c.baseURL, model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	httpResp, err := c.httpc.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call gemini: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var wireResp geminiResponse
	if err := json.Unmarshal(respBody, &wireResp); err != nil {
		return nil, fmt.Errorf("decode response (status %d): %w", httpResp.StatusCode, err)
	}
	if wireResp.Error != nil {
		return nil, fmt.Errorf("gemini API error %d (%s): %s",
			wireResp.Error.Code, wireResp.Error.Status, wireResp.Error.Message)
	}
	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gemini API returned status %d", httpResp.StatusCode)
	}
	if len(wireResp.Candidates) == 0 {
		return nil, fmt.Errorf("gemini API returned no candidates")
	}

	resp := &Response{
		Usage: Usage{
			InputTokens:  wireResp.UsageMetadata.PromptTokenCount,
			OutputTokens: wireResp.UsageMetadata.CandidatesTokenCount,
		},
		EndTurn: true,
	}

	for _, part := range wireResp.Candidates[0].Content.Parts {
		switch {
		case part.FunctionCall != nil:
			resp.Parts = append(resp.Parts, Part{ToolCall: &ToolCall{
				// Gemini has no call IDs; the tool name stands in.
				ID:    part.FunctionCall.Name,
				Name:  part.FunctionCall.Name,
				Input: part.FunctionCall.Args,
			}})
			resp.EndTurn = false
		case part.Text != "":
			resp.Parts = append(resp.Parts, TextPart(part.Text))
		}
	}

	c.tracker.Add(resp.Usage.InputTokens, resp.Usage.OutputTokens)
	return resp, nil
}

// encodeGeminiMessages converts neutral messages to wire contents.
func encodeGeminiMessages(messages []Message) []geminiContent {
	contents := make([]geminiContent, 0, len(messages))
	for _, msg := range messages {
		role := "user"
		if msg.Role == RoleAssistant {
			role = "model"
		}
		content := geminiContent{Role: role}
		for _, p := range msg.Parts {
			switch {
			case p.Blob != nil:
				content.Parts = append(content.Parts, geminiPart{
					InlineData: &geminiBlob{MIMEType: p.Blob.MIMEType, Data: p.Blob.Data},
				})
			case p.ToolCall != nil:
				content.Parts = append(content.Parts, geminiPart{
					FunctionCall: &geminiFnCall{Name: p.ToolCall.Name, Args: p.ToolCall.Input},
				})
			case p.ToolResult != nil:
				response := map[string]any{"output": p.ToolResult.Content}
				if p.ToolResult.IsError {
					response = map[string]any{"error": p.ToolResult.Content}
				}
				content.Parts = append(content.Parts, geminiPart{
					FunctionResponse: &geminiFnResult{Name: p.ToolResult.Name, Response: response},
				})
			default:
				content.Parts = append(content.Parts, geminiPart{Text: p.Text})
			}
		}
		contents = append(contents, content)
	}
	return contents
}

// encodeGeminiTools converts neutral tool declarations to wire format.
func encodeGeminiTools(tools []ToolDecl) []geminiFnDecl {
	decls := make([]geminiFnDecl, 0, len(tools))
	for _, t := range tools {
		decl := geminiFnDecl{
			Name:        t.Name,
			Description: t.Description,
		}
		if len(t.Properties) > 0 {
			decl.Parameters = &geminiSchema{
				Type:       "object",
				Properties: t.Properties,
				Required:   t.Required,
			}
		}
		decls = append(decls, decl)
	}
	return decls
}
