// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	anthropicAPIVersion = "2023-06-01"
	defaultBaseURL      = "https://api.anthropic.com/v1/messages"
	defaultModel        = "claude-3-5-sonnet-20240620"
	defaultMaxTokens    = 1024
)

// ErrNotConfigured is returned by NewAnthropicClient when no API key is
// available. Callers treat this as degraded mode, not a failure.
var ErrNotConfigured = fmt.Errorf("anthropic: API key is missing (ANTHROPIC_API_KEY)")

// --- Wire types ---

type anthropicRequest struct {
	Model     string        `json:"model"`
	Messages  []any         `json:"messages"`
	System    []systemBlock `json:"system,omitempty"`
	MaxTokens int           `json:"max_tokens"`
	Tools     []ToolDef     `json:"tools,omitempty"`

	Temperature *float32 `json:"temperature,omitempty"`
}

// anthropicTextMessage is a message with plain string content.
type anthropicTextMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// anthropicBlockMessage is a message with structured content blocks
// (tool_use, tool_result, text).
type anthropicBlockMessage struct {
	Role    string `json:"role"`
	Content []any  `json:"content"`
}

type systemBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// anthropicTextBlock is a text content block.
type anthropicTextBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// anthropicToolUseBlock is a tool_use content block in an assistant message.
type anthropicToolUseBlock struct {
	Type  string          `json:"type"`
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Input json.RawMessage `json:"input"`
}

// anthropicToolResultBlock is a tool_result content block in a user message.
type anthropicToolResultBlock struct {
	Type      string `json:"type"`
	ToolUseID string `json:"tool_use_id"`
	Content   string `json:"content"`
}

type anthropicResponse struct {
	ID         string            `json:"id"`
	Type       string            `json:"type"`
	Role       string            `json:"role"`
	Content    []json.RawMessage `json:"content"`
	StopReason string            `json:"stop_reason,omitempty"`
	Error      *anthropicError   `json:"error,omitempty"`
}

// anthropicContentBlock is used for parsing individual response blocks.
type anthropicContentBlock struct {
	Type  string          `json:"type"`
	Text  string          `json:"text,omitempty"`
	ID    string          `json:"id,omitempty"`
	Name  string          `json:"name,omitempty"`
	Input json.RawMessage `json:"input,omitempty"`
}

type anthropicError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// --- Client Implementation ---

// GenerationParams holds the optional per-call generation settings.
type GenerationParams struct {
	// MaxTokens caps the response size. Zero means the client default.
	MaxTokens int

	// Temperature, when non-nil, overrides the model default.
	Temperature *float32
}

// AnthropicClient performs request/response exchanges against the Anthropic
// Messages API. It holds no conversation state; all state lives in the
// message list the caller passes.
//
// Thread Safety: AnthropicClient is safe for concurrent use.
type AnthropicClient struct {
	httpClient *http.Client
	apiKey     string
	model      string
	baseURL    string
}

// NewAnthropicClientWithConfig creates an AnthropicClient with explicit
// configuration.
//
// Description:
//
//	Creates an AnthropicClient without reading environment variables. Useful
//	for testing with mock servers or when configuration comes from a source
//	other than environment variables.
//
// Inputs:
//   - apiKey: The Anthropic API key.
//   - model: The model name. Empty uses the package default.
//   - baseURL: The base URL for API requests. Empty uses the public endpoint.
//
// Outputs:
//   - *AnthropicClient: The configured client.
func NewAnthropicClientWithConfig(apiKey, model, baseURL string) *AnthropicClient {
	if model == "" {
		model = defaultModel
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &AnthropicClient{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		apiKey:     apiKey,
		model:      model,
		baseURL:    baseURL,
	}
}

// NewAnthropicClient creates a client from the environment.
//
// Description:
//
//	Reads ANTHROPIC_API_KEY (falling back to the container secret at
//	/run/secrets/anthropic_api_key) and CLAUDE_MODEL. Returns
//	ErrNotConfigured when no key is available so the caller can run the
//	assistant in degraded keyword mode instead of failing startup.
func NewAnthropicClient() (*AnthropicClient, error) {
	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	model := os.Getenv("CLAUDE_MODEL")

	if apiKey == "" {
		secretPath := "/run/secrets/anthropic_api_key"
		if content, err := os.ReadFile(secretPath); err == nil {
			apiKey = strings.TrimSpace(string(content))
			slog.Info("Read Anthropic API Key from container secrets")
		}
	}

	if apiKey == "" {
		slog.Warn("Anthropic API Key is missing, assistant will run in degraded mode")
		return nil, ErrNotConfigured
	}

	if model == "" {
		model = defaultModel
		slog.Info("CLAUDE_MODEL not set, defaulting to", "model", model)
	}

	return &AnthropicClient{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		apiKey:     apiKey,
		model:      model,
		baseURL:    defaultBaseURL,
	}, nil
}

// Model returns the configured model name.
func (a *AnthropicClient) Model() string {
	return a.model
}

// ChatWithTools sends one chat request with tool definitions and parses the
// tool calls out of the response.
//
// Description:
//
//	Converts the generic ChatMessage list to Anthropic wire format: a "system"
//	role message becomes the top-level system prompt; assistant messages with
//	ToolCalls become tool_use content blocks; consecutive "tool" role messages
//	are folded into a single user message of tool_result blocks, preserving
//	their order. The response's text blocks are newline-joined into Content
//	and tool_use blocks become ToolCalls in issue order.
//
// Inputs:
//   - ctx: Context for cancellation and timeout.
//   - messages: Conversation history with tool metadata.
//   - params: Generation parameters.
//   - tools: Tool definitions for function calling.
//
// Outputs:
//   - *ChatWithToolsResult: Content and/or tool calls.
//   - error: Non-nil on transport failure or an API error payload.
//
// Thread Safety: This method is safe for concurrent use.
func (a *AnthropicClient) ChatWithTools(ctx context.Context, messages []ChatMessage,
	params GenerationParams, tools []ToolDef) (*ChatWithToolsResult, error) {

	ctx, span := otel.Tracer(modelTracerName).Start(ctx, "llm.AnthropicClient.ChatWithTools",
		trace.WithAttributes(
			attribute.String("model", a.model),
			attribute.Int("message_count", len(messages)),
			attribute.Int("tool_count", len(tools)),
		),
	)
	defer span.End()

	slog.Debug("ChatWithTools via Anthropic",
		slog.String("model", a.model),
		slog.Int("messages", len(messages)),
		slog.Int("tools", len(tools)),
	)

	apiMessages, systemBlocks := encodeMessages(messages)

	maxTokens := params.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	reqPayload := anthropicRequest{
		Model:       a.model,
		Messages:    apiMessages,
		System:      systemBlocks,
		MaxTokens:   maxTokens,
		Tools:       tools,
		Temperature: params.Temperature,
	}

	reqBodyBytes, err := json.Marshal(reqPayload)
	if err != nil {
		return nil, fmt.Errorf("anthropic: marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", a.baseURL, bytes.NewBuffer(reqBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("anthropic: creating HTTP request: %w", err)
	}

	req.Header.Set("x-api-key", a.apiKey)
	req.Header.Set("anthropic-version", anthropicAPIVersion)
	req.Header.Set("content-type", "application/json")

	startTime := time.Now()
	resp, err := a.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		recordModelMetrics(a.model, time.Since(startTime), err)
		return nil, fmt.Errorf("anthropic: HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		recordModelMetrics(a.model, time.Since(startTime), err)
		return nil, fmt.Errorf("anthropic: reading response body (status %d): %w", resp.StatusCode, err)
	}

	slog.Debug("Anthropic response received",
		slog.Int("status", resp.StatusCode),
		slog.Int("body_length", len(bodyBytes)),
		slog.String("body", SafeLogString(string(bodyBytes))),
	)

	if resp.StatusCode != http.StatusOK {
		statusErr := fmt.Errorf("anthropic: API returned status %d: %s", resp.StatusCode, SafeLogString(string(bodyBytes)))
		span.SetStatus(codes.Error, statusErr.Error())
		recordModelMetrics(a.model, time.Since(startTime), statusErr)
		return nil, statusErr
	}

	var apiResp anthropicResponse
	if err := json.Unmarshal(bodyBytes, &apiResp); err != nil {
		recordModelMetrics(a.model, time.Since(startTime), err)
		return nil, fmt.Errorf("anthropic: parsing response JSON: %w", err)
	}

	if apiResp.Error != nil {
		apiErr := fmt.Errorf("anthropic: API error: %s - %s", apiResp.Error.Type, SafeLogString(apiResp.Error.Message))
		span.SetStatus(codes.Error, apiErr.Error())
		recordModelMetrics(a.model, time.Since(startTime), apiErr)
		return nil, apiErr
	}

	recordModelMetrics(a.model, time.Since(startTime), nil)

	result := &ChatWithToolsResult{StopReason: apiResp.StopReason}
	var textParts []string

	for _, raw := range apiResp.Content {
		var block anthropicContentBlock
		if err := json.Unmarshal(raw, &block); err != nil {
			slog.Warn("Failed to parse content block", "error", err)
			continue
		}

		switch block.Type {
		case "text":
			textParts = append(textParts, block.Text)
		case "tool_use":
			input := block.Input
			if len(input) == 0 {
				input = json.RawMessage(`{}`)
			}
			result.ToolCalls = append(result.ToolCalls, ToolCall{
				ID:    block.ID,
				Name:  block.Name,
				Input: input,
			})
		}
	}

	result.Content = strings.Join(textParts, "\n")

	// Older endpoint versions omit stop_reason; infer it from the blocks.
	if result.StopReason == "" {
		if len(result.ToolCalls) > 0 {
			result.StopReason = StopReasonToolUse
		} else {
			result.StopReason = "end_turn"
		}
	}

	span.SetAttributes(
		attribute.String("stop_reason", result.StopReason),
		attribute.Int("tool_calls", len(result.ToolCalls)),
	)

	return result, nil
}

// encodeMessages converts ChatMessages to Anthropic wire messages, pulling
// the system prompt out into top-level system blocks.
//
// Consecutive "tool" role messages fold into one user message of tool_result
// blocks so every tool_use in the preceding assistant turn is answered in a
// single user turn, as the Messages API requires.
func encodeMessages(messages []ChatMessage) ([]any, []systemBlock) {
	var apiMessages []any
	var systemBlocks []systemBlock
	var pendingResults []any

	flushResults := func() {
		if len(pendingResults) == 0 {
			return
		}
		apiMessages = append(apiMessages, anthropicBlockMessage{
			Role:    "user",
			Content: pendingResults,
		})
		pendingResults = nil
	}

	for _, msg := range messages {
		if msg.Role == "system" {
			systemBlocks = append(systemBlocks, systemBlock{Type: "text", Text: msg.Content})
			continue
		}

		switch {
		case msg.Role == "tool" && msg.ToolCallID != "":
			pendingResults = append(pendingResults, anthropicToolResultBlock{
				Type:      "tool_result",
				ToolUseID: msg.ToolCallID,
				Content:   msg.Content,
			})

		case msg.Role == "assistant" && len(msg.ToolCalls) > 0:
			flushResults()
			var blocks []any
			if msg.Content != "" {
				blocks = append(blocks, anthropicTextBlock{Type: "text", Text: msg.Content})
			}
			for _, tc := range msg.ToolCalls {
				blocks = append(blocks, anthropicToolUseBlock{
					Type:  "tool_use",
					ID:    tc.ID,
					Name:  tc.Name,
					Input: tc.InputOrEmpty(),
				})
			}
			apiMessages = append(apiMessages, anthropicBlockMessage{
				Role:    "assistant",
				Content: blocks,
			})

		default:
			flushResults()
			apiMessages = append(apiMessages, anthropicTextMessage{
				Role:    msg.Role,
				Content: msg.Content,
			})
		}
	}
	flushResults()

	return apiMessages, systemBlocks
}
