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

import "encoding/json"

// ToolDef describes one tool the model may invoke.
//
// Description:
//
//	Matches the Anthropic Messages API tool shape: a name, a natural-language
//	description, and a JSON Schema for the input object. The catalogue is
//	built once at startup and passed verbatim on every ChatWithTools call.
//
// Thread Safety: ToolDef is immutable and safe for concurrent read access.
type ToolDef struct {
	// Name is the tool name the model will call.
	Name string `json:"name"`

	// Description explains what the tool does.
	Description string `json:"description"`

	// InputSchema defines the JSON Schema for the tool input.
	InputSchema ToolParameters `json:"input_schema"`
}

// ToolParameters defines the JSON Schema for tool input parameters.
type ToolParameters struct {
	// Type is the JSON Schema type. Always "object" for tool input.
	Type string `json:"type"`

	// Properties maps parameter names to their definitions.
	Properties map[string]ToolParamDef `json:"properties,omitempty"`

	// Required lists parameter names that must be provided.
	Required []string `json:"required,omitempty"`
}

// ToolParamDef defines a single parameter in JSON Schema format.
type ToolParamDef struct {
	// Type is the JSON Schema type (string, integer, boolean, number).
	Type string `json:"type"`

	// Description explains what the parameter is for.
	Description string `json:"description,omitempty"`

	// Enum restricts values to a set of options.
	Enum []any `json:"enum,omitempty"`
}

// ChatMessage is a conversation message that carries tool call metadata.
//
// Description:
//
//	Regular messages use Role + Content. Assistant messages that requested
//	tools carry ToolCalls. Tool results use Role "tool" with the ToolCallID
//	of the request they answer; the wire encoder folds consecutive tool
//	messages into a single user-role message of tool_result blocks, which is
//	what the Messages API requires.
//
// Thread Safety: ChatMessage is safe for concurrent read access.
type ChatMessage struct {
	// Role is the message role: "system", "user", "assistant", or "tool".
	Role string `json:"role"`

	// Content is the text content of the message.
	Content string `json:"content,omitempty"`

	// ToolCalls contains tool invocations (for assistant messages).
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`

	// ToolCallID links this message back to a specific tool call
	// (for tool result messages).
	ToolCallID string `json:"tool_call_id,omitempty"`
}

// ToolCall is one tool invocation requested by the model.
type ToolCall struct {
	// ID is the unique identifier the model assigned to this call.
	ID string `json:"id"`

	// Name is the tool name to call.
	Name string `json:"name"`

	// Input is the raw JSON input for the tool.
	Input json.RawMessage `json:"input"`
}

// InputOrEmpty returns the call input, substituting "{}" for nil/empty.
//
// Thread Safety: This method is safe for concurrent use.
func (t *ToolCall) InputOrEmpty() json.RawMessage {
	if len(t.Input) == 0 {
		return json.RawMessage(`{}`)
	}
	return t.Input
}

// ChatWithToolsResult is the parsed result of one ChatWithTools exchange.
//
// Thread Safety: ChatWithToolsResult is safe for concurrent read access.
type ChatWithToolsResult struct {
	// Content is the text response, newline-joined across text blocks.
	// May be empty if the model only requested tools.
	Content string

	// ToolCalls contains tool invocations requested by the model,
	// in the order the model issued them.
	ToolCalls []ToolCall

	// StopReason is the raw stop_reason from the API response,
	// e.g. "tool_use" or "end_turn".
	StopReason string
}

// StopReasonToolUse is the stop_reason signalling the model wants tool
// results before it can continue.
const StopReasonToolUse = "tool_use"
