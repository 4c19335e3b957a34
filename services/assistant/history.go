// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package assistant

import (
	"encoding/json"
	"strings"

	"github.com/AleutianAI/AleutianCRM/services/llm"
)

// maxHistoryTurns caps how many caller-supplied turns are kept. The
// bound applies to turns as the caller sent them, before a block turn
// expands into several model messages.
const maxHistoryTurns = 10

// historyBlock mirrors the content block shapes the model API emits,
// which callers echo back verbatim as history.
type historyBlock struct {
	Type      string          `json:"type"`
	Text      string          `json:"text"`
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Input     json.RawMessage `json:"input"`
	ToolUseID string          `json:"tool_use_id"`
	Content   string          `json:"content"`
}

// toModelHistory converts caller-supplied turns into the message shape
// the model client consumes.
//
// Description:
//
//	Each turn's content is either a plain string or a block array.
//	Text blocks are joined into the turn's text; tool_use blocks on an
//	assistant turn become tool calls; tool_result blocks become
//	tool-role messages. Turns that cannot be parsed are dropped rather
//	than failing the request.
//
//	Only the last 10 caller turns are kept, counted before block
//	expansion. Truncating after expansion could cut between an
//	assistant tool_use turn and its results, and the model API rejects
//	a tool_result whose tool_use is missing; any tool results orphaned
//	by the cut are dropped for the same reason.
func toModelHistory(history []HistoryMessage) []llm.ChatMessage {
	if len(history) > maxHistoryTurns {
		history = history[len(history)-maxHistoryTurns:]
	}

	messages := make([]llm.ChatMessage, 0, len(history))

	for _, turn := range history {
		if len(turn.Content) == 0 {
			continue
		}

		var text string
		if err := json.Unmarshal(turn.Content, &text); err == nil {
			messages = append(messages, llm.ChatMessage{Role: turn.Role, Content: text})
			continue
		}

		var blocks []historyBlock
		if err := json.Unmarshal(turn.Content, &blocks); err != nil {
			continue
		}

		var (
			texts     []string
			toolCalls []llm.ToolCall
		)
		for _, block := range blocks {
			switch block.Type {
			case "text":
				texts = append(texts, block.Text)
			case "tool_use":
				toolCalls = append(toolCalls, llm.ToolCall{
					ID:    block.ID,
					Name:  block.Name,
					Input: block.Input,
				})
			case "tool_result":
				messages = append(messages, llm.ChatMessage{
					Role:       "tool",
					ToolCallID: block.ToolUseID,
					Content:    block.Content,
				})
			}
		}
		if len(texts) > 0 || len(toolCalls) > 0 {
			messages = append(messages, llm.ChatMessage{
				Role:      turn.Role,
				Content:   strings.Join(texts, "\n"),
				ToolCalls: toolCalls,
			})
		}
	}

	for len(messages) > 0 && messages[0].Role == "tool" {
		messages = messages[1:]
	}

	return messages
}
