// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/AleutianAI/AleutianCRM/services/crm"
	"github.com/AleutianAI/AleutianCRM/services/llm"
)

// scriptedClient returns canned results in order and records every
// message list it was called with.
type scriptedClient struct {
	results  []*llm.ChatWithToolsResult
	err      error
	calls    int
	captured [][]llm.ChatMessage
}

func (c *scriptedClient) ChatWithTools(_ context.Context, messages []llm.ChatMessage, _ llm.GenerationParams, _ []llm.ToolDef) (*llm.ChatWithToolsResult, error) {
	snapshot := make([]llm.ChatMessage, len(messages))
	copy(snapshot, messages)
	c.captured = append(c.captured, snapshot)
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	if c.calls <= len(c.results) {
		return c.results[c.calls-1], nil
	}
	return c.results[len(c.results)-1], nil
}

func toolUseResult(ids ...string) *llm.ChatWithToolsResult {
	result := &llm.ChatWithToolsResult{StopReason: llm.StopReasonToolUse}
	for _, id := range ids {
		result.ToolCalls = append(result.ToolCalls, llm.ToolCall{
			ID:    id,
			Name:  "get_stats",
			Input: json.RawMessage(`{"metric":"leads"}`),
		})
	}
	return result
}

func testIdentity() *crm.Identity {
	return &crm.Identity{OrgID: "org-1", UserID: "user-1", UserName: "Demo User", OrgName: "Aleutian Demo Co"}
}

func TestRespond_DegradedMode(t *testing.T) {
	agent := New(nil, nil)
	if !agent.Degraded() {
		t.Fatal("agent with nil client should report degraded")
	}

	reply := agent.Respond(context.Background(), testIdentity(), "show me deals", nil)
	if reply != FallbackReply("show me deals") {
		t.Errorf("reply = %q, want the deterministic fallback sentence", reply)
	}
	if !strings.Contains(reply, "/deals") {
		t.Errorf("reply = %q, want the deals navigation link", reply)
	}
}

func TestRespond_DirectTextAnswer(t *testing.T) {
	client := &scriptedClient{results: []*llm.ChatWithToolsResult{
		{Content: "You have 3 leads.", StopReason: "end_turn"},
	}}
	executor, _, identity := newTestExecutor(t)
	agent := New(client, executor)

	reply := agent.Respond(context.Background(), identity, "how many leads?", nil)
	if reply != "You have 3 leads." {
		t.Errorf("reply = %q, want the model text", reply)
	}
	if client.calls != 1 {
		t.Errorf("model calls = %d, want 1", client.calls)
	}

	first := client.captured[0]
	if first[0].Role != "system" || !strings.Contains(first[0].Content, "Demo User") {
		t.Errorf("first message = %+v, want system prompt embedding the user name", first[0])
	}
	if last := first[len(first)-1]; last.Role != "user" || last.Content != "how many leads?" {
		t.Errorf("last seeded message = %+v, want the new user message", last)
	}
}

func TestRespond_ToolRoundFeedsResultsBack(t *testing.T) {
	client := &scriptedClient{results: []*llm.ChatWithToolsResult{
		{
			StopReason: llm.StopReasonToolUse,
			ToolCalls: []llm.ToolCall{{
				ID:    "toolu_hot",
				Name:  "search_leads",
				Input: json.RawMessage(`{"rating":"Hot"}`),
			}},
		},
		{Content: "Jane Doe at Acme Corp is your one hot lead.", StopReason: "end_turn"},
	}}
	executor, _, identity := newTestExecutor(t)
	agent := New(client, executor)

	reply := agent.Respond(context.Background(), identity, "Hot leads please", nil)
	if reply != "Jane Doe at Acme Corp is your one hot lead." {
		t.Errorf("reply = %q, want the model's final text", reply)
	}
	if client.calls != 2 {
		t.Fatalf("model calls = %d, want 2 (initial + one after the tool round)", client.calls)
	}

	second := client.captured[1]
	last := second[len(second)-1]
	if last.Role != "tool" || last.ToolCallID != "toolu_hot" {
		t.Fatalf("last message before second call = %+v, want the tool result", last)
	}
	if !strings.Contains(last.Content, "Jane Doe") {
		t.Errorf("tool result = %q, want the executor's bullet row", last.Content)
	}
	if prev := second[len(second)-2]; prev.Role != "assistant" || len(prev.ToolCalls) != 1 {
		t.Errorf("penultimate message = %+v, want the assistant tool-use turn", prev)
	}
}

func TestRespond_EveryToolUseGetsOneResult(t *testing.T) {
	client := &scriptedClient{results: []*llm.ChatWithToolsResult{
		toolUseResult("toolu_a", "toolu_b", "toolu_c"),
		{Content: "done", StopReason: "end_turn"},
	}}
	executor, _, identity := newTestExecutor(t)
	agent := New(client, executor)

	agent.Respond(context.Background(), identity, "stats please", nil)

	second := client.captured[1]
	var resultIDs []string
	for _, m := range second {
		if m.Role == "tool" {
			resultIDs = append(resultIDs, m.ToolCallID)
		}
	}
	want := []string{"toolu_a", "toolu_b", "toolu_c"}
	if len(resultIDs) != len(want) {
		t.Fatalf("tool results = %d, want %d", len(resultIDs), len(want))
	}
	for i := range want {
		if resultIDs[i] != want[i] {
			t.Errorf("result order[%d] = %q, want %q (must match issue order)", i, resultIDs[i], want[i])
		}
	}
}

func TestRespond_BudgetCapsModelCalls(t *testing.T) {
	// Model never stops asking for tools; loop must cut it off.
	client := &scriptedClient{results: []*llm.ChatWithToolsResult{
		toolUseResult("toolu_loop"),
	}}
	executor, _, identity := newTestExecutor(t)
	agent := New(client, executor)

	reply := agent.Respond(context.Background(), identity, "stats please", nil)
	if client.calls != 6 {
		t.Errorf("model calls = %d, want exactly 6 (1 initial + 5 tool rounds)", client.calls)
	}
	if reply != noAnswerReply {
		t.Errorf("reply = %q, want the no-answer sentence when the final turn has no text", reply)
	}
}

func TestRespond_BudgetExhaustedKeepsFinalText(t *testing.T) {
	results := make([]*llm.ChatWithToolsResult, 0, 6)
	for i := 0; i < 5; i++ {
		results = append(results, toolUseResult(fmt.Sprintf("toolu_%d", i)))
	}
	results = append(results, &llm.ChatWithToolsResult{
		Content:    "Partial answer so far.",
		StopReason: llm.StopReasonToolUse,
		ToolCalls:  toolUseResult("toolu_more").ToolCalls,
	})
	client := &scriptedClient{results: results}
	executor, _, identity := newTestExecutor(t)
	agent := New(client, executor)

	reply := agent.Respond(context.Background(), identity, "stats please", nil)
	if reply != "Partial answer so far." {
		t.Errorf("reply = %q, want the text from the final over-budget turn", reply)
	}
}

func TestRespond_TransportErrorApologizes(t *testing.T) {
	client := &scriptedClient{err: errors.New("connection refused")}
	executor, _, identity := newTestExecutor(t)
	agent := New(client, executor)

	reply := agent.Respond(context.Background(), identity, "hello", nil)
	if reply != apologyReply {
		t.Errorf("reply = %q, want the apology", reply)
	}
	if client.calls != 1 {
		t.Errorf("model calls = %d, want 1 (no retry)", client.calls)
	}
}

func TestRespond_HistoryBounded(t *testing.T) {
	client := &scriptedClient{results: []*llm.ChatWithToolsResult{
		{Content: "ok", StopReason: "end_turn"},
	}}
	executor, _, identity := newTestExecutor(t)
	agent := New(client, executor)

	history := make([]llm.ChatMessage, 0, 25)
	for i := 0; i < 25; i++ {
		history = append(history, llm.ChatMessage{Role: "user", Content: fmt.Sprintf("turn %d", i)})
	}

	agent.Respond(context.Background(), identity, "latest", history)

	// system + last 10 history turns + new user message
	seeded := client.captured[0]
	if len(seeded) != 12 {
		t.Fatalf("seeded messages = %d, want 12", len(seeded))
	}
	if seeded[1].Content != "turn 15" {
		t.Errorf("oldest kept turn = %q, want %q", seeded[1].Content, "turn 15")
	}
}

func TestBoundHistory(t *testing.T) {
	short := []llm.ChatMessage{{Role: "user", Content: "only"}}
	if got := boundHistory(short, 10); len(got) != 1 {
		t.Errorf("boundHistory(short) = %d entries, want 1", len(got))
	}
	if got := boundHistory(nil, 10); len(got) != 0 {
		t.Errorf("boundHistory(nil) = %d entries, want 0", len(got))
	}
}

func TestBoundHistory_DropsOrphanedToolResults(t *testing.T) {
	// The cut lands between the assistant tool_use turn and its
	// results; the surviving tool messages have no matching tool_use.
	history := []llm.ChatMessage{
		{Role: "assistant", ToolCalls: []llm.ToolCall{{ID: "toolu_x", Name: "get_stats"}}},
		{Role: "tool", ToolCallID: "toolu_x", Content: "You have 3 leads."},
	}
	for i := 0; i < 9; i++ {
		history = append(history, llm.ChatMessage{Role: "user", Content: fmt.Sprintf("turn %d", i)})
	}

	got := boundHistory(history, 10)
	if len(got) != 9 {
		t.Fatalf("kept messages = %d, want 9 (orphaned tool result dropped)", len(got))
	}
	if got[0].Role == "tool" {
		t.Errorf("first kept message = %+v, want no dangling tool result at the head", got[0])
	}
}

func TestRespond_TruncationNeverSeedsDanglingToolResult(t *testing.T) {
	client := &scriptedClient{results: []*llm.ChatWithToolsResult{
		{Content: "ok", StopReason: "end_turn"},
	}}
	executor, _, identity := newTestExecutor(t)
	agent := New(client, executor)

	history := []llm.ChatMessage{
		{Role: "assistant", ToolCalls: []llm.ToolCall{{ID: "toolu_x", Name: "get_stats"}}},
		{Role: "tool", ToolCallID: "toolu_x", Content: "You have 3 leads."},
	}
	for i := 0; i < 9; i++ {
		history = append(history, llm.ChatMessage{Role: "user", Content: fmt.Sprintf("turn %d", i)})
	}

	agent.Respond(context.Background(), identity, "latest", history)

	seeded := client.captured[0]
	for i, m := range seeded {
		if m.Role != "tool" {
			continue
		}
		if i == 0 || !(seeded[i-1].Role == "tool" || (seeded[i-1].Role == "assistant" && len(seeded[i-1].ToolCalls) > 0)) {
			t.Errorf("seeded[%d] is a tool result with no preceding tool_use turn", i)
		}
	}
	// system + 9 surviving history turns + new user message
	if len(seeded) != 11 {
		t.Errorf("seeded messages = %d, want 11", len(seeded))
	}
}
