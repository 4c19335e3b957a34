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
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/AleutianAI/AleutianCRM/services/crm"
	"github.com/AleutianAI/AleutianCRM/services/llm"
)

const (
	// maxToolRounds bounds how many times the loop will execute tools
	// and re-invoke the model. With the initial call that puts a fixed
	// ceiling of maxToolRounds+1 model calls per request.
	maxToolRounds = 5

	// historyLimit caps the caller-supplied prior turns seeded into the
	// conversation.
	historyLimit = 10
)

const (
	apologyReply = "I'm sorry, I'm having trouble responding right now. Please try again in a moment."

	noAnswerReply = "I'm not sure how to help with that. Try asking about your leads, contacts, or deals."
)

// ModelClient is the slice of the model API the loop consumes. It is
// satisfied by *llm.AnthropicClient.
type ModelClient interface {
	ChatWithTools(ctx context.Context, messages []llm.ChatMessage, params llm.GenerationParams, tools []llm.ToolDef) (*llm.ChatWithToolsResult, error)
}

// Agent runs one conversational exchange per call to Respond.
//
// Thread Safety: Agent is safe for concurrent use; each Respond call
// carries its own message state.
type Agent struct {
	client   ModelClient
	executor *Executor
}

// New builds an Agent. A nil client puts the agent in degraded mode:
// every request is answered by the keyword fallback and neither the
// model nor the executor is ever invoked.
func New(client ModelClient, executor *Executor) *Agent {
	return &Agent{client: client, executor: executor}
}

// Degraded reports whether the agent is running without a model.
func (a *Agent) Degraded() bool {
	return a.client == nil
}

// Respond produces a textual reply to one user message.
//
// Description:
//
//	Seeds the conversation with the system prompt, the last few
//	caller-supplied turns, and the new message, then alternates model
//	calls with tool rounds until the model stops asking for tools or
//	the round budget runs out. A model transport error short-circuits
//	to a generic apology with no retry. The reply is always non-empty.
//
// Inputs:
//   - ctx: Request-scoped context, passed to the model and the store.
//   - identity: The caller's resolved organization and user.
//   - message: The new user message. Required.
//   - history: Optional prior turns; only the last 10 are kept.
//
// Outputs:
//   - string: The reply text. Never empty.
func (a *Agent) Respond(ctx context.Context, identity *crm.Identity, message string, history []llm.ChatMessage) string {
	ctx, span := otel.Tracer(agentTracerName).Start(ctx, "agent.respond")
	defer span.End()

	if a.client == nil {
		recordFallbackReply()
		span.SetAttributes(attribute.Bool("agent.fallback", true))
		return FallbackReply(message)
	}

	messages := make([]llm.ChatMessage, 0, len(history)+2)
	messages = append(messages, llm.ChatMessage{Role: "system", Content: SystemPrompt(identity)})
	messages = append(messages, boundHistory(history, historyLimit)...)
	messages = append(messages, llm.ChatMessage{Role: "user", Content: message})

	start := time.Now()
	remaining := maxToolRounds
	rounds := 0

	for {
		result, err := a.client.ChatWithTools(ctx, messages, llm.GenerationParams{}, ToolCatalogue())
		if err != nil {
			slog.Error("model call failed", "error", llm.SafeLogString(err.Error()), "rounds", rounds)
			span.RecordError(err)
			return apologyReply
		}

		if result.StopReason != llm.StopReasonToolUse || len(result.ToolCalls) == 0 || remaining == 0 {
			recordExchange(rounds, time.Since(start))
			span.SetAttributes(attribute.Int("agent.tool_rounds", rounds))
			if result.Content == "" {
				return noAnswerReply
			}
			return result.Content
		}

		remaining--
		rounds++

		messages = append(messages, llm.ChatMessage{
			Role:      "assistant",
			Content:   result.Content,
			ToolCalls: result.ToolCalls,
		})
		results := a.runToolRound(ctx, identity, result.ToolCalls)
		for i, call := range result.ToolCalls {
			messages = append(messages, llm.ChatMessage{
				Role:       "tool",
				ToolCallID: call.ID,
				Content:    results[i],
			})
		}
	}
}

// runToolRound executes every tool call from one model turn and returns
// the results in the same order the model issued the calls. Calls are
// independent, so they run concurrently.
func (a *Agent) runToolRound(ctx context.Context, identity *crm.Identity, calls []llm.ToolCall) []string {
	results := make([]string, len(calls))
	g, ctx := errgroup.WithContext(ctx)
	for i, call := range calls {
		g.Go(func() error {
			results[i] = a.executor.Execute(ctx, identity, call)
			return nil
		})
	}
	// Execute never returns an error; faults become textual results.
	_ = g.Wait()
	return results
}

// boundHistory keeps only the last limit entries of history. A cut can
// land between an assistant tool_use turn and its results, and the
// model API rejects a tool_result whose tool_use is missing, so any
// tool messages orphaned at the head are dropped as well.
func boundHistory(history []llm.ChatMessage, limit int) []llm.ChatMessage {
	if len(history) > limit {
		history = history[len(history)-limit:]
	}
	for len(history) > 0 && history[0].Role == "tool" {
		history = history[1:]
	}
	return history
}
