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
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/AleutianCRM/services/assistant/agent"
	"github.com/AleutianAI/AleutianCRM/services/crm"
)

// defaultRequestTimeout bounds one chat exchange when no timeout is
// configured.
const defaultRequestTimeout = 60 * time.Second

// Handlers carries the dependencies for the assistant endpoints.
//
// Thread Safety: Handlers is safe for concurrent use; all fields are
// set once at construction and read-only afterward.
type Handlers struct {
	store          *crm.Store
	agent          *agent.Agent
	requestTimeout time.Duration
}

// NewHandlers builds the handler set. requestTimeout bounds one whole
// chat exchange (all model calls and store queries); zero or negative
// uses the default.
func NewHandlers(store *crm.Store, a *agent.Agent, requestTimeout time.Duration) *Handlers {
	if requestTimeout <= 0 {
		requestTimeout = defaultRequestTimeout
	}
	return &Handlers{store: store, agent: a, requestTimeout: requestTimeout}
}

// HandleChat handles POST /assistant/chat.
//
// Description:
//
//	Binds the chat request, resolves the caller's identity, and runs
//	one assistant exchange under the configured request timeout. A
//	syntactically valid request always gets a 200 with a textual reply:
//	model failures, store failures inside tool execution, identity
//	lookup failures, and a deadline expiry mid-exchange are all
//	absorbed into the reply text rather than surfaced as HTTP errors.
//
// Response:
//
//	200 OK: ChatResponse
//	400 Bad Request: Malformed body or missing message
//
// Thread Safety: This method is safe for concurrent use.
func (h *Handlers) HandleChat(c *gin.Context) {
	logger := slog.With("request_id", getRequestID(c), "handler", "HandleChat")

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "message is required",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	// One deadline covers the whole exchange: identity lookup, every
	// model call, and every store query. Expiry surfaces as a model or
	// store error, which the agent absorbs into the apology reply.
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.requestTimeout)
	defer cancel()

	orgID, userID := getIdentityIDs(c)
	identity, err := h.store.ResolveIdentity(ctx, orgID, userID)
	if err != nil {
		logger.Error("identity resolution failed", "error", err, "org_id", orgID)
		c.JSON(http.StatusOK, ChatResponse{
			Reply: "I'm sorry, I'm having trouble responding right now. Please try again in a moment.",
		})
		return
	}

	logger.Info("chat request", "org_id", identity.OrgID, "history_turns", len(req.History))

	reply := h.agent.Respond(ctx, identity, req.Message, toModelHistory(req.History))
	c.JSON(http.StatusOK, ChatResponse{Reply: reply})
}

// HandleTools handles GET /assistant/tools. It returns the tool
// catalogue the model sees, mainly for debugging integrations.
func (h *Handlers) HandleTools(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tools": agent.ToolCatalogue()})
}

// HandleHealth handles GET /assistant/health.
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// HandleReady handles GET /assistant/ready. Ready means the database
// answers a ping; a degraded agent (no model credentials) is still
// ready, it just answers from the keyword fallback.
func (h *Handlers) HandleReady(c *gin.Context) {
	if err := h.store.Ping(c.Request.Context()); err != nil {
		slog.Error("readiness check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error: "database unavailable",
			Code:  "NOT_READY",
		})
		return
	}
	c.JSON(http.StatusOK, HealthResponse{Status: "ready"})
}
