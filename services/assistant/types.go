// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package assistant exposes the conversational assistant over HTTP.
// It owns request/response shapes, identity and rate-limit middleware,
// and the gin handlers that drive the agent.
package assistant

import "encoding/json"

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Message string           `json:"message" binding:"required"`
	History []HistoryMessage `json:"history"`
}

// HistoryMessage is one caller-supplied prior turn. Content is either
// a plain string or an array of content blocks, matching what the
// model API emitted in earlier turns.
type HistoryMessage struct {
	Role    string          `json:"role"`
	Content json.RawMessage `json:"content"`
}

// ChatResponse is the body of a successful POST /chat.
type ChatResponse struct {
	Reply string `json:"reply"`
}

// ErrorResponse is the uniform error body for non-200 responses.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HealthResponse is the body of GET /health and GET /ready.
type HealthResponse struct {
	Status string `json:"status"`
}
