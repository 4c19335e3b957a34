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
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	headerRequestID = "X-Request-ID"
	headerOrgID     = "X-Organization-ID"
	headerUserID    = "X-User-ID"

	ctxKeyRequestID = "request_id"
	ctxKeyOrgID     = "org_id"
	ctxKeyUserID    = "user_id"
)

// Demo identity used when the gateway does not inject headers, so the
// service stays usable in local single-tenant setups.
const (
	defaultOrgID  = "org-demo"
	defaultUserID = "user-demo"
)

// RequestIDMiddleware ensures every request carries a request ID,
// honoring one supplied by the caller and echoing it on the response.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(headerRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(ctxKeyRequestID, requestID)
		c.Header(headerRequestID, requestID)
		c.Next()
	}
}

// IdentityMiddleware resolves the caller's organization and user
// identifiers from gateway-injected headers. Missing headers fall back
// to the demo identity rather than rejecting the request; access
// control is the gateway's job, not this service's.
func IdentityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		orgID := c.GetHeader(headerOrgID)
		if orgID == "" {
			orgID = defaultOrgID
		}
		userID := c.GetHeader(headerUserID)
		if userID == "" {
			userID = defaultUserID
		}
		c.Set(ctxKeyOrgID, orgID)
		c.Set(ctxKeyUserID, userID)
		c.Next()
	}
}

// RateLimitMiddleware applies a process-wide token bucket to the chat
// endpoint. Model calls are the expensive resource being protected, so
// one shared bucket is enough; per-tenant fairness is out of scope.
func RateLimitMiddleware(rps float64, burst int) gin.HandlerFunc {
	limiter := rate.NewLimiter(rate.Limit(rps), burst)
	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{
				Error: "too many requests, slow down",
				Code:  "RATE_LIMITED",
			})
			return
		}
		c.Next()
	}
}

func getRequestID(c *gin.Context) string {
	if v, ok := c.Get(ctxKeyRequestID); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func getIdentityIDs(c *gin.Context) (orgID, userID string) {
	orgID = c.GetString(ctxKeyOrgID)
	if orgID == "" {
		orgID = defaultOrgID
	}
	userID = c.GetString(ctxKeyUserID)
	if userID == "" {
		userID = defaultUserID
	}
	return orgID, userID
}
