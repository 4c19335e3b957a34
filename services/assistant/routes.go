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
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all assistant routes with the router group.
//
// Description:
//
//	Registers the /assistant/* endpoints. The router group should
//	already have any service-wide middleware applied; the chat route
//	additionally gets the rate limiter since it is the only endpoint
//	that triggers model calls.
//
// Endpoints:
//
//	POST /assistant/chat - Run one conversational exchange
//	GET  /assistant/tools - List the tool catalogue
//	GET  /assistant/health - Health check
//	GET  /assistant/ready - Readiness check
//
// Example:
//
//	handlers := assistant.NewHandlers(store, agent)
//	v1 := router.Group("/v1")
//	assistant.RegisterRoutes(v1, handlers, cfg)
func RegisterRoutes(rg *gin.RouterGroup, handlers *Handlers, cfg *Config) {
	a := rg.Group("/assistant")
	{
		a.POST("/chat",
			RateLimitMiddleware(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst),
			handlers.HandleChat)

		a.GET("/tools", handlers.HandleTools)

		a.GET("/health", handlers.HandleHealth)
		a.GET("/ready", handlers.HandleReady)
	}
}
