// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command crm starts the Aleutian CRM assistant API server.
//
// The server exposes the conversational assistant over HTTP:
//   - POST /v1/assistant/chat - one conversational exchange
//   - GET  /v1/assistant/tools - the tool catalogue offered to the model
//   - GET  /v1/assistant/health, /v1/assistant/ready - probes
//   - GET  /metrics - Prometheus metrics
//
// Usage:
//
//	go run ./cmd/crm
//	go run ./cmd/crm -port 9090 -db ./data/crm.db
//
// With a model configured:
//
//	ANTHROPIC_API_KEY=sk-ant-... go run ./cmd/crm
//
// Without ANTHROPIC_API_KEY the server still runs; chat requests are
// answered by the deterministic keyword fallback.
//
// Example requests:
//
//	curl http://localhost:8080/v1/assistant/health
//
//	curl -X POST http://localhost:8080/v1/assistant/chat \
//	  -H "Content-Type: application/json" \
//	  -H "X-Organization-ID: org-demo" -H "X-User-ID: user-demo" \
//	  -d '{"message": "how many leads do I have?"}'
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/AleutianAI/AleutianCRM/services/assistant"
	"github.com/AleutianAI/AleutianCRM/services/assistant/agent"
	"github.com/AleutianAI/AleutianCRM/services/crm"
	"github.com/AleutianAI/AleutianCRM/services/llm"
)

func main() {
	port := flag.Int("port", 0, "Port to listen on (overrides config)")
	debug := flag.Bool("debug", false, "Enable debug mode")
	configPath := flag.String("config", "", "Path to YAML config file")
	dbPath := flag.String("db", "", "Path to the SQLite database (overrides config)")
	seed := flag.Bool("seed", false, "Seed demo data for the default org before serving")
	flag.Parse()

	logLevel := slog.LevelInfo
	if *debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	if *debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// W3C TraceContext propagation so trace IDs flow from the gateway
	// through all handlers.
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	cfg, err := assistant.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Server.Addr = fmt.Sprintf(":%d", *port)
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}

	store, err := crm.Open(cfg.Database.Path)
	if err != nil {
		slog.Error("Failed to open CRM store", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if *seed {
		if err := store.Seed(context.Background(), "org-demo", "user-demo"); err != nil {
			slog.Error("Failed to seed demo data", slog.String("error", err.Error()))
			os.Exit(1)
		}
		slog.Info("Seeded demo data", slog.String("org_id", "org-demo"))
	}

	// Missing credentials are not fatal: the agent runs degraded and
	// answers from the keyword fallback.
	var client agent.ModelClient
	anthropic, err := llm.NewAnthropicClient()
	switch {
	case errors.Is(err, llm.ErrNotConfigured):
		slog.Warn("ANTHROPIC_API_KEY not set, assistant running in fallback mode")
	case err != nil:
		slog.Error("Failed to create model client", slog.String("error", err.Error()))
		os.Exit(1)
	default:
		client = anthropic
		slog.Info("Model client configured", slog.String("model", anthropic.Model()))
	}

	a := agent.New(client, agent.NewExecutor(store))
	handlers := assistant.NewHandlers(store, a, cfg.Server.RequestTimeout)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("aleutian-crm"))
	router.Use(assistant.RequestIDMiddleware())
	router.Use(assistant.IdentityMiddleware())
	if *debug {
		router.Use(gin.Logger())
	}

	v1 := router.Group("/v1")
	assistant.RegisterRoutes(v1, handlers, cfg)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		slog.Info("Shutting down Aleutian CRM server")
		if err := store.Close(); err != nil {
			slog.Warn("Failed to close CRM store", slog.String("error", err.Error()))
		}
		os.Exit(0)
	}()

	slog.Info("Starting Aleutian CRM server",
		slog.String("address", cfg.Server.Addr),
		slog.Bool("degraded", a.Degraded()),
	)
	if err := router.Run(cfg.Server.Addr); err != nil {
		slog.Error("Failed to start server", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
