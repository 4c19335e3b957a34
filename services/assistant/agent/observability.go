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
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const agentTracerName = "crm.agent"

const (
	statusOK      = "ok"
	statusError   = "error"
	statusUnknown = "unknown_tool"
)

var (
	toolExecutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "crm",
			Subsystem: "agent",
			Name:      "tool_executions_total",
			Help:      "Tool executions by tool name and outcome.",
		},
		[]string{"tool", "status"},
	)

	toolExecutionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "crm",
			Subsystem: "agent",
			Name:      "tool_execution_duration_seconds",
			Help:      "Tool execution latency by tool name.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"tool"},
	)

	toolRoundsPerExchange = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "crm",
			Subsystem: "agent",
			Name:      "tool_rounds_per_exchange",
			Help:      "Tool rounds used before a final reply.",
			Buckets:   []float64{0, 1, 2, 3, 4, 5},
		},
	)

	exchangeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "crm",
			Subsystem: "agent",
			Name:      "exchange_duration_seconds",
			Help:      "End-to-end latency of one model-backed exchange.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	fallbackRepliesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "crm",
			Subsystem: "agent",
			Name:      "fallback_replies_total",
			Help:      "Replies answered by the keyword fallback instead of the model.",
		},
	)
)

func recordToolMetrics(tool string, duration time.Duration, status string) {
	toolExecutionsTotal.WithLabelValues(tool, status).Inc()
	toolExecutionDuration.WithLabelValues(tool).Observe(duration.Seconds())
}

func recordExchange(rounds int, duration time.Duration) {
	toolRoundsPerExchange.Observe(float64(rounds))
	exchangeDuration.Observe(duration.Seconds())
}

func recordFallbackReply() {
	fallbackRepliesTotal.Inc()
}
