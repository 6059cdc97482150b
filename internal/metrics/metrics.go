// Package metrics exposes Prometheus instrumentation for the assistant.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TurnsTotal counts conversation turns by outcome: text, tool_result,
	// unknown_tool, tool_error, provider_error, empty_response.
	TurnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zen_conversation_turns_total",
			Help: "Total number of conversation turns by outcome",
		},
		[]string{"outcome"},
	)

	// ToolExecutions counts tool invocations by tool name and status.
	ToolExecutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zen_tool_executions_total",
			Help: "Total number of tool executions by tool and status",
		},
		[]string{"tool", "status"},
	)

	// ProviderLatency observes provider round-trip latency in seconds.
	ProviderLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "zen_provider_latency_seconds",
			Help: "AI provider round-trip latency in seconds",
		},
		[]string{"provider"},
	)

	// HistoryLength tracks the current conversation history length.
	HistoryLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "zen_history_length",
			Help: "Current number of messages in conversation history",
		},
	)

	// WakeWordDetections counts wake-word activations.
	WakeWordDetections = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "zen_wake_word_detections_total",
			Help: "Total number of wake word detections",
		},
	)
)
