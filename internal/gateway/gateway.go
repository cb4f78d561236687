// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gateway provides inference backends for the chat orchestrator.
package gateway

import (
	"context"
)

// =============================================================================
// GATEWAY INTERFACE
// =============================================================================

// Gateway is the inference backend the chat orchestrator talks to.
// Two implementations exist: NodeClient, which speaks HTTP to a local
// inference node, and MockGateway, which synthesizes responses offline.
type Gateway interface {
	// Live reports whether the backend can serve an inference right now.
	Live(ctx context.Context) bool

	// Infer runs one generation over the conversation history and returns
	// the complete response. The call blocks until the backend finishes or
	// ctx is cancelled.
	Infer(ctx context.Context, messages []ChatMessage, model string) (*InferenceResult, error)
}

// =============================================================================
// WIRE TYPES
// =============================================================================

// ChatMessage is one turn of prompt context in the wire format the node's
// OpenAI-compatible endpoint accepts.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// InferenceResult is the outcome of one completed generation.
type InferenceResult struct {
	Text            string
	Model           string
	Backend         string // "node" or "mock"
	TokensGenerated int
	TokensPerSecond float64
	EnergyMj        float64

	// Simulated marks responses synthesized locally. The orchestrator
	// reveals these incrementally instead of recording them at once.
	Simulated bool
}

// NodeStatus describes the node process as reported by GET /v1/status.
type NodeStatus struct {
	Status        string  `json:"status"`
	Model         string  `json:"model,omitempty"`
	Version       string  `json:"version,omitempty"`
	UptimeSeconds float64 `json:"uptime_seconds,omitempty"`
}

// Running reports whether the node considers itself able to serve.
func (s *NodeStatus) Running() bool {
	return s != nil && s.Status == "running"
}

// ModelState describes one model as the node sees it on disk.
type ModelState struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	SizeMB     int    `json:"size_mb"`
	Downloaded bool   `json:"downloaded"`
	Loaded     bool   `json:"loaded"`
}

// EnergyStats is the node's cumulative energy report from GET /v1/energy.
type EnergyStats struct {
	TotalInferences      int64   `json:"total_inferences"`
	TotalTokensGenerated int64   `json:"total_tokens_generated"`
	TotalEnergyKwh       float64 `json:"total_energy_kwh"`
	AvgEnergyPerTokenMj  float64 `json:"avg_energy_per_token_mj"`
	SessionUptimeSeconds float64 `json:"session_uptime_seconds"`
	Savings              Savings `json:"savings"`
}

// Savings compares the node's consumption against a GPU baseline.
type Savings struct {
	VsGpu GpuComparison `json:"vs_gpu"`
}

// GpuComparison holds the derived savings figures.
type GpuComparison struct {
	EnergySavedKwh   float64 `json:"energy_saved_kwh"`
	ReductionPercent float64 `json:"reduction_percent"`
	Co2SavedKg       float64 `json:"co2_saved_kg"`
	CostSavedUsd     float64 `json:"cost_saved_usd"`
}

// =============================================================================
// CHAT COMPLETION WIRE FORMAT
// =============================================================================

// chatRequest is the body for POST /v1/chat/completions.
type chatRequest struct {
	Model    string        `json:"model,omitempty"`
	Messages []ChatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

// chatResponse is the OpenAI-compatible completion envelope.
type chatResponse struct {
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
	Usage   chatUsage    `json:"usage"`
}

type chatChoice struct {
	Message      ChatMessage `json:"message"`
	FinishReason string      `json:"finish_reason,omitempty"`
}

// chatUsage carries the node's per-inference accounting. The node extends
// the standard usage block with throughput and energy figures.
type chatUsage struct {
	PromptTokens     int     `json:"prompt_tokens"`
	CompletionTokens int     `json:"completion_tokens"`
	TotalTokens      int     `json:"total_tokens"`
	TokensPerSecond  float64 `json:"tokens_per_second,omitempty"`
	EnergyMj         float64 `json:"energy_mj,omitempty"`
}

// listModelsResponse is the body of GET /v1/models.
type listModelsResponse struct {
	Models []ModelState `json:"models"`
}

// downloadRequest is the body for POST /v1/models/download.
type downloadRequest struct {
	ModelID string `json:"model_id"`
}

// nodeError is the node's error envelope.
type nodeError struct {
	Error string `json:"error"`
}
