// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gateway provides inference backends for the chat orchestrator.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the node client.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeNotRunning
	ErrTypeTimeout
	ErrTypeModelNotFound
	ErrTypeConnection
	ErrTypeInvalidResponse
)

// Sentinel errors for easy checking.
var (
	ErrNotRunning    = &ClientError{Type: ErrTypeNotRunning, Message: "node is not running"}
	ErrTimeout       = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}
	ErrModelNotFound = &ClientError{Type: ErrTypeModelNotFound, Message: "model not found"}
)

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the node client.
type ClientConfig struct {
	// BaseURL is the node API base URL (default: http://127.0.0.1:3000)
	// Uses an explicit IPv4 address instead of localhost to avoid IPv6
	// resolution issues on Windows.
	BaseURL string

	// Timeout for control-plane requests (default: 10s)
	Timeout time.Duration

	// InferTimeout for chat completions, which run on CPU and can take a
	// while on larger models (default: 120s)
	InferTimeout time.Duration

	// DefaultModel to use if none specified (default: "bitnet-2b")
	DefaultModel string

	// StatusPollRate caps how often Status hits the wire; bursts beyond
	// it are served from the last snapshot (default: 1/s)
	StatusPollRate rate.Limit
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:        "http://127.0.0.1:3000",
		Timeout:        10 * time.Second,
		InferTimeout:   120 * time.Second,
		DefaultModel:   "bitnet-2b",
		StatusPollRate: rate.Every(time.Second),
	}
}

// =============================================================================
// NODE CLIENT
// =============================================================================

// NodeClient speaks HTTP to a local inference node. It implements Gateway
// and additionally exposes the node's control plane: status, model
// management, and energy reporting.
//
// The NodeClient is thread-safe for concurrent use.
//
// Example:
//
//	client := gateway.NewNodeClient()
//	if !client.Live(ctx) {
//	    log.Println("node not available")
//	}
//	result, err := client.Infer(ctx, messages, "bitnet-2b")
type NodeClient struct {
	config     *ClientConfig
	httpClient *http.Client

	statusLimiter *rate.Limiter

	mu         sync.Mutex
	lastStatus *NodeStatus
	lastErr    error
}

// NewNodeClient creates a node client with default configuration.
func NewNodeClient() *NodeClient {
	return NewNodeClientWithConfig(DefaultConfig())
}

// NewNodeClientWithConfig creates a node client with custom configuration.
func NewNodeClientWithConfig(config *ClientConfig) *NodeClient {
	if config == nil {
		config = DefaultConfig()
	}

	// Fill in defaults for any zero values
	if config.BaseURL == "" {
		config.BaseURL = "http://127.0.0.1:3000"
	}
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}
	if config.InferTimeout == 0 {
		config.InferTimeout = 120 * time.Second
	}
	if config.DefaultModel == "" {
		config.DefaultModel = "bitnet-2b"
	}
	if config.StatusPollRate == 0 {
		config.StatusPollRate = rate.Every(time.Second)
	}

	return &NodeClient{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		statusLimiter: rate.NewLimiter(config.StatusPollRate, 1),
	}
}

// =============================================================================
// STATUS
// =============================================================================

// Status fetches the node's status. Calls beyond the poll rate return the
// most recent snapshot instead of hitting the wire again.
func (c *NodeClient) Status(ctx context.Context) (*NodeStatus, error) {
	if !c.statusLimiter.Allow() {
		c.mu.Lock()
		status, err := c.lastStatus, c.lastErr
		c.mu.Unlock()
		if status != nil || err != nil {
			return status, err
		}
		// No snapshot yet, fall through to the wire.
	}

	status, err := c.fetchStatus(ctx)

	c.mu.Lock()
	c.lastStatus, c.lastErr = status, err
	c.mu.Unlock()

	return status, err
}

func (c *NodeClient) fetchStatus(ctx context.Context) (*NodeStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"/v1/status", nil)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, ErrNotRunning
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &ClientError{
			Type:    ErrTypeConnection,
			Message: "unexpected status from node: " + resp.Status,
		}
	}

	var status NodeStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode status", Cause: err}
	}

	return &status, nil
}

// Live reports whether the node is reachable and running.
func (c *NodeClient) Live(ctx context.Context) bool {
	status, err := c.Status(ctx)
	return err == nil && status.Running()
}

// =============================================================================
// MODEL OPERATIONS
// =============================================================================

// ListModels retrieves download and load state for all catalog models.
func (c *NodeClient) ListModels(ctx context.Context) ([]ModelState, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"/v1/models", nil)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, ErrNotRunning
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &ClientError{
			Type:    ErrTypeInvalidResponse,
			Message: "failed to list models: " + resp.Status,
		}
	}

	var result listModelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}

	return result.Models, nil
}

// DownloadModel asks the node to fetch a model's weights. The call returns
// once the node accepts the job; progress shows up through ListModels.
func (c *NodeClient) DownloadModel(ctx context.Context, modelID string) error {
	body, err := json.Marshal(downloadRequest{ModelID: modelID})
	if err != nil {
		return &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/v1/models/download", bytes.NewReader(body))
	if err != nil {
		return &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrTimeout
		}
		return ErrNotRunning
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrModelNotFound
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		var nodeErr nodeError
		if err := json.NewDecoder(resp.Body).Decode(&nodeErr); err == nil && nodeErr.Error != "" {
			return &ClientError{Type: ErrTypeInvalidResponse, Message: nodeErr.Error}
		}
		return &ClientError{
			Type:    ErrTypeInvalidResponse,
			Message: "download request failed: " + resp.Status,
		}
	}

	return nil
}

// =============================================================================
// ENERGY
// =============================================================================

// Energy fetches the node's cumulative energy report.
func (c *NodeClient) Energy(ctx context.Context) (*EnergyStats, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"/v1/energy", nil)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, ErrNotRunning
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &ClientError{
			Type:    ErrTypeInvalidResponse,
			Message: "energy request failed: " + resp.Status,
		}
	}

	var stats EnergyStats
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}

	return &stats, nil
}

// =============================================================================
// INFERENCE
// =============================================================================

// Infer runs one non-streaming chat completion against the node.
func (c *NodeClient) Infer(ctx context.Context, messages []ChatMessage, model string) (*InferenceResult, error) {
	if model == "" {
		model = c.config.DefaultModel
	}

	body, err := json.Marshal(chatRequest{
		Model:    model,
		Messages: messages,
		Stream:   false,
	})
	if err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
	}

	// Inference runs on CPU and outlives the control-plane timeout.
	inferClient := &http.Client{Timeout: c.config.InferTimeout}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := inferClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, context.Canceled
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, ErrNotRunning
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrModelNotFound
	}

	if resp.StatusCode != http.StatusOK {
		var nodeErr nodeError
		if err := json.NewDecoder(resp.Body).Decode(&nodeErr); err == nil && nodeErr.Error != "" {
			return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: nodeErr.Error}
		}
		return nil, &ClientError{
			Type:    ErrTypeInvalidResponse,
			Message: "chat request failed: " + resp.Status,
		}
	}

	var result chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}

	if len(result.Choices) == 0 {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "empty completion from node"}
	}

	return &InferenceResult{
		Text:            result.Choices[0].Message.Content,
		Model:           result.Model,
		Backend:         "node",
		TokensGenerated: result.Usage.CompletionTokens,
		TokensPerSecond: result.Usage.TokensPerSecond,
		EnergyMj:        result.Usage.EnergyMj,
	}, nil
}

// =============================================================================
// UTILITY METHODS
// =============================================================================

// GetConfig returns the client configuration.
func (c *NodeClient) GetConfig() *ClientConfig {
	return c.config
}

// SetModel updates the default model.
func (c *NodeClient) SetModel(model string) {
	c.config.DefaultModel = model
}

// GetDefaultModel returns the current default model.
func (c *NodeClient) GetDefaultModel() string {
	return c.config.DefaultModel
}

// IsModelNotFound checks if an error is a model not found error.
func IsModelNotFound(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeModelNotFound
	}
	return errors.Is(err, ErrModelNotFound)
}

// IsNotRunning checks if an error indicates the node is not running.
func IsNotRunning(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeNotRunning
	}
	return errors.Is(err, ErrNotRunning)
}

// IsTimeout checks if an error is a timeout error.
func IsTimeout(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeTimeout
	}
	return errors.Is(err, ErrTimeout)
}
