// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gateway provides inference backends for the chat orchestrator.
//
// Two implementations of the Gateway interface exist. NodeClient speaks
// HTTP to a local inference node on 127.0.0.1:3000, covering the node's
// control plane (status, model downloads, energy reporting) as well as
// chat completions. MockGateway synthesizes keyword-matched responses
// offline so the client stays interactive without a node.
//
// # Key Types
//
//   - Gateway: the backend interface the orchestrator depends on
//   - NodeClient: HTTP client for the node's OpenAI-compatible API
//   - MockGateway: offline responder with an injectable random source
//   - InferenceResult: the outcome of one generation, with throughput
//     and energy figures
//
// # Usage
//
// Create a node client and run an inference:
//
//	client := gateway.NewNodeClient()
//	if client.Live(ctx) {
//	    result, err := client.Infer(ctx, messages, "bitnet-2b")
//	    ...
//	}
//
// Error handling follows the sentinel pattern:
//
//	if gateway.IsNotRunning(err) {
//	    // tell the user to start the node
//	}
package gateway
