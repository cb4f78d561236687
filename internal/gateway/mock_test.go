// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gateway provides inference backends for the chat orchestrator.
package gateway

import (
	"context"
	"math/rand"
	"strings"
	"testing"
)

func mockWithSeed(seed int64) *MockGateway {
	return NewMockGatewayWithRand(rand.New(rand.NewSource(seed)))
}

func userTurn(content string) []ChatMessage {
	return []ChatMessage{{Role: "user", Content: content}}
}

// =============================================================================
// CLASSIFICATION TESTS
// =============================================================================

func TestMockGateway_KeywordCategories(t *testing.T) {
	tests := []struct {
		name     string
		prompt   string
		contains string
	}{
		{"greeting", "hello there", "locally"},
		{"energy", "how much energy does this use?", "energy"},
		{"models", "tell me about bitnet", "1.58"},
		{"case insensitive", "WHAT IS THE ENERGY COST", "energy"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := mockWithSeed(1)
			result, err := g.Infer(context.Background(), userTurn(tc.prompt), "bitnet-2b")
			if err != nil {
				t.Fatalf("Infer() error: %v", err)
			}
			if !strings.Contains(strings.ToLower(result.Text), tc.contains) {
				t.Errorf("response %q does not mention %q", result.Text, tc.contains)
			}
		})
	}
}

func TestMockGateway_FallbackCategory(t *testing.T) {
	g := mockWithSeed(1)
	result, err := g.Infer(context.Background(), userTurn("zxqv unmatched gibberish"), "bitnet-2b")
	if err != nil {
		t.Fatalf("Infer() error: %v", err)
	}
	if result.Text == "" {
		t.Error("fallback category should still produce a response")
	}
}

// =============================================================================
// DETERMINISM TESTS
// =============================================================================

func TestMockGateway_DeterministicUnderSeed(t *testing.T) {
	a, _ := mockWithSeed(42).Infer(context.Background(), userTurn("tell me about energy"), "m")
	b, _ := mockWithSeed(42).Infer(context.Background(), userTurn("tell me about energy"), "m")

	if a.Text != b.Text {
		t.Errorf("same seed, same prompt produced different text:\n%q\n%q", a.Text, b.Text)
	}
	if a.TokensPerSecond != b.TokensPerSecond {
		t.Errorf("same seed produced different throughput: %v vs %v", a.TokensPerSecond, b.TokensPerSecond)
	}
}

// =============================================================================
// RESULT SHAPE TESTS
// =============================================================================

func TestMockGateway_ResultShape(t *testing.T) {
	g := mockWithSeed(7)
	result, err := g.Infer(context.Background(), userTurn("hello"), "bitnet-large")
	if err != nil {
		t.Fatalf("Infer() error: %v", err)
	}

	if !result.Simulated {
		t.Error("mock results must be flagged simulated")
	}
	if result.Backend != "mock" {
		t.Errorf("Backend = %q, want mock", result.Backend)
	}
	if result.Model != "bitnet-large" {
		t.Errorf("Model = %q, want the requested model", result.Model)
	}

	wantTokens := (len(result.Text) + 3) / 4
	if result.TokensGenerated != wantTokens {
		t.Errorf("TokensGenerated = %d, want %d (chars/4)", result.TokensGenerated, wantTokens)
	}
	if result.TokensPerSecond < 25 || result.TokensPerSecond > 60 {
		t.Errorf("TokensPerSecond = %v, want within [25, 60]", result.TokensPerSecond)
	}
	if result.EnergyMj <= 0 {
		t.Error("EnergyMj should be positive")
	}
}

func TestMockGateway_AlwaysLive(t *testing.T) {
	if !mockWithSeed(1).Live(context.Background()) {
		t.Error("mock gateway must always be live")
	}
}
