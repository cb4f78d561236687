// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gateway provides inference backends for the chat orchestrator.
package gateway

import (
	"context"
	"math/rand"
	"strings"
	"sync"

	"golang.org/x/text/unicode/norm"
)

// =============================================================================
// MOCK GATEWAY
// =============================================================================

// MockGateway synthesizes responses offline so the client stays usable
// without a running node. Responses are keyed on keywords in the latest
// user message and flagged Simulated so the orchestrator reveals them
// incrementally.
//
// All randomness flows through the injected source, which makes response
// selection reproducible under a fixed seed.
type MockGateway struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewMockGateway creates a mock gateway with its own time-seeded source.
func NewMockGateway() *MockGateway {
	return NewMockGatewayWithRand(rand.New(rand.NewSource(rand.Int63())))
}

// NewMockGatewayWithRand creates a mock gateway using the given source.
func NewMockGatewayWithRand(rng *rand.Rand) *MockGateway {
	return &MockGateway{rng: rng}
}

// Live always reports true. The mock never has an unavailable backend.
func (g *MockGateway) Live(_ context.Context) bool {
	return true
}

// Infer synthesizes a response for the latest user message.
func (g *MockGateway) Infer(_ context.Context, messages []ChatMessage, model string) (*InferenceResult, error) {
	prompt := latestUserContent(messages)

	g.mu.Lock()
	category := classify(prompt)
	text := category.variants[g.rng.Intn(len(category.variants))]
	// Plausible CPU throughput for a 1.58-bit model.
	tokensPerSec := 25 + g.rng.Float64()*35
	g.mu.Unlock()

	tokens := (len(text) + 3) / 4

	return &InferenceResult{
		Text:            text,
		Model:           model,
		Backend:         "mock",
		TokensGenerated: tokens,
		TokensPerSecond: tokensPerSec,
		EnergyMj:        float64(tokens) * mockEnergyPerTokenMj,
		Simulated:       true,
	}, nil
}

// mockEnergyPerTokenMj approximates BitNet CPU inference cost per token.
const mockEnergyPerTokenMj = 0.3

// latestUserContent returns the content of the most recent user turn.
func latestUserContent(messages []ChatMessage) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == "user" {
			return messages[i].Content
		}
	}
	return ""
}

// =============================================================================
// RESPONSE CORPUS
// =============================================================================

type responseCategory struct {
	keywords []string
	variants []string
}

// classify picks the first category with a keyword present in the prompt.
// Matching is case-insensitive over NFC-normalized text so composed and
// decomposed input behave identically.
func classify(prompt string) responseCategory {
	normalized := strings.ToLower(norm.NFC.String(prompt))
	for _, category := range corpus {
		for _, kw := range category.keywords {
			if strings.Contains(normalized, kw) {
				return category
			}
		}
	}
	return fallback
}

var corpus = []responseCategory{
	{
		keywords: []string{"hello", "hi ", "hey", "greetings", "good morning", "good afternoon", "good evening"},
		variants: []string{
			"Hello! I'm running locally on your CPU using 1.58-bit quantization. No cloud, no GPU, just efficient inference. What can I help you with?",
			"Hey there! This response is being generated entirely on your machine. Ask me anything.",
			"Hi! I'm a locally-hosted model. Your messages never leave this device. How can I help?",
		},
	},
	{
		keywords: []string{"energy", "power", "watt", "efficient", "consumption", "green", "carbon", "co2"},
		variants: []string{
			"Great question about energy. BitNet models use ternary weights (-1, 0, 1), which replaces most multiplications with additions. That cuts inference energy by roughly 80% compared to a GPU serving a full-precision model of similar capability.",
			"Running on CPU with 1.58-bit weights draws only a few watts, where a datacenter GPU draws hundreds. The energy dashboard tracks the difference per token as you chat.",
			"Every token I generate costs a fraction of a millijoule thanks to ternary quantization. Over a long session that adds up to real savings versus GPU inference.",
		},
	},
	{
		keywords: []string{"model", "bitnet", "llama", "quantiz", "weights", "parameter"},
		variants: []string{
			"I'm built on BitNet b1.58, where every weight is constrained to -1, 0, or +1. That's about 1.58 bits of information per weight, hence the name. It makes CPU inference practical for models that would otherwise need a GPU.",
			"The catalog ships three 1.58-bit models: BitNet Large (0.7B) for speed, BitNet 2B4T as the balanced default, and a quantized Llama3 8B for quality. You can switch between downloaded models at any time.",
			"Ternary quantization trades a little accuracy for a huge efficiency win. The 2B4T model holds up surprisingly well against full-precision peers several times its size.",
		},
	},
	{
		keywords: []string{"code", "program", "function", "debug", "compile", "script", "golang", "python", "rust"},
		variants: []string{
			"I can help with code. Paste the snippet or describe the behavior you're seeing and I'll work through it. Note that in demo mode my answers are canned, so connect the node for real assistance.",
			"Happy to look at code. For real analysis you'll want the inference node running; right now I'm generating simulated responses locally.",
		},
	},
	{
		keywords: []string{"help", "what can you do", "how do i", "command"},
		variants: []string{
			"You can chat normally, switch models from the model panel, and watch live energy stats in the dashboard. Slash commands: /new starts a conversation, /model switches models, /energy shows the dashboard.",
			"Ask me anything, or use /help to list commands. If the node is offline I answer in demo mode with simulated responses.",
		},
	},
}

var fallback = responseCategory{
	variants: []string{
		"That's an interesting question. I'm currently answering in demo mode with simulated responses; start the inference node for real generation. In the meantime, ask me about BitNet, energy efficiency, or the model catalog.",
		"I'm generating this response locally in demo mode. For a real answer, make sure the node is running and a model is downloaded. Want to know more about how 1.58-bit inference works?",
		"Good question. Demo mode keeps the interface fully interactive while the node is offline, but my answers here are canned. Try asking about energy savings or the available models.",
	},
}
