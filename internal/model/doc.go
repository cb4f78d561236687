// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
//
// This package defines the core domain types used throughout the application
// for representing chat conversations, messages, generation statistics, and
// the built-in BitNet model catalog.
//
// # Key Types
//
//   - Conversation: Container for a chat session with messages and metadata
//   - Message: Single message with role, content, timestamp, and inference metadata
//   - GenerationStats: Timing, token, and energy figures for one generation
//   - ModelInfo: Catalog entry for a model (size, quantization, description)
//   - Role: Message role enumeration (user, assistant, system)
//
// # Usage
//
// Create a new conversation:
//
//	conv := model.NewConversation()
//	conv.AddUserMessage("Explain 1.58-bit quantization")
//
// Work with model information:
//
//	info := model.GetModelInfo("bitnet-2b")
//	fmt.Printf("Model: %s (%s, %s)\n", info.Name, info.ParamString(), info.SizeString())
package model
