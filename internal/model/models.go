// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

// =============================================================================
// MODEL CATALOG
// =============================================================================

// ModelInfo describes a model available to the node.
type ModelInfo struct {
	ID           string  // Catalog identifier, e.g. "bitnet-2b"
	Name         string  // Display name, e.g. "BitNet b1.58 2B4T"
	Params       float64 // Parameter count in billions
	FileSizeMB   int     // Download size on disk
	Quantization string  // Quantization scheme
	Description  string
	Recommended  bool
}

// DefaultModelID is the model selected when no preference is stored.
const DefaultModelID = "bitnet-2b"

// registry holds the built-in model catalog, keyed by catalog ID.
var registry = map[string]ModelInfo{
	"bitnet-large": {
		ID:           "bitnet-large",
		Name:         "BitNet b1.58 Large",
		Params:       0.7,
		FileSizeMB:   400,
		Quantization: "1.58-bit",
		Description:  "Smallest footprint, fastest responses on modest CPUs",
	},
	"bitnet-2b": {
		ID:           "bitnet-2b",
		Name:         "BitNet b1.58 2B4T",
		Params:       2.4,
		FileSizeMB:   1300,
		Quantization: "1.58-bit",
		Description:  "Balanced quality and speed, the recommended default",
		Recommended:  true,
	},
	"llama3-8b-1.58": {
		ID:           "llama3-8b-1.58",
		Name:         "Llama3 8B 1.58-bit",
		Params:       8.0,
		FileSizeMB:   4200,
		Quantization: "1.58-bit",
		Description:  "Highest quality, needs a capable CPU and more memory",
	},
}

// GetModelInfo returns catalog info for a model ID.
// Unknown IDs get a minimal entry so display code never branches on misses.
func GetModelInfo(id string) ModelInfo {
	if info, ok := registry[id]; ok {
		return info
	}
	return ModelInfo{
		ID:           id,
		Name:         id,
		Quantization: "unknown",
		Description:  "Model not in the built-in catalog",
	}
}

// KnownModel reports whether the ID exists in the built-in catalog.
func KnownModel(id string) bool {
	_, ok := registry[id]
	return ok
}

// AllModels returns the catalog in a stable display order, smallest first.
func AllModels() []ModelInfo {
	ids := []string{"bitnet-large", "bitnet-2b", "llama3-8b-1.58"}
	models := make([]ModelInfo, 0, len(ids))
	for _, id := range ids {
		models = append(models, registry[id])
	}
	return models
}

// ParamString formats the parameter count for display, e.g. "2.4B".
func (m ModelInfo) ParamString() string {
	return formatFloat64(m.Params) + "B"
}

// SizeString formats the download size for display.
func (m ModelInfo) SizeString() string {
	if m.FileSizeMB >= 1000 {
		gb := float64(m.FileSizeMB) / 1000
		return formatFloat64(gb) + " GB"
	}
	return formatInt(m.FileSizeMB) + " MB"
}
