// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Record is one prompt/completion pair destined for the output dataset.
// It serializes to exactly {"prompt": ..., "completion": ...}.
type Record struct {
	// Prompt is the heading, title or question side of the pair.
	Prompt string `json:"prompt" yaml:"prompt"`

	// Completion is the body text answering the prompt.
	Completion string `json:"completion" yaml:"completion"`
}
