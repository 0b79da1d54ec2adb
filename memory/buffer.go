// Copyright (c) Microsoft. All rights reserved.

// Package memory provides a short-term conversation buffer that bounds
// how much context accompanies each turn: old turns are periodically
// folded into a summary instead of growing without limit.
package memory

import (
	"context"
	"fmt"
	"strings"
)

// DefaultWindow is the number of turns kept before folding.
const DefaultWindow = 5

// Summarizer produces a single summary turn from a slice of prior turns.
// The default implementation builds a summarization prompt that the
// caller sends to the agent; an LLM-backed summarizer can be plugged in
// instead.
type Summarizer func(ctx context.Context, turns []string) (string, error)

// PromptSummarizer returns the turns folded into a summarization request
// for the agent.
func PromptSummarizer(_ context.Context, turns []string) (string, error) {
	return "Summarize the following conversation: " + strings.Join(turns, " | "), nil
}

// Buffer keeps the most recent conversation turns. When the buffer
// fills its window, all but the newest turn are replaced by a summary,
// and anything beyond the window is evicted oldest-first.
type Buffer struct {
	window    int
	turns     []string
	summarize Summarizer
}

// Option configures a [Buffer].
type Option func(*Buffer)

// WithWindow overrides the buffer window. Values below 2 are rejected
// by [NewBuffer].
func WithWindow(n int) Option {
	return func(b *Buffer) { b.window = n }
}

// WithSummarizer replaces the default [PromptSummarizer].
func WithSummarizer(s Summarizer) Option {
	return func(b *Buffer) { b.summarize = s }
}

// NewBuffer creates a Buffer with the default window and summarizer.
func NewBuffer(opts ...Option) (*Buffer, error) {
	b := &Buffer{
		window:    DefaultWindow,
		summarize: PromptSummarizer,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.window < 2 {
		return nil, fmt.Errorf("buffer window must be at least 2, got %d", b.window)
	}
	return b, nil
}

// Add records a user turn. When the buffer reaches its window, the
// older turns are folded into a single summary turn, which is returned
// so the caller can hand it to the agent; otherwise summary is "".
func (b *Buffer) Add(ctx context.Context, turn string) (summary string, err error) {
	b.turns = append(b.turns, turn)

	if len(b.turns) >= b.window {
		folded := b.turns[len(b.turns)-(b.window-1):]
		summary, err = b.summarize(ctx, folded)
		if err != nil {
			return "", fmt.Errorf("summarize turns: %w", err)
		}
		// The summary stands in for the turns it covers.
		b.turns = append(b.turns[:len(b.turns)-(b.window-1)], summary)
	}

	for len(b.turns) > b.window {
		b.turns = b.turns[1:]
	}
	return summary, nil
}

// Turns returns a copy of the buffered turns, oldest first.
func (b *Buffer) Turns() []string {
	cp := make([]string, len(b.turns))
	copy(cp, b.turns)
	return cp
}

// Len returns the number of buffered turns.
func (b *Buffer) Len() int { return len(b.turns) }
