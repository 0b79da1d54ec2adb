// Copyright (c) Microsoft. All rights reserved.

package agents

import (
	"context"
	"testing"
)

func TestInMemoryStore(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	msgs, err := store.ListMessages(ctx)
	if err != nil {
		t.Fatalf("ListMessages() error: %v", err)
	}
	if len(msgs) != 0 {
		t.Errorf("new store has %d messages, want 0", len(msgs))
	}

	err = store.AddMessages(ctx, []Message{
		NewUserMessage("hello"),
		NewAssistantMessage("hi"),
	})
	if err != nil {
		t.Fatalf("AddMessages() error: %v", err)
	}

	if store.Count() != 2 {
		t.Errorf("Count() = %d, want 2", store.Count())
	}

	msgs, err = store.ListMessages(ctx)
	if err != nil {
		t.Fatalf("ListMessages() error: %v", err)
	}
	if len(msgs) != 2 || msgs[0].Text() != "hello" || msgs[1].Text() != "hi" {
		t.Errorf("msgs = %+v", msgs)
	}

	// The returned slice is a copy.
	msgs[0] = NewUserMessage("mutated")
	again, _ := store.ListMessages(ctx)
	if again[0].Text() != "hello" {
		t.Error("ListMessages() must return a copy")
	}
}
