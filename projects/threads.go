// Copyright (c) Microsoft. All rights reserved.

package projects

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jochenvw/agent-service-go/agents"
)

// CreateThread creates a new server-side conversation thread.
func (c *Client) CreateThread(ctx context.Context) (*Thread, error) {
	resp, err := c.tp.do(ctx, "POST", "/threads", struct{}{})
	if err != nil {
		return nil, err
	}

	var thread Thread
	if err := decode(resp, &thread); err != nil {
		return nil, err
	}
	slog.DebugContext(ctx, "thread created", "thread_id", thread.ID)
	return &thread, nil
}

// GetThread retrieves a thread by ID.
func (c *Client) GetThread(ctx context.Context, threadID string) (*Thread, error) {
	resp, err := c.tp.do(ctx, "GET", "/threads/"+threadID, nil)
	if err != nil {
		return nil, err
	}

	var thread Thread
	if err := decode(resp, &thread); err != nil {
		return nil, err
	}
	return &thread, nil
}

// DeleteThread removes a thread and its server-side message history.
func (c *Client) DeleteThread(ctx context.Context, threadID string) error {
	resp, err := c.tp.do(ctx, "DELETE", "/threads/"+threadID, nil)
	if err != nil {
		return err
	}

	var result deleted
	if err := decode(resp, &result); err != nil {
		return err
	}
	if !result.Deleted {
		return fmt.Errorf("%w: thread %s not deleted", agents.ErrService, threadID)
	}
	slog.DebugContext(ctx, "thread deleted", "thread_id", threadID)
	return nil
}
