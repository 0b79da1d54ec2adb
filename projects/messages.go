// Copyright (c) Microsoft. All rights reserved.

package projects

import (
	"context"
	"fmt"

	"github.com/jochenvw/agent-service-go/agents"
)

// CreateMessage appends a message to a thread and returns the stored
// message as the service recorded it.
func (c *Client) CreateMessage(ctx context.Context, threadID string, role agents.Role, content string) (*agents.Message, error) {
	if threadID == "" {
		return nil, fmt.Errorf("%w: thread ID is required", agents.ErrInvalidRequest)
	}

	body := struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}{string(role), content}

	resp, err := c.tp.do(ctx, "POST", "/threads/"+threadID+"/messages", body)
	if err != nil {
		return nil, err
	}

	var wire wireMessage
	if err := decode(resp, &wire); err != nil {
		return nil, err
	}
	msg := wire.toMessage()
	return &msg, nil
}

// ListMessages returns the messages of a thread, newest first, in the
// order the service returns them.
func (c *Client) ListMessages(ctx context.Context, threadID string) ([]agents.Message, error) {
	resp, err := c.tp.do(ctx, "GET", "/threads/"+threadID+"/messages", nil)
	if err != nil {
		return nil, err
	}

	var list messageList
	if err := decode(resp, &list); err != nil {
		return nil, err
	}

	msgs := make([]agents.Message, 0, len(list.Data))
	for i := range list.Data {
		msgs = append(msgs, list.Data[i].toMessage())
	}
	return msgs, nil
}
