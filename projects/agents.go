// Copyright (c) Microsoft. All rights reserved.

package projects

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jochenvw/agent-service-go/agents"
)

// CreateAgent creates a server-side agent from a model deployment name,
// instructions, and optional tool declarations.
func (c *Client) CreateAgent(ctx context.Context, opts AgentOptions) (*Agent, error) {
	if opts.Model == "" {
		return nil, fmt.Errorf("%w: model is required", agents.ErrInvalidRequest)
	}

	resp, err := c.tp.do(ctx, "POST", "/assistants", opts)
	if err != nil {
		return nil, err
	}

	var agent Agent
	if err := decode(resp, &agent); err != nil {
		return nil, err
	}
	slog.DebugContext(ctx, "agent created", "agent_id", agent.ID, "model", agent.Model, "tool_count", len(agent.Tools))
	return &agent, nil
}

// GetAgent retrieves an agent by ID.
func (c *Client) GetAgent(ctx context.Context, agentID string) (*Agent, error) {
	resp, err := c.tp.do(ctx, "GET", "/assistants/"+agentID, nil)
	if err != nil {
		return nil, err
	}

	var agent Agent
	if err := decode(resp, &agent); err != nil {
		return nil, err
	}
	return &agent, nil
}

// ListAgents returns the agents defined on the project.
func (c *Client) ListAgents(ctx context.Context) ([]Agent, error) {
	resp, err := c.tp.do(ctx, "GET", "/assistants", nil)
	if err != nil {
		return nil, err
	}

	var list struct {
		Data []Agent `json:"data"`
	}
	if err := decode(resp, &list); err != nil {
		return nil, err
	}
	return list.Data, nil
}

// DeleteAgent removes a server-side agent.
func (c *Client) DeleteAgent(ctx context.Context, agentID string) error {
	resp, err := c.tp.do(ctx, "DELETE", "/assistants/"+agentID, nil)
	if err != nil {
		return err
	}

	var result deleted
	if err := decode(resp, &result); err != nil {
		return err
	}
	if !result.Deleted {
		return fmt.Errorf("%w: agent %s not deleted", agents.ErrService, agentID)
	}
	slog.DebugContext(ctx, "agent deleted", "agent_id", agentID)
	return nil
}

// GetConnection resolves a named project connection, such as the search
// connection backing a grounding tool.
func (c *Client) GetConnection(ctx context.Context, name string) (*Connection, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: connection name is required", agents.ErrInvalidRequest)
	}

	resp, err := c.tp.do(ctx, "GET", "/connections/"+name, nil)
	if err != nil {
		return nil, err
	}

	var conn Connection
	if err := decode(resp, &conn); err != nil {
		return nil, err
	}
	return &conn, nil
}
