// Copyright (c) Microsoft. All rights reserved.

package projects

import (
	"fmt"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"

	"github.com/jochenvw/agent-service-go/agents"
)

// Client talks to a hosted AI agent service project. Use [NewClient] or
// [NewClientFromConnectionString] to create one.
type Client struct {
	tp           transport
	pollInterval time.Duration
}

// NewClient creates a project [Client] for the given endpoint. The
// credential is used to acquire Entra ID bearer tokens per request.
func NewClient(endpoint string, cred azcore.TokenCredential, opts ...Option) *Client {
	cfg := &clientConfig{}
	for _, o := range opts {
		o(cfg)
	}
	interval := cfg.pollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &Client{
		tp:           newHTTPTransport(strings.TrimSuffix(endpoint, "/"), cred, cfg),
		pollInterval: interval,
	}
}

// NewClientFromConnectionString creates a [Client] from a four-part
// project connection string of the form
//
//	<host>;<subscription-id>;<resource-group>;<project-name>
//
// as handed out by the project portal.
func NewClientFromConnectionString(connStr string, cred azcore.TokenCredential, opts ...Option) (*Client, error) {
	endpoint, err := endpointFromConnectionString(connStr)
	if err != nil {
		return nil, err
	}
	return NewClient(endpoint, cred, opts...), nil
}

func endpointFromConnectionString(connStr string) (string, error) {
	parts := strings.Split(strings.TrimSpace(connStr), ";")
	if len(parts) != 4 {
		return "", fmt.Errorf("%w: want 4 semicolon-separated parts, got %d", agents.ErrConnectionString, len(parts))
	}
	for i, p := range parts {
		if strings.TrimSpace(p) == "" {
			return "", fmt.Errorf("%w: part %d is empty", agents.ErrConnectionString, i+1)
		}
	}
	host, sub, rg, project := parts[0], parts[1], parts[2], parts[3]
	return fmt.Sprintf(
		"https://%s/agents/v1.0/subscriptions/%s/resourceGroups/%s/providers/Microsoft.MachineLearningServices/workspaces/%s",
		host, sub, rg, project,
	), nil
}

// newWithTransport creates a Client with a custom transport (for testing).
func newWithTransport(tp transport, pollInterval time.Duration) *Client {
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}
	return &Client{tp: tp, pollInterval: pollInterval}
}
