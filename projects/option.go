// Copyright (c) Microsoft. All rights reserved.

package projects

import (
	"net/http"
	"time"
)

const defaultAPIVersion = "2024-12-01-preview"

// defaultPollInterval is the delay between run status checks in
// [Client.CreateAndProcessRun].
const defaultPollInterval = time.Second

// clientConfig holds resolved configuration for the project client.
type clientConfig struct {
	httpClient   *http.Client
	apiVersion   string
	headers      map[string]string
	pollInterval time.Duration
}

// Option configures a project [Client].
type Option func(*clientConfig)

// WithHTTPClient provides a custom http.Client for requests.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) { c.httpClient = client }
}

// WithAPIVersion overrides the service api-version query parameter.
func WithAPIVersion(version string) Option {
	return func(c *clientConfig) { c.apiVersion = version }
}

// WithHeaders adds custom headers to every request.
func WithHeaders(headers map[string]string) Option {
	return func(c *clientConfig) { c.headers = headers }
}

// WithPollInterval sets the delay between run status polls.
func WithPollInterval(d time.Duration) Option {
	return func(c *clientConfig) { c.pollInterval = d }
}
