// Copyright (c) Microsoft. All rights reserved.

package agents

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is.
var (
	// ErrService is the base error for backend service failures.
	ErrService = errors.New("service error")

	// ErrAuth indicates an authentication or authorization failure.
	ErrAuth = fmt.Errorf("%w: authentication", ErrService)

	// ErrInvalidRequest indicates the request was malformed or invalid.
	ErrInvalidRequest = fmt.Errorf("%w: invalid request", ErrService)

	// ErrNotFound indicates the referenced agent, thread, or run does not exist.
	ErrNotFound = fmt.Errorf("%w: not found", ErrService)

	// ErrInvalidResponse indicates the service returned an unexpected response.
	ErrInvalidResponse = fmt.Errorf("%w: invalid response", ErrService)

	// ErrRun is the base error for run lifecycle failures.
	ErrRun = errors.New("run error")

	// ErrRunFailed indicates a run finished in the failed state.
	ErrRunFailed = fmt.Errorf("%w: run failed", ErrRun)

	// ErrRunTimeout indicates run processing exceeded the iteration cap.
	ErrRunTimeout = fmt.Errorf("%w: processing limit reached", ErrRun)

	// ErrTool is the base error for tool-related failures.
	ErrTool = errors.New("tool error")

	// ErrToolExecution indicates a failure during local tool invocation.
	ErrToolExecution = fmt.Errorf("%w: execution", ErrTool)

	// ErrToolUnknown indicates the service requested a tool that is not registered.
	ErrToolUnknown = fmt.Errorf("%w: unknown tool", ErrTool)

	// ErrConnectionString indicates a malformed project connection string.
	ErrConnectionString = errors.New("invalid connection string")
)

// ServiceError provides rich context for backend service failures.
// Use errors.As to extract it from a wrapped error chain.
type ServiceError struct {
	StatusCode int
	Message    string
	Code       string
	Err        error
}

func (e *ServiceError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("service error %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("service error %d: %s", e.StatusCode, e.Message)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// ToolError provides context for tool invocation failures.
type ToolError struct {
	ToolName string
	Message  string
	Err      error
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("tool %q: %s", e.ToolName, e.Message)
}

func (e *ToolError) Unwrap() error { return e.Err }

// RunError carries the terminal state of a run that did not complete.
type RunError struct {
	RunID  string
	Status string
	Code   string
	Detail string
}

func (e *RunError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("run %s ended %s (%s): %s", e.RunID, e.Status, e.Code, e.Detail)
	}
	return fmt.Sprintf("run %s ended %s", e.RunID, e.Status)
}

func (e *RunError) Unwrap() error { return ErrRunFailed }
