// Copyright (c) Microsoft. All rights reserved.

package agents

import (
	"context"
	"encoding/json"
)

// Tool defines a locally callable function that an agent run may invoke
// through the service's tool-calling callback.
type Tool interface {
	// Name returns the function name as declared to the service.
	Name() string

	// Description returns a human-readable description for the model.
	Description() string

	// Parameters returns the JSON Schema describing the function's input.
	Parameters() json.RawMessage

	// Invoke calls the function with the given JSON arguments.
	Invoke(ctx context.Context, args json.RawMessage) (any, error)
}

// FunctionTool is a concrete [Tool] backed by a Go function.
type FunctionTool struct {
	name        string
	description string
	parameters  json.RawMessage
	fn          func(ctx context.Context, args json.RawMessage) (any, error)
}

// NewTool creates a [FunctionTool] with a raw JSON schema and handler.
func NewTool(name, description string, parameters json.RawMessage, fn func(ctx context.Context, args json.RawMessage) (any, error)) *FunctionTool {
	return &FunctionTool{
		name:        name,
		description: description,
		parameters:  parameters,
		fn:          fn,
	}
}

// NewTypedTool creates a [FunctionTool] that automatically generates JSON
// Schema from the Args type parameter and handles JSON deserialization.
//
// The Args type should be a struct with json tags. Use the `jsonschema`
// struct tag for additional schema metadata:
//
//	type WeatherArgs struct {
//	    City string `json:"city" jsonschema:"description=City name,required"`
//	    Unit string `json:"unit" jsonschema:"description=Temperature unit,enum=celsius|fahrenheit"`
//	}
func NewTypedTool[Args any](name, description string, fn func(ctx context.Context, args Args) (any, error)) *FunctionTool {
	schema := GenerateSchema[Args]()

	wrapped := func(ctx context.Context, raw json.RawMessage) (any, error) {
		var args Args
		if err := json.Unmarshal(raw, &args); err != nil {
			return nil, &ToolError{
				ToolName: name,
				Message:  "invalid arguments: " + err.Error(),
				Err:      ErrToolExecution,
			}
		}
		return fn(ctx, args)
	}

	return NewTool(name, description, schema, wrapped)
}

func (t *FunctionTool) Name() string                { return t.name }
func (t *FunctionTool) Description() string         { return t.description }
func (t *FunctionTool) Parameters() json.RawMessage { return t.parameters }

// Invoke calls the tool's backing function.
func (t *FunctionTool) Invoke(ctx context.Context, args json.RawMessage) (any, error) {
	if t.fn == nil {
		return nil, &ToolError{
			ToolName: t.name,
			Message:  "tool has no handler",
			Err:      ErrToolExecution,
		}
	}
	return t.fn(ctx, args)
}

// ToolDefinition is the wire declaration of a tool, attached to an agent
// at creation time.
type ToolDefinition struct {
	Type          string              `json:"type"`
	Function      *FunctionDefinition `json:"function,omitempty"`
	BingGrounding *GroundingTarget    `json:"bing_grounding,omitempty"`
}

// FunctionDefinition declares a locally-invoked function tool.
type FunctionDefinition struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
}

// GroundingTarget declares a service-hosted web search grounding tool
// bound to a named service connection.
type GroundingTarget struct {
	ConnectionIDs []string `json:"connection_ids"`
}

// FunctionToolDefinition builds the wire declaration for a local [Tool].
func FunctionToolDefinition(t Tool) ToolDefinition {
	return ToolDefinition{
		Type: "function",
		Function: &FunctionDefinition{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Parameters(),
		},
	}
}

// NewGroundingTool declares a hosted web search grounding tool. The
// connection ID identifies a search connection configured on the project;
// the service executes the search, no local callback is involved.
func NewGroundingTool(connectionID string) ToolDefinition {
	return ToolDefinition{
		Type:          "bing_grounding",
		BingGrounding: &GroundingTarget{ConnectionIDs: []string{connectionID}},
	}
}
