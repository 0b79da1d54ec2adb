// Copyright (c) Microsoft. All rights reserved.

package agents

import (
	"context"
	"encoding/json"
	"fmt"
)

// ToolSet groups the tools declared to an agent: locally invocable
// function tools plus hosted tool declarations executed by the service.
// The zero value is not usable; create one with [NewToolSet].
type ToolSet struct {
	tools  map[string]Tool
	order  []string
	hosted []ToolDefinition
}

// NewToolSet creates an empty ToolSet.
func NewToolSet(tools ...Tool) *ToolSet {
	ts := &ToolSet{tools: make(map[string]Tool)}
	ts.Add(tools...)
	return ts
}

// Add registers local function tools. A tool added twice replaces the
// earlier registration under the same name.
func (ts *ToolSet) Add(tools ...Tool) {
	for _, t := range tools {
		if _, exists := ts.tools[t.Name()]; !exists {
			ts.order = append(ts.order, t.Name())
		}
		ts.tools[t.Name()] = t
	}
}

// AddHosted registers hosted tool declarations (e.g. [NewGroundingTool]).
func (ts *ToolSet) AddHosted(defs ...ToolDefinition) {
	ts.hosted = append(ts.hosted, defs...)
}

// Definitions returns the wire declarations for every registered tool,
// local tools first in registration order, then hosted declarations.
func (ts *ToolSet) Definitions() []ToolDefinition {
	defs := make([]ToolDefinition, 0, len(ts.order)+len(ts.hosted))
	for _, name := range ts.order {
		defs = append(defs, FunctionToolDefinition(ts.tools[name]))
	}
	return append(defs, ts.hosted...)
}

// Get returns the named local tool, or nil if it is not registered.
func (ts *ToolSet) Get(name string) Tool {
	return ts.tools[name]
}

// Len returns the number of local tools in the set.
func (ts *ToolSet) Len() int { return len(ts.tools) }

// Invoke dispatches a service tool call to the named local tool and
// returns its result. Unknown names yield ErrToolUnknown.
func (ts *ToolSet) Invoke(ctx context.Context, name string, args json.RawMessage) (any, error) {
	t := ts.Get(name)
	if t == nil {
		return nil, fmt.Errorf("%w: %q", ErrToolUnknown, name)
	}
	return t.Invoke(ctx, args)
}

// InvokeJSON dispatches a tool call and encodes the result as a JSON
// string, the form the service expects for submitted tool outputs.
// Results that are already strings pass through unchanged.
func (ts *ToolSet) InvokeJSON(ctx context.Context, name string, args json.RawMessage) (string, error) {
	result, err := ts.Invoke(ctx, name, args)
	if err != nil {
		return "", err
	}
	if s, ok := result.(string); ok {
		return s, nil
	}
	b, err := json.Marshal(result)
	if err != nil {
		return "", &ToolError{ToolName: name, Message: "marshal result: " + err.Error(), Err: ErrToolExecution}
	}
	return string(b), nil
}
