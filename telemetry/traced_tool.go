// Copyright (c) Microsoft. All rights reserved.

package telemetry

import (
	"context"
	"encoding/json"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/jochenvw/agent-service-go/agents"
)

// tracedTool wraps an [agents.Tool] with a span per invocation.
type tracedTool struct {
	inner  agents.Tool
	params map[string]bool
}

// TraceTool wraps a tool so every invocation runs inside a span carrying
// the function name and payload sizes. Argument keys the tool's schema
// does not declare are dropped before dispatch; models occasionally pass
// arguments from one tool's schema to another when sequencing calls.
func TraceTool(tool agents.Tool) agents.Tool {
	return &tracedTool{
		inner:  tool,
		params: agents.SchemaProperties(tool.Parameters()),
	}
}

// TraceTools wraps every tool in the slice. Convenience for building a
// fully traced [agents.ToolSet].
func TraceTools(tools ...agents.Tool) []agents.Tool {
	wrapped := make([]agents.Tool, len(tools))
	for i, t := range tools {
		wrapped[i] = TraceTool(t)
	}
	return wrapped
}

func (t *tracedTool) Name() string                { return t.inner.Name() }
func (t *tracedTool) Description() string         { return t.inner.Description() }
func (t *tracedTool) Parameters() json.RawMessage { return t.inner.Parameters() }

func (t *tracedTool) Invoke(ctx context.Context, args json.RawMessage) (any, error) {
	ctx, span := Tracer("tools").Start(ctx, "execute_tool "+t.inner.Name())
	defer span.End()

	args = t.filterArgs(ctx, args)

	span.SetAttributes(
		attribute.String(AttrToolName, t.inner.Name()),
		attribute.Int(AttrToolArgsBytes, len(args)),
	)

	result, err := t.inner.Invoke(ctx, args)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if b, marshalErr := json.Marshal(result); marshalErr == nil {
		span.SetAttributes(attribute.Int(AttrToolResultSize, len(b)))
	}
	return result, nil
}

// filterArgs re-encodes the argument object keeping only keys declared
// in the tool's parameter schema. Arguments that are not a JSON object,
// or tools without a declared schema, pass through unchanged.
func (t *tracedTool) filterArgs(ctx context.Context, args json.RawMessage) json.RawMessage {
	if len(t.params) == 0 || len(args) == 0 {
		return args
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(args, &obj); err != nil {
		return args
	}

	dropped := 0
	for key := range obj {
		if !t.params[key] {
			delete(obj, key)
			dropped++
		}
	}
	if dropped == 0 {
		return args
	}

	slog.DebugContext(ctx, "dropped undeclared tool arguments",
		"tool", t.inner.Name(),
		"dropped", dropped,
	)
	filtered, err := json.Marshal(obj)
	if err != nil {
		return args
	}
	return filtered
}
