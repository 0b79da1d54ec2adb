// Copyright (c) Microsoft. All rights reserved.

package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Span attribute keys stamped by the session processor and tool wrapper.
const (
	AttrSessionID      = "trace_sample.sessionid"
	AttrMessageContext = "trace_sample.message.context"
	AttrToolName       = "gen_ai.tool.function_name"
	AttrToolArgsBytes  = "gen_ai.tool.arguments_length"
	AttrToolResultSize = "gen_ai.tool.response_length"
)

// spanNameCreateMessage is the span emitted when a message is appended
// to a thread; it receives an extra message-context attribute.
const spanNameCreateMessage = "create_message"

// sessionSpanProcessor stamps a session identifier on every span at
// start, and a message-context marker on create_message spans.
type sessionSpanProcessor struct {
	sessionID      string
	messageContext string
}

// NewSessionSpanProcessor creates a span processor that attaches the
// given session ID to every span.
func NewSessionSpanProcessor(sessionID string) sdktrace.SpanProcessor {
	return &sessionSpanProcessor{
		sessionID:      sessionID,
		messageContext: "abc",
	}
}

func (p *sessionSpanProcessor) OnStart(_ context.Context, span sdktrace.ReadWriteSpan) {
	if p.sessionID != "" {
		span.SetAttributes(attribute.String(AttrSessionID, p.sessionID))
	}
	if span.Name() == spanNameCreateMessage {
		span.SetAttributes(attribute.String(AttrMessageContext, p.messageContext))
	}
}

func (p *sessionSpanProcessor) OnEnd(sdktrace.ReadOnlySpan) {}

func (p *sessionSpanProcessor) Shutdown(context.Context) error { return nil }

func (p *sessionSpanProcessor) ForceFlush(context.Context) error { return nil }
