// Copyright (c) Microsoft. All rights reserved.

package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/jochenvw/agent-service-go/agents"
)

// installRecorder swaps in a TracerProvider backed by an in-memory span
// recorder and restores the previous provider when the test ends.
func installRecorder(t *testing.T, sessionID string) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(NewSessionSpanProcessor(sessionID)),
		sdktrace.WithSpanProcessor(recorder),
	)
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })
	return recorder
}

func attrValue(span sdktrace.ReadOnlySpan, key string) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestSessionSpanProcessor(t *testing.T) {
	recorder := installRecorder(t, "sess-42")

	tracer := Tracer("test")
	_, span := tracer.Start(context.Background(), "create_message")
	span.End()
	_, other := tracer.Start(context.Background(), "some_other_span")
	other.End()

	spans := recorder.Ended()
	require.Len(t, spans, 2)

	val, ok := attrValue(spans[0], AttrSessionID)
	require.True(t, ok, "session attribute missing")
	assert.Equal(t, "sess-42", val.AsString())

	val, ok = attrValue(spans[0], AttrMessageContext)
	require.True(t, ok, "create_message span should carry the message context")
	assert.Equal(t, "abc", val.AsString())

	_, ok = attrValue(spans[1], AttrMessageContext)
	assert.False(t, ok, "other spans should not carry the message context")

	val, ok = attrValue(spans[1], AttrSessionID)
	require.True(t, ok)
	assert.Equal(t, "sess-42", val.AsString())
}

func TestSessionSpanProcessorEmptySession(t *testing.T) {
	recorder := installRecorder(t, "")

	_, span := Tracer("test").Start(context.Background(), "anything")
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	_, ok := attrValue(spans[0], AttrSessionID)
	assert.False(t, ok, "empty session ID should not be stamped")
}

func TestTraceToolSpan(t *testing.T) {
	recorder := installRecorder(t, "sess-1")

	var received json.RawMessage
	inner := agents.NewTool("fetch_weather", "Fetch the weather.",
		json.RawMessage(`{"type":"object","properties":{"city":{"type":"string"}}}`),
		func(_ context.Context, args json.RawMessage) (any, error) {
			received = args
			return "sunny", nil
		})

	tool := TraceTool(inner)
	result, err := tool.Invoke(context.Background(), json.RawMessage(`{"city":"Oslo","units":"metric"}`))
	require.NoError(t, err)
	assert.Equal(t, "sunny", result)

	// The undeclared "units" key is dropped before dispatch.
	var args map[string]any
	require.NoError(t, json.Unmarshal(received, &args))
	assert.Equal(t, map[string]any{"city": "Oslo"}, args)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "execute_tool fetch_weather", spans[0].Name())

	val, ok := attrValue(spans[0], AttrToolName)
	require.True(t, ok)
	assert.Equal(t, "fetch_weather", val.AsString())

	_, ok = attrValue(spans[0], AttrToolResultSize)
	assert.True(t, ok, "successful invocation should record the result size")
}

func TestTraceToolError(t *testing.T) {
	recorder := installRecorder(t, "sess-1")

	inner := agents.NewTool("flaky", "Always fails.", nil,
		func(_ context.Context, _ json.RawMessage) (any, error) {
			return nil, errors.New("upstream down")
		})

	_, err := TraceTool(inner).Invoke(context.Background(), json.RawMessage(`{}`))
	require.Error(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	require.NotEmpty(t, spans[0].Events(), "error should be recorded as a span event")
}

func TestTraceToolsWrapsAll(t *testing.T) {
	a := agents.NewTool("a", "", nil, nil)
	b := agents.NewTool("b", "", nil, nil)

	wrapped := TraceTools(a, b)
	require.Len(t, wrapped, 2)
	assert.Equal(t, "a", wrapped[0].Name())
	assert.Equal(t, "b", wrapped[1].Name())
}
