// Copyright (c) Microsoft. All rights reserved.

package projects

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/jochenvw/agent-service-go/agents"
)

func TestCreateAndProcessRunPolling(t *testing.T) {
	statuses := []string{"queued", "in_progress", "completed"}
	polls := 0

	tp := &mockTransport{handler: func(method, path string, _ any) (*http.Response, error) {
		switch {
		case method == "POST":
			return jsonResponse(200, `{"id":"run_1","thread_id":"th_1","status":"queued"}`), nil
		case method == "GET":
			polls++
			status := statuses[min(polls, len(statuses)-1)]
			return jsonResponse(200, fmt.Sprintf(`{"id":"run_1","thread_id":"th_1","status":%q}`, status)), nil
		}
		return nil, fmt.Errorf("unexpected %s %s", method, path)
	}}
	client := newWithTransport(tp, time.Millisecond)

	run, err := client.CreateAndProcessRun(context.Background(), "th_1", "asst_1", nil)
	if err != nil {
		t.Fatalf("CreateAndProcessRun() error: %v", err)
	}
	if run.Status != RunStatusCompleted {
		t.Errorf("status = %q, want completed", run.Status)
	}
	if polls < 2 {
		t.Errorf("polls = %d, want at least 2", polls)
	}
}

func TestCreateAndProcessRunToolCalls(t *testing.T) {
	requiresAction := `{"id":"run_1","thread_id":"th_1","status":"requires_action",
		"required_action":{"type":"submit_tool_outputs","submit_tool_outputs":{"tool_calls":[
			{"id":"call_1","type":"function","function":{"name":"fetch_weather","arguments":"{\"city\":\"Oslo\"}"}}
		]}}}`

	var submitted []ToolOutput
	tp := &mockTransport{handler: func(method, path string, body any) (*http.Response, error) {
		switch {
		case method == "POST" && path == "/threads/th_1/runs":
			return jsonResponse(200, requiresAction), nil
		case method == "POST" && path == "/threads/th_1/runs/run_1/submit_tool_outputs":
			b, _ := json.Marshal(body)
			var payload struct {
				ToolOutputs []ToolOutput `json:"tool_outputs"`
			}
			if err := json.Unmarshal(b, &payload); err != nil {
				return nil, err
			}
			submitted = payload.ToolOutputs
			return jsonResponse(200, `{"id":"run_1","thread_id":"th_1","status":"completed"}`), nil
		}
		return nil, fmt.Errorf("unexpected %s %s", method, path)
	}}
	client := newWithTransport(tp, time.Millisecond)

	tool := agents.NewTypedTool("fetch_weather", "Fetch the weather.",
		func(_ context.Context, args struct {
			City string `json:"city"`
		}) (any, error) {
			return `{"temperature":12}`, nil
		})
	toolset := agents.NewToolSet(tool)

	run, err := client.CreateAndProcessRun(context.Background(), "th_1", "asst_1", toolset)
	if err != nil {
		t.Fatalf("CreateAndProcessRun() error: %v", err)
	}
	if run.Status != RunStatusCompleted {
		t.Errorf("status = %q, want completed", run.Status)
	}
	if len(submitted) != 1 {
		t.Fatalf("submitted = %+v, want one output", submitted)
	}
	if submitted[0].ToolCallID != "call_1" || submitted[0].Output != `{"temperature":12}` {
		t.Errorf("submitted[0] = %+v", submitted[0])
	}
}

func TestCreateAndProcessRunToolErrorPayload(t *testing.T) {
	requiresAction := `{"id":"run_1","thread_id":"th_1","status":"requires_action",
		"required_action":{"type":"submit_tool_outputs","submit_tool_outputs":{"tool_calls":[
			{"id":"call_1","type":"function","function":{"name":"flaky","arguments":"{}"}}
		]}}}`

	var submitted []ToolOutput
	tp := &mockTransport{handler: func(method, path string, body any) (*http.Response, error) {
		switch {
		case method == "POST" && path == "/threads/th_1/runs":
			return jsonResponse(200, requiresAction), nil
		case method == "POST" && path == "/threads/th_1/runs/run_1/submit_tool_outputs":
			b, _ := json.Marshal(body)
			var payload struct {
				ToolOutputs []ToolOutput `json:"tool_outputs"`
			}
			_ = json.Unmarshal(b, &payload)
			submitted = payload.ToolOutputs
			return jsonResponse(200, `{"id":"run_1","thread_id":"th_1","status":"completed"}`), nil
		}
		return nil, fmt.Errorf("unexpected %s %s", method, path)
	}}
	client := newWithTransport(tp, time.Millisecond)

	flaky := agents.NewTool("flaky", "Always fails.", nil,
		func(_ context.Context, _ json.RawMessage) (any, error) {
			return nil, errors.New("upstream down")
		})
	toolset := agents.NewToolSet(flaky)

	if _, err := client.CreateAndProcessRun(context.Background(), "th_1", "asst_1", toolset); err != nil {
		t.Fatalf("CreateAndProcessRun() error: %v", err)
	}

	// The tool failure is reported to the model, not surfaced as a Go error.
	if len(submitted) != 1 {
		t.Fatalf("submitted = %+v, want one output", submitted)
	}
	var payload map[string]string
	if err := json.Unmarshal([]byte(submitted[0].Output), &payload); err != nil {
		t.Fatalf("output is not JSON: %q", submitted[0].Output)
	}
	if payload["error"] == "" {
		t.Errorf("output = %q, want an error payload", submitted[0].Output)
	}
}

func TestCreateAndProcessRunConsecutiveErrorCap(t *testing.T) {
	requiresAction := `{"id":"run_1","thread_id":"th_1","status":"requires_action",
		"required_action":{"type":"submit_tool_outputs","submit_tool_outputs":{"tool_calls":[
			{"id":"call_1","type":"function","function":{"name":"flaky","arguments":"{}"}}
		]}}}`

	submits := 0
	tp := &mockTransport{handler: func(method, path string, _ any) (*http.Response, error) {
		switch {
		case method == "POST" && path == "/threads/th_1/runs":
			return jsonResponse(200, requiresAction), nil
		case method == "POST" && path == "/threads/th_1/runs/run_1/submit_tool_outputs":
			// The service keeps asking for the same tool.
			submits++
			return jsonResponse(200, requiresAction), nil
		}
		return nil, fmt.Errorf("unexpected %s %s", method, path)
	}}
	client := newWithTransport(tp, time.Millisecond)

	flaky := agents.NewTool("flaky", "Always fails.", nil,
		func(_ context.Context, _ json.RawMessage) (any, error) {
			return nil, errors.New("upstream down")
		})
	toolset := agents.NewToolSet(flaky)

	_, err := client.CreateAndProcessRun(context.Background(), "th_1", "asst_1", toolset,
		ProcessConfig{MaxToolRounds: 10, MaxConsecutiveErrors: 2})
	if !errors.Is(err, agents.ErrToolExecution) {
		t.Fatalf("error = %v, want ErrToolExecution", err)
	}
	// The cap aborts the round before its outputs are submitted.
	if submits != 1 {
		t.Errorf("submits = %d, want 1 (one failing round below the cap)", submits)
	}
}

func TestCreateAndProcessRunToolRoundCap(t *testing.T) {
	requiresAction := `{"id":"run_1","thread_id":"th_1","status":"requires_action",
		"required_action":{"type":"submit_tool_outputs","submit_tool_outputs":{"tool_calls":[
			{"id":"call_1","type":"function","function":{"name":"echo","arguments":"{}"}}
		]}}}`

	submits := 0
	tp := &mockTransport{handler: func(method, path string, _ any) (*http.Response, error) {
		switch {
		case method == "POST" && path == "/threads/th_1/runs":
			return jsonResponse(200, requiresAction), nil
		case method == "POST" && path == "/threads/th_1/runs/run_1/submit_tool_outputs":
			submits++
			return jsonResponse(200, requiresAction), nil
		}
		return nil, fmt.Errorf("unexpected %s %s", method, path)
	}}
	client := newWithTransport(tp, time.Millisecond)

	echo := agents.NewTool("echo", "Succeeds.", nil,
		func(_ context.Context, _ json.RawMessage) (any, error) {
			return "ok", nil
		})
	toolset := agents.NewToolSet(echo)

	_, err := client.CreateAndProcessRun(context.Background(), "th_1", "asst_1", toolset,
		ProcessConfig{MaxToolRounds: 3, MaxConsecutiveErrors: 3})
	if !errors.Is(err, agents.ErrRunTimeout) {
		t.Fatalf("error = %v, want ErrRunTimeout", err)
	}
	if submits != 3 {
		t.Errorf("submits = %d, want 3 (one per allowed round)", submits)
	}
}

func TestCreateAndProcessRunErrorCapResets(t *testing.T) {
	requiresAction := `{"id":"run_1","thread_id":"th_1","status":"requires_action",
		"required_action":{"type":"submit_tool_outputs","submit_tool_outputs":{"tool_calls":[
			{"id":"call_1","type":"function","function":{"name":"alternating","arguments":"{}"}}
		]}}}`

	submits := 0
	tp := &mockTransport{handler: func(method, path string, _ any) (*http.Response, error) {
		switch {
		case method == "POST" && path == "/threads/th_1/runs":
			return jsonResponse(200, requiresAction), nil
		case method == "POST" && path == "/threads/th_1/runs/run_1/submit_tool_outputs":
			submits++
			if submits < 4 {
				return jsonResponse(200, requiresAction), nil
			}
			return jsonResponse(200, `{"id":"run_1","thread_id":"th_1","status":"completed"}`), nil
		}
		return nil, fmt.Errorf("unexpected %s %s", method, path)
	}}
	client := newWithTransport(tp, time.Millisecond)

	invocations := 0
	alternating := agents.NewTool("alternating", "Fails every other call.", nil,
		func(_ context.Context, _ json.RawMessage) (any, error) {
			invocations++
			if invocations%2 == 1 {
				return nil, errors.New("transient")
			}
			return "ok", nil
		})
	toolset := agents.NewToolSet(alternating)

	// Failing rounds never run back to back, so the cap of 2 must not trip.
	run, err := client.CreateAndProcessRun(context.Background(), "th_1", "asst_1", toolset,
		ProcessConfig{MaxToolRounds: 10, MaxConsecutiveErrors: 2})
	if err != nil {
		t.Fatalf("CreateAndProcessRun() error: %v", err)
	}
	if run.Status != RunStatusCompleted {
		t.Errorf("status = %q, want completed", run.Status)
	}
	if invocations != 4 {
		t.Errorf("invocations = %d, want 4", invocations)
	}
}

func TestCreateAndProcessRunNilToolset(t *testing.T) {
	requiresAction := `{"id":"run_1","thread_id":"th_1","status":"requires_action",
		"required_action":{"type":"submit_tool_outputs","submit_tool_outputs":{"tool_calls":[
			{"id":"call_1","type":"function","function":{"name":"fetch_weather","arguments":"{}"}}
		]}}}`

	tp := &mockTransport{handler: func(_, _ string, _ any) (*http.Response, error) {
		return jsonResponse(200, requiresAction), nil
	}}
	client := newWithTransport(tp, time.Millisecond)

	_, err := client.CreateAndProcessRun(context.Background(), "th_1", "asst_1", nil)
	if !errors.Is(err, agents.ErrToolUnknown) {
		t.Errorf("error = %v, want ErrToolUnknown", err)
	}
}

func TestCreateAndProcessRunFailed(t *testing.T) {
	tp := &mockTransport{handler: func(_, _ string, _ any) (*http.Response, error) {
		return jsonResponse(200, `{"id":"run_1","thread_id":"th_1","status":"failed",
			"last_error":{"code":"rate_limit_exceeded","message":"slow down"}}`), nil
	}}
	client := newWithTransport(tp, time.Millisecond)

	run, err := client.CreateAndProcessRun(context.Background(), "th_1", "asst_1", nil)
	if !errors.Is(err, agents.ErrRunFailed) {
		t.Fatalf("error = %v, want ErrRunFailed", err)
	}
	var runErr *agents.RunError
	if !errors.As(err, &runErr) {
		t.Fatalf("error is not a *RunError: %v", err)
	}
	if runErr.Code != "rate_limit_exceeded" || runErr.Detail != "slow down" {
		t.Errorf("runErr = %+v", runErr)
	}
	if run == nil || run.Status != RunStatusFailed {
		t.Errorf("run = %+v, want failed run returned alongside the error", run)
	}
}

func TestCreateAndProcessRunCancelledContext(t *testing.T) {
	tp := &mockTransport{handler: func(method, _ string, _ any) (*http.Response, error) {
		return jsonResponse(200, `{"id":"run_1","thread_id":"th_1","status":"in_progress"}`), nil
	}}
	client := newWithTransport(tp, 50*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.CreateAndProcessRun(ctx, "th_1", "asst_1", nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestRunStatusTerminal(t *testing.T) {
	terminal := []RunStatus{RunStatusCompleted, RunStatusFailed, RunStatusCancelled, RunStatusExpired}
	for _, s := range terminal {
		if !s.Terminal() {
			t.Errorf("%q.Terminal() = false, want true", s)
		}
	}
	active := []RunStatus{RunStatusQueued, RunStatusInProgress, RunStatusRequiresAction, RunStatusCancelling}
	for _, s := range active {
		if s.Terminal() {
			t.Errorf("%q.Terminal() = true, want false", s)
		}
	}
}
