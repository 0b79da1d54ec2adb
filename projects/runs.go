// Copyright (c) Microsoft. All rights reserved.

package projects

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jochenvw/agent-service-go/agents"
)

// ProcessConfig controls the run-processing loop of [Client.CreateAndProcessRun].
type ProcessConfig struct {
	// MaxToolRounds is the maximum number of requires_action rounds
	// answered before aborting. Default: 40.
	MaxToolRounds int

	// MaxConsecutiveErrors is the maximum number of consecutive tool
	// invocation errors before aborting. Default: 3.
	MaxConsecutiveErrors int
}

// DefaultProcessConfig returns the default configuration.
func DefaultProcessConfig() ProcessConfig {
	return ProcessConfig{
		MaxToolRounds:        40,
		MaxConsecutiveErrors: 3,
	}
}

// CreateRun starts a run of the agent against the thread. The service
// schedules and executes the run; poll [Client.GetRun] for progress.
func (c *Client) CreateRun(ctx context.Context, threadID, agentID string) (*Run, error) {
	body := struct {
		AgentID string `json:"assistant_id"`
	}{agentID}

	resp, err := c.tp.do(ctx, "POST", "/threads/"+threadID+"/runs", body)
	if err != nil {
		return nil, err
	}

	var run Run
	if err := decode(resp, &run); err != nil {
		return nil, err
	}
	slog.DebugContext(ctx, "run created", "run_id", run.ID, "thread_id", threadID, "agent_id", agentID)
	return &run, nil
}

// GetRun retrieves the current state of a run.
func (c *Client) GetRun(ctx context.Context, threadID, runID string) (*Run, error) {
	resp, err := c.tp.do(ctx, "GET", "/threads/"+threadID+"/runs/"+runID, nil)
	if err != nil {
		return nil, err
	}

	var run Run
	if err := decode(resp, &run); err != nil {
		return nil, err
	}
	return &run, nil
}

// CancelRun requests cancellation of an in-flight run.
func (c *Client) CancelRun(ctx context.Context, threadID, runID string) (*Run, error) {
	resp, err := c.tp.do(ctx, "POST", "/threads/"+threadID+"/runs/"+runID+"/cancel", struct{}{})
	if err != nil {
		return nil, err
	}

	var run Run
	if err := decode(resp, &run); err != nil {
		return nil, err
	}
	return &run, nil
}

// SubmitToolOutputs answers a requires_action run with local tool results.
func (c *Client) SubmitToolOutputs(ctx context.Context, threadID, runID string, outputs []ToolOutput) (*Run, error) {
	body := struct {
		ToolOutputs []ToolOutput `json:"tool_outputs"`
	}{outputs}

	resp, err := c.tp.do(ctx, "POST", "/threads/"+threadID+"/runs/"+runID+"/submit_tool_outputs", body)
	if err != nil {
		return nil, err
	}

	var run Run
	if err := decode(resp, &run); err != nil {
		return nil, err
	}
	return &run, nil
}

// CreateAndProcessRun creates a run and drives it to a terminal state:
// it polls the run status and, whenever the service blocks on
// requires_action, invokes the matching local tools from toolset and
// submits their outputs. A nil toolset is valid for agents without local
// tools. The returned run is in a terminal state; a failed run yields an
// [agents.RunError].
func (c *Client) CreateAndProcessRun(ctx context.Context, threadID, agentID string, toolset *agents.ToolSet, cfg ...ProcessConfig) (*Run, error) {
	config := DefaultProcessConfig()
	if len(cfg) > 0 {
		config = cfg[0]
		if config.MaxToolRounds <= 0 {
			config.MaxToolRounds = 40
		}
		if config.MaxConsecutiveErrors <= 0 {
			config.MaxConsecutiveErrors = 3
		}
	}

	run, err := c.CreateRun(ctx, threadID, agentID)
	if err != nil {
		return nil, err
	}

	toolRounds := 0
	consecutiveErrors := 0

	for {
		if run.Status.Terminal() {
			break
		}

		if run.Status == RunStatusRequiresAction {
			toolRounds++
			if toolRounds > config.MaxToolRounds {
				return run, fmt.Errorf("%w: %d tool rounds", agents.ErrRunTimeout, config.MaxToolRounds)
			}

			outputs, errCount, err := c.resolveToolCalls(ctx, run, toolset)
			if err != nil {
				return run, err
			}
			consecutiveErrors += errCount
			if errCount == 0 {
				consecutiveErrors = 0
			}
			if consecutiveErrors >= config.MaxConsecutiveErrors {
				return run, fmt.Errorf("%w: max consecutive errors reached (%d)", agents.ErrToolExecution, consecutiveErrors)
			}

			run, err = c.SubmitToolOutputs(ctx, threadID, run.ID, outputs)
			if err != nil {
				return nil, err
			}
			continue
		}

		if err := sleepCtx(ctx, c.pollInterval); err != nil {
			return run, err
		}
		run, err = c.GetRun(ctx, threadID, run.ID)
		if err != nil {
			return nil, err
		}
	}

	if run.Status == RunStatusFailed {
		runErr := &agents.RunError{RunID: run.ID, Status: string(run.Status)}
		if run.LastError != nil {
			runErr.Code = run.LastError.Code
			runErr.Detail = run.LastError.Message
		}
		return run, runErr
	}

	slog.DebugContext(ctx, "run processed", "run_id", run.ID, "status", run.Status, "tool_rounds", toolRounds)
	return run, nil
}

// resolveToolCalls invokes every pending tool call of a requires_action
// run. Invocation errors do not abort the round: they are reported back
// to the run as JSON error payloads so the model can react, and counted
// so the caller can enforce the consecutive-error cap.
func (c *Client) resolveToolCalls(ctx context.Context, run *Run, toolset *agents.ToolSet) (outputs []ToolOutput, errCount int, err error) {
	if run.RequiredAction == nil || run.RequiredAction.SubmitToolOutputs == nil {
		return nil, 0, fmt.Errorf("%w: requires_action run without tool calls", agents.ErrInvalidResponse)
	}
	if toolset == nil {
		return nil, 0, fmt.Errorf("%w: run requires tool outputs but no toolset was provided", agents.ErrToolUnknown)
	}

	calls := run.RequiredAction.SubmitToolOutputs.ToolCalls
	outputs = make([]ToolOutput, 0, len(calls))
	for _, call := range calls {
		if call.Type != "function" {
			continue
		}

		result, invokeErr := toolset.InvokeJSON(ctx, call.Function.Name, json.RawMessage(call.Function.Arguments))
		if invokeErr != nil {
			errCount++
			slog.WarnContext(ctx, "tool invocation error",
				"tool", call.Function.Name,
				"run_id", run.ID,
				"error", invokeErr,
			)
			payload, _ := json.Marshal(map[string]string{"error": invokeErr.Error()})
			result = string(payload)
		}
		outputs = append(outputs, ToolOutput{ToolCallID: call.ID, Output: result})
	}
	return outputs, errCount, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
