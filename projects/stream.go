// Copyright (c) Microsoft. All rights reserved.

package projects

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jochenvw/agent-service-go/agents"
)

// Run event types emitted by [Client.CreateStream]. The service sends
// more granular event names (thread.run.queued, thread.message.delta,
// ...); Kind groups them by payload shape.
type RunEventKind string

const (
	RunEventRun          RunEventKind = "run"
	RunEventMessage      RunEventKind = "message"
	RunEventMessageDelta RunEventKind = "messageDelta"
	RunEventStep         RunEventKind = "step"
	RunEventError        RunEventKind = "error"
)

// RunEvent is a single server-sent event from a streaming run. Exactly
// one payload field is populated, according to Kind.
type RunEvent struct {
	// Event is the service event name, e.g. "thread.run.in_progress".
	Event string
	Kind  RunEventKind

	Run     *Run
	Message *agents.Message
	Delta   *MessageDelta
	Step    *RunStep
	Err     *RunLastError

	Raw json.RawMessage
}

// MessageDelta is an incremental chunk of an assistant message.
type MessageDelta struct {
	MessageID string
	Text      string
	Citations []agents.URLCitation
}

// wireDelta is the service representation of a message delta event.
type wireDelta struct {
	ID    string `json:"id"`
	Delta struct {
		Content []struct {
			Index int       `json:"index"`
			Type  string    `json:"type"`
			Text  *wireText `json:"text,omitempty"`
		} `json:"content"`
	} `json:"delta"`
}

// CreateStream starts a run and streams its events as they happen:
// run status transitions, message text deltas with URL citations, and
// run step progress. The returned stream must be closed by the caller.
//
// Local function tools are not resolved on the streaming path; use
// [Client.CreateAndProcessRun] for agents with local tools.
func (c *Client) CreateStream(ctx context.Context, threadID, agentID string) (*agents.EventStream[RunEvent], error) {
	body := struct {
		AgentID string `json:"assistant_id"`
		Stream  bool   `json:"stream"`
	}{agentID, true}

	// The request runs on its own cancelable context so that closing the
	// stream aborts a body read blocked on the server.
	reqCtx, cancel := context.WithCancel(ctx)
	resp, err := c.tp.do(reqCtx, "POST", "/threads/"+threadID+"/runs", body)
	if err != nil {
		cancel()
		return nil, err
	}

	stream := agents.NewEventStream[RunEvent](ctx, func(ctx context.Context, ch chan<- RunEvent) error {
		defer cancel()
		defer resp.Body.Close()
		stop := context.AfterFunc(ctx, cancel)
		defer stop()
		return parseRunEvents(ctx, resp.Body, ch)
	})

	return stream, nil
}

// parseRunEvents reads server-sent events from r and sends parsed run
// events to ch. Data lines accumulate until the blank line ending the
// frame; multi-line data fields are joined per the SSE framing rules.
// It returns when the stream signals done, the context is cancelled, or
// an error occurs.
func parseRunEvents(ctx context.Context, r io.Reader, ch chan<- RunEvent) error {
	scanner := bufio.NewScanner(r)
	// Allow large SSE lines (grounded responses can be substantial).
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var eventName string
	var data []string

	// dispatch parses and emits the accumulated frame. done reports that
	// the stream terminated, via the done sentinel or a cancelled context.
	dispatch := func() (done bool, err error) {
		name := eventName
		payload := strings.Join(data, "\n")
		eventName, data = "", nil

		if payload == "" {
			return false, nil
		}
		if payload == "[DONE]" || name == "done" {
			return true, nil
		}

		event, parseErr := parseRunEvent(name, []byte(payload))
		if parseErr != nil {
			// Skip malformed events rather than aborting.
			return false, nil
		}

		select {
		case ch <- *event:
			return false, nil
		case <-ctx.Done():
			return true, ctx.Err()
		}
	}

	for scanner.Scan() {
		line := scanner.Text()

		if line == "" {
			done, err := dispatch()
			if done {
				return err
			}
			continue
		}
		if name, ok := strings.CutPrefix(line, "event: "); ok {
			eventName = strings.TrimSpace(name)
			continue
		}
		if d, ok := strings.CutPrefix(line, "data: "); ok {
			data = append(data, strings.TrimSpace(d))
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("%w: read event stream: %v", agents.ErrService, err)
	}

	// Flush a final frame not terminated by a blank line.
	done, err := dispatch()
	if done {
		return err
	}
	return nil
}

// parseRunEvent decodes one SSE data payload according to its event name.
func parseRunEvent(eventName string, data []byte) (*RunEvent, error) {
	event := &RunEvent{Event: eventName, Raw: json.RawMessage(data)}

	switch {
	case eventName == "error":
		var e RunLastError
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, err
		}
		event.Kind = RunEventError
		event.Err = &e

	case eventName == "thread.message.delta":
		var wire wireDelta
		if err := json.Unmarshal(data, &wire); err != nil {
			return nil, err
		}
		delta := &MessageDelta{MessageID: wire.ID}
		for _, c := range wire.Delta.Content {
			if c.Type != "text" || c.Text == nil {
				continue
			}
			delta.Text += c.Text.Value
			for _, a := range c.Text.Annotations {
				if a.Type != "url_citation" || a.URLCitation == nil {
					continue
				}
				delta.Citations = append(delta.Citations, agents.URLCitation{
					Title:      a.URLCitation.Title,
					URL:        a.URLCitation.URL,
					StartIndex: a.StartIndex,
					EndIndex:   a.EndIndex,
				})
			}
		}
		event.Kind = RunEventMessageDelta
		event.Delta = delta

	case strings.HasPrefix(eventName, "thread.message"):
		var wire wireMessage
		if err := json.Unmarshal(data, &wire); err != nil {
			return nil, err
		}
		msg := wire.toMessage()
		event.Kind = RunEventMessage
		event.Message = &msg

	case strings.HasPrefix(eventName, "thread.run.step"):
		var step RunStep
		if err := json.Unmarshal(data, &step); err != nil {
			return nil, err
		}
		event.Kind = RunEventStep
		event.Step = &step

	case strings.HasPrefix(eventName, "thread.run"):
		var run Run
		if err := json.Unmarshal(data, &run); err != nil {
			return nil, err
		}
		event.Kind = RunEventRun
		event.Run = &run

	default:
		return nil, fmt.Errorf("unhandled event %q", eventName)
	}

	return event, nil
}
