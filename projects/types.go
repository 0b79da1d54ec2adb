// Copyright (c) Microsoft. All rights reserved.

package projects

import (
	"encoding/json"

	"github.com/jochenvw/agent-service-go/agents"
)

// Agent is a server-side agent configuration: a model deployment plus
// instructions and tool declarations.
type Agent struct {
	ID           string                  `json:"id"`
	Object       string                  `json:"object"`
	CreatedAt    int64                   `json:"created_at"`
	Name         string                  `json:"name"`
	Model        string                  `json:"model"`
	Instructions string                  `json:"instructions"`
	Tools        []agents.ToolDefinition `json:"tools,omitempty"`
	Metadata     map[string]string       `json:"metadata,omitempty"`
}

// AgentOptions holds the parameters for [Client.CreateAgent].
type AgentOptions struct {
	Model        string                  `json:"model"`
	Name         string                  `json:"name,omitempty"`
	Instructions string                  `json:"instructions,omitempty"`
	Tools        []agents.ToolDefinition `json:"tools,omitempty"`
	Temperature  *float64                `json:"temperature,omitempty"`
	TopP         *float64                `json:"top_p,omitempty"`
	Metadata     map[string]string       `json:"metadata,omitempty"`
}

// Thread is a server-side conversation history container.
type Thread struct {
	ID        string            `json:"id"`
	Object    string            `json:"object"`
	CreatedAt int64             `json:"created_at"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Connection is a named external resource configured on the project,
// such as a web search connection used for grounding.
type Connection struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// RunStatus is the lifecycle state of a run, owned by the service.
type RunStatus string

const (
	RunStatusQueued         RunStatus = "queued"
	RunStatusInProgress     RunStatus = "in_progress"
	RunStatusRequiresAction RunStatus = "requires_action"
	RunStatusCompleted      RunStatus = "completed"
	RunStatusFailed         RunStatus = "failed"
	RunStatusCancelling     RunStatus = "cancelling"
	RunStatusCancelled      RunStatus = "cancelled"
	RunStatusExpired        RunStatus = "expired"
)

// Terminal reports whether the run has reached a final state.
func (s RunStatus) Terminal() bool {
	switch s {
	case RunStatusCompleted, RunStatusFailed, RunStatusCancelled, RunStatusExpired:
		return true
	}
	return false
}

// Run is one invocation of an agent against a thread.
type Run struct {
	ID             string          `json:"id"`
	Object         string          `json:"object"`
	ThreadID       string          `json:"thread_id"`
	AgentID        string          `json:"assistant_id"`
	Status         RunStatus       `json:"status"`
	Model          string          `json:"model,omitempty"`
	CreatedAt      int64           `json:"created_at"`
	CompletedAt    int64           `json:"completed_at,omitempty"`
	RequiredAction *RequiredAction `json:"required_action,omitempty"`
	LastError      *RunLastError   `json:"last_error,omitempty"`
	Usage          *RunUsage       `json:"usage,omitempty"`
}

// RequiredAction describes what the run is waiting on. The only action
// type the service currently emits is submit_tool_outputs.
type RequiredAction struct {
	Type              string             `json:"type"`
	SubmitToolOutputs *SubmitToolOutputs `json:"submit_tool_outputs,omitempty"`
}

// SubmitToolOutputs lists the tool calls the run is blocked on.
type SubmitToolOutputs struct {
	ToolCalls []ToolCall `json:"tool_calls"`
}

// ToolCall is a single pending function invocation requested by a run.
type ToolCall struct {
	ID       string           `json:"id"`
	Type     string           `json:"type"`
	Function ToolCallFunction `json:"function"`
}

// ToolCallFunction carries the target function name and JSON arguments.
type ToolCallFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ToolOutput is the result of one local tool invocation, submitted back
// to the run.
type ToolOutput struct {
	ToolCallID string `json:"tool_call_id"`
	Output     string `json:"output"`
}

// RunLastError carries the failure details of a failed run.
type RunLastError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RunUsage reports token consumption for a completed run.
type RunUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// RunStep is a unit of work the service performed during a run, such as
// a message creation or a tool invocation.
type RunStep struct {
	ID        string    `json:"id"`
	Object    string    `json:"object"`
	RunID     string    `json:"run_id"`
	Type      string    `json:"type"`
	Status    RunStatus `json:"status"`
	CreatedAt int64     `json:"created_at"`
}

// deleted is the response envelope for delete operations.
type deleted struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

// wireMessage is the service representation of a thread message.
type wireMessage struct {
	ID        string        `json:"id"`
	ThreadID  string        `json:"thread_id"`
	Role      string        `json:"role"`
	Status    string        `json:"status,omitempty"`
	CreatedAt int64         `json:"created_at"`
	Content   []wireContent `json:"content"`
}

// wireContent is one polymorphic content block of a thread message.
type wireContent struct {
	Type string    `json:"type"`
	Text *wireText `json:"text,omitempty"`
}

type wireText struct {
	Value       string           `json:"value"`
	Annotations []wireAnnotation `json:"annotations,omitempty"`
}

type wireAnnotation struct {
	Type        string           `json:"type"`
	Text        string           `json:"text,omitempty"`
	StartIndex  int              `json:"start_index,omitempty"`
	EndIndex    int              `json:"end_index,omitempty"`
	URLCitation *wireURLCitation `json:"url_citation,omitempty"`
}

type wireURLCitation struct {
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
}

// messageList is the paged response envelope for ListMessages.
type messageList struct {
	Object  string          `json:"object"`
	Data    []wireMessage   `json:"data"`
	FirstID string          `json:"first_id,omitempty"`
	LastID  string          `json:"last_id,omitempty"`
	HasMore bool            `json:"has_more"`
	Raw     json.RawMessage `json:"-"`
}

// toMessage converts a wire message into the shared message type. The
// service wire format nests text under content blocks with typed
// annotations; the shared form flattens those into [agents.TextContent]
// with URL citations. The wire role "agent" maps to assistant.
func (m *wireMessage) toMessage() agents.Message {
	role := agents.Role(m.Role)
	if m.Role == "agent" {
		role = agents.RoleAssistant
	}

	var contents agents.Contents
	for _, c := range m.Content {
		if c.Type != "text" || c.Text == nil {
			continue
		}
		tc := &agents.TextContent{Text: c.Text.Value}
		for _, a := range c.Text.Annotations {
			if a.Type != "url_citation" || a.URLCitation == nil {
				continue
			}
			tc.Annotations = append(tc.Annotations, agents.URLCitation{
				Title:      a.URLCitation.Title,
				URL:        a.URLCitation.URL,
				StartIndex: a.StartIndex,
				EndIndex:   a.EndIndex,
			})
		}
		contents = append(contents, tc)
	}

	return agents.Message{
		Role:      role,
		Contents:  contents,
		MessageID: m.ID,
		ThreadID:  m.ThreadID,
		Status:    agents.MessageStatus(m.Status),
		CreatedAt: m.CreatedAt,
	}
}
