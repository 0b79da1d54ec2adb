// Copyright (c) Microsoft. All rights reserved.

package agents

import "strings"

// Role identifies the author of a [Message].
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
	RoleTool      Role = "tool"
)

// MessageStatus reports the lifecycle state of a service-side message.
type MessageStatus string

const (
	MessageStatusInProgress MessageStatus = "in_progress"
	MessageStatusCompleted  MessageStatus = "completed"
	MessageStatusIncomplete MessageStatus = "incomplete"
)

// Message represents a single chat message exchanged with an agent.
// Messages created locally carry only Role and Contents; messages
// retrieved from the service also carry the service-assigned identifiers.
type Message struct {
	Role      Role          `json:"role"`
	Contents  Contents      `json:"contents,omitempty"`
	MessageID string        `json:"messageId,omitempty"`
	ThreadID  string        `json:"threadId,omitempty"`
	Status    MessageStatus `json:"status,omitempty"`
	CreatedAt int64         `json:"createdAt,omitempty"`
}

// Text returns the concatenated text of all [TextContent] items in this message.
func (m *Message) Text() string {
	var b strings.Builder
	for _, c := range m.Contents {
		if tc, ok := c.(*TextContent); ok {
			b.WriteString(tc.Text)
		}
	}
	return b.String()
}

// Citations returns all URL citations attached to this message's text content.
func (m *Message) Citations() []URLCitation {
	var cites []URLCitation
	for _, c := range m.Contents {
		if tc, ok := c.(*TextContent); ok {
			cites = append(cites, tc.Annotations...)
		}
	}
	return cites
}

// NewUserMessage creates a user-role [Message] from a text string.
func NewUserMessage(text string) Message {
	return Message{
		Role:     RoleUser,
		Contents: Contents{&TextContent{Text: text}},
	}
}

// NewAssistantMessage creates an assistant-role [Message] from a text string.
func NewAssistantMessage(text string) Message {
	return Message{
		Role:     RoleAssistant,
		Contents: Contents{&TextContent{Text: text}},
	}
}

// LatestAssistantText returns the text of the first assistant message in
// msgs, or "" if none is present. The service lists messages newest-first,
// so the first assistant entry is the most recent agent response.
func LatestAssistantText(msgs []Message) string {
	for i := range msgs {
		if msgs[i].Role == RoleAssistant {
			return msgs[i].Text()
		}
	}
	return ""
}
