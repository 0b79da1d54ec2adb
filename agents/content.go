// Copyright (c) Microsoft. All rights reserved.

package agents

// ContentType identifies the kind of content within a message.
type ContentType string

const (
	ContentTypeText           ContentType = "text"
	ContentTypeFunctionCall   ContentType = "functionCall"
	ContentTypeFunctionResult ContentType = "functionResult"
	ContentTypeError          ContentType = "error"
)

// Content is a sealed interface representing a piece of content within a
// [Message]. Use a type switch to inspect the underlying type.
type Content interface {
	// Type returns the discriminator for this content item.
	Type() ContentType

	// sealed prevents external implementations.
	sealed()
}

// base is embedded by every concrete Content type to satisfy the sealed marker.
type base struct{}

func (base) sealed() {}

// URLCitation is a source annotation attached to grounded text, pointing
// at the web page a span of the text was derived from.
type URLCitation struct {
	Title      string `json:"title,omitempty"`
	URL        string `json:"url"`
	StartIndex int    `json:"startIndex,omitempty"`
	EndIndex   int    `json:"endIndex,omitempty"`
}

// TextContent holds plain text, optionally annotated with URL citations
// when the text was produced by a grounded (web search) run.
type TextContent struct {
	base
	Text        string
	Annotations []URLCitation
}

func (c *TextContent) Type() ContentType { return ContentTypeText }

// FunctionCallContent represents a tool call requested by the service
// during a run's requires_action phase.
type FunctionCallContent struct {
	base
	CallID    string
	Name      string
	Arguments string // JSON-encoded arguments
}

func (c *FunctionCallContent) Type() ContentType { return ContentTypeFunctionCall }

// FunctionResultContent represents the output of a local tool invocation,
// submitted back to the run.
type FunctionResultContent struct {
	base
	CallID string
	Result any
}

func (c *FunctionResultContent) Type() ContentType { return ContentTypeFunctionResult }

// ErrorContent represents an error surfaced as message content.
type ErrorContent struct {
	base
	Message   string
	ErrorCode string
}

func (c *ErrorContent) Type() ContentType { return ContentTypeError }
