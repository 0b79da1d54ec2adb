// Copyright (c) Microsoft. All rights reserved.

package agents

import (
	"encoding/json"
	"fmt"
)

// MarshalContentJSON marshals a single Content value into its JSON
// envelope, using a $type discriminator.
func MarshalContentJSON(c Content) ([]byte, error) {
	switch v := c.(type) {
	case *TextContent:
		return json.Marshal(struct {
			Type        string        `json:"$type"`
			Text        string        `json:"text"`
			Annotations []URLCitation `json:"annotations,omitempty"`
		}{string(ContentTypeText), v.Text, v.Annotations})

	case *FunctionCallContent:
		return json.Marshal(struct {
			Type      string          `json:"$type"`
			CallID    string          `json:"callId"`
			Name      string          `json:"name"`
			Arguments json.RawMessage `json:"arguments,omitempty"`
		}{string(ContentTypeFunctionCall), v.CallID, v.Name, json.RawMessage(v.Arguments)})

	case *FunctionResultContent:
		return json.Marshal(struct {
			Type   string `json:"$type"`
			CallID string `json:"callId"`
			Result any    `json:"result,omitempty"`
		}{string(ContentTypeFunctionResult), v.CallID, v.Result})

	case *ErrorContent:
		return json.Marshal(struct {
			Type      string `json:"$type"`
			Message   string `json:"message,omitempty"`
			ErrorCode string `json:"errorCode,omitempty"`
		}{string(ContentTypeError), v.Message, v.ErrorCode})

	default:
		return nil, fmt.Errorf("unknown content type: %T", c)
	}
}

// UnmarshalContentJSON unmarshals a single Content value from its JSON envelope.
func UnmarshalContentJSON(data []byte) (Content, error) {
	var env struct {
		Type string `json:"$type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("unmarshal content envelope: %w", err)
	}

	switch ContentType(env.Type) {
	case ContentTypeText:
		var v struct {
			Text        string        `json:"text"`
			Annotations []URLCitation `json:"annotations"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return &TextContent{Text: v.Text, Annotations: v.Annotations}, nil

	case ContentTypeFunctionCall:
		var v struct {
			CallID    string          `json:"callId"`
			Name      string          `json:"name"`
			Arguments json.RawMessage `json:"arguments"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return &FunctionCallContent{CallID: v.CallID, Name: v.Name, Arguments: string(v.Arguments)}, nil

	case ContentTypeFunctionResult:
		var v struct {
			CallID string `json:"callId"`
			Result any    `json:"result"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return &FunctionResultContent{CallID: v.CallID, Result: v.Result}, nil

	case ContentTypeError:
		var v struct {
			Message   string `json:"message"`
			ErrorCode string `json:"errorCode"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return &ErrorContent{Message: v.Message, ErrorCode: v.ErrorCode}, nil

	default:
		return nil, fmt.Errorf("unknown content $type: %q", env.Type)
	}
}

// Contents is a typed slice enabling JSON marshal/unmarshal of polymorphic
// Content arrays.
type Contents []Content

// MarshalJSON serializes each Content item using its $type discriminator.
func (cs Contents) MarshalJSON() ([]byte, error) {
	items := make([]json.RawMessage, len(cs))
	for i, c := range cs {
		b, err := MarshalContentJSON(c)
		if err != nil {
			return nil, fmt.Errorf("marshal content[%d]: %w", i, err)
		}
		items[i] = b
	}
	return json.Marshal(items)
}

// UnmarshalJSON deserializes a JSON array of Content items using the $type
// discriminator.
func (cs *Contents) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	result := make([]Content, len(raw))
	for i, r := range raw {
		c, err := UnmarshalContentJSON(r)
		if err != nil {
			return fmt.Errorf("unmarshal content[%d]: %w", i, err)
		}
		result[i] = c
	}
	*cs = result
	return nil
}
