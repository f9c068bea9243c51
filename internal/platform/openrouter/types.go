package openrouter

import "encoding/json"

// Role is the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message is one entry of the conversation sent upstream.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ResponseFormat requests structured output. Type must be "json_schema".
type ResponseFormat struct {
	Type       string      `json:"type"`
	JSONSchema *JSONSchema `json:"json_schema,omitempty"`
}

// JSONSchema names the schema the model output must follow.
type JSONSchema struct {
	Name   string          `json:"name"`
	Strict bool            `json:"strict,omitempty"`
	Schema json.RawMessage `json:"schema"`
}

// ChatRequest describes one chat-completion call.
type ChatRequest struct {
	// Model overrides the client's default model.
	Model    string
	Messages []Message
	// Params holds numeric sampling parameters such as temperature,
	// top_p or max_tokens. They are sent as top-level payload fields.
	Params         map[string]float64
	ResponseFormat *ResponseFormat
	// Headers are added to the client's configured headers for this call.
	Headers map[string]string
}

// ChatResponse is the normalized result of Chat.
type ChatResponse struct {
	Model string
	// Content is the text of the first choice.
	Content string
	// Parsed holds Content decoded as JSON when a ResponseFormat was requested.
	Parsed any
	// Raw is the complete upstream response body.
	Raw json.RawMessage
}

// StreamChunk is one element of a Stream. The last chunk has Done set and
// carries the full accumulated text.
type StreamChunk struct {
	Delta       string
	Done        bool
	Accumulated string
}

type completionResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type streamFrame struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (f *streamFrame) text() string {
	if len(f.Choices) == 0 {
		return ""
	}
	if c := f.Choices[0].Delta.Content; c != "" {
		return c
	}
	return f.Choices[0].Message.Content
}

type upstreamError struct {
	Error struct {
		Message string `json:"message"`
		Code    any    `json:"code"`
	} `json:"error"`
}

// JSONSchemaFormat builds a strict json_schema response format.
func JSONSchemaFormat(name string, schema json.RawMessage) *ResponseFormat {
	return &ResponseFormat{
		Type: "json_schema",
		JSONSchema: &JSONSchema{
			Name:   name,
			Strict: true,
			Schema: schema,
		},
	}
}
