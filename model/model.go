package model

import "encoding/json"

type MessageSource string

const (
	MessageSourceUser   MessageSource = "user"
	MessageSourceModel  MessageSource = "model"
	MessageSourceSystem MessageSource = "system"
)

type Message struct {
	Source  MessageSource  `json:"source"`
	Content []ContentBlock `json:"content"`
	Usage   Usage          `json:"usage"`
}

func NewTextMessage(source MessageSource, text string) *Message {
	return &Message{
		Source:  source,
		Content: []ContentBlock{&TextBlock{Text: text}},
	}
}

func NewModelMessage(content []ContentBlock, usage Usage) *Message {
	return &Message{
		Source:  MessageSourceModel,
		Content: content,
		Usage:   usage,
	}
}

// Text returns the text of the first text block, or "" if the message has
// none.
func (m *Message) Text() string {
	for _, block := range m.Content {
		if text, ok := block.(*TextBlock); ok {
			return text.Text
		}
	}
	return ""
}

type ContentBlockType string

const (
	ContentBlockTypeText        ContentBlockType = "text"
	ContentBlockTypeToolRequest ContentBlockType = "tool_request"
	ContentBlockTypeToolResult  ContentBlockType = "tool_result"
)

type ContentBlock interface {
	Type() ContentBlockType
}

type TextBlock struct {
	Text string
}

func (t *TextBlock) Type() ContentBlockType {
	return ContentBlockTypeText
}

type ToolCallBlock struct {
	ID   string          `json:"id"`
	Tool string          `json:"tool"`
	Args json.RawMessage `json:"args"`
}

func (t *ToolCallBlock) Type() ContentBlockType {
	return ContentBlockTypeToolRequest
}

type ToolResultBlock struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Result    string `json:"result"`
	Succeeded bool   `json:"succeeded"`
}

func (t *ToolResultBlock) Type() ContentBlockType {
	return ContentBlockTypeToolResult
}

type Usage struct {
	InputTokens  int64 `json:"input_tokens"`
	OutputTokens int64 `json:"output_tokens"`
}
