// Package stream decodes Claude stream-json records into typed messages.
package stream

// Kind represents the top-level "type" field of a stream record.
type Kind string

const (
	KindAssistant Kind = "assistant"
	KindResult    Kind = "result"
)

// BlockType represents the "type" field in content blocks.
type BlockType string

const (
	BlockTypeText    BlockType = "text"
	BlockTypeToolUse BlockType = "tool_use"
)

// Message is one decoded stream record.
type Message struct {
	Kind Kind

	// Content is non-nil only for assistant records that carry a message.
	Content []ContentBlock

	// Result is non-nil only for result records with a result string.
	Result *string
}

// HasContent reports whether the assistant message payload was present.
func (m Message) HasContent() bool { return m.Content != nil }

// ContentBlock is one element of an assistant message's content.
// Implementations are TextBlock, ToolUseBlock and OtherBlock.
type ContentBlock interface {
	BlockType() BlockType
	isContentBlock()
}

// TextBlock is narrative text produced by the assistant.
type TextBlock struct {
	Text string
}

// ToolUseBlock is a tool invocation.
type ToolUseBlock struct {
	Name  string
	Input map[string]any
}

// OtherBlock stands in for any block type this package does not know.
type OtherBlock struct {
	Type string
}

func (TextBlock) BlockType() BlockType    { return BlockTypeText }
func (ToolUseBlock) BlockType() BlockType { return BlockTypeToolUse }
func (b OtherBlock) BlockType() BlockType { return BlockType(b.Type) }

func (TextBlock) isContentBlock()    {}
func (ToolUseBlock) isContentBlock() {}
func (OtherBlock) isContentBlock()   {}
