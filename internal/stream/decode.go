package stream

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrMalformedRecord is returned when a line is not a JSON object with a string "type".
	ErrMalformedRecord = errors.New("malformed stream record")

	// ErrShapeMismatch is returned when a field is present but has the wrong shape.
	ErrShapeMismatch = errors.New("unexpected record shape")
)

// fields holds one JSON object level. Keys are matched exactly, unlike
// struct tags, which encoding/json matches case-insensitively.
type fields map[string]json.RawMessage

func decodeFields(raw []byte) (fields, error) {
	if !isObject(raw) {
		return nil, errors.New("not an object")
	}
	var obj fields
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, err
	}
	return obj, nil
}

// DecodeString is Decode for string input.
func DecodeString(line string) (Message, error) {
	return Decode([]byte(line))
}

// Decode parses a single stream-json line.
func Decode(line []byte) (Message, error) {
	entry, err := decodeFields(line)
	if err != nil {
		return Message{}, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	kind, err := requiredString(entry["type"])
	if err != nil {
		return Message{}, fmt.Errorf("%w: type: %v", ErrMalformedRecord, err)
	}

	msg := Message{Kind: Kind(kind)}

	content, err := decodeMessage(entry["message"])
	if err != nil {
		return Message{}, err
	}
	if msg.Kind == KindAssistant {
		msg.Content = content
	}

	result, err := optionalString(entry["result"])
	if err != nil {
		return Message{}, fmt.Errorf("%w: result: %v", ErrShapeMismatch, err)
	}
	if msg.Kind == KindResult {
		msg.Result = result
	}

	return msg, nil
}

// decodeMessage returns nil for an absent or null message and a non-nil
// (possibly empty) slice otherwise.
func decodeMessage(raw json.RawMessage) ([]ContentBlock, error) {
	if isNull(raw) {
		return nil, nil
	}
	payload, err := decodeFields(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: message: %v", ErrShapeMismatch, err)
	}

	content, ok := payload["content"]
	if !ok {
		return nil, fmt.Errorf("%w: message without content", ErrShapeMismatch)
	}
	if isNull(content) {
		return nil, fmt.Errorf("%w: content is null", ErrShapeMismatch)
	}
	var items []json.RawMessage
	if err := json.Unmarshal(content, &items); err != nil {
		return nil, fmt.Errorf("%w: content is not an array", ErrShapeMismatch)
	}

	blocks := make([]ContentBlock, 0, len(items))
	for idx, item := range items {
		block, err := decodeBlock(item)
		if err != nil {
			return nil, fmt.Errorf("content[%d]: %w", idx, err)
		}
		blocks = append(blocks, block)
	}
	return blocks, nil
}

func decodeBlock(raw json.RawMessage) (ContentBlock, error) {
	block, err := decodeFields(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: block: %v", ErrShapeMismatch, err)
	}
	rawType, ok := block["type"]
	if !ok {
		return nil, fmt.Errorf("%w: block without type", ErrShapeMismatch)
	}
	blockType, err := requiredString(rawType)
	if err != nil {
		return nil, fmt.Errorf("%w: block type: %v", ErrShapeMismatch, err)
	}

	switch BlockType(blockType) {
	case BlockTypeText:
		text, err := requiredString(block["text"])
		if err != nil {
			return nil, fmt.Errorf("%w: text: %v", ErrShapeMismatch, err)
		}
		return TextBlock{Text: text}, nil

	case BlockTypeToolUse:
		name, err := requiredString(block["name"])
		if err != nil {
			return nil, fmt.Errorf("%w: name: %v", ErrShapeMismatch, err)
		}
		input, ok := block["input"]
		if !ok {
			return nil, fmt.Errorf("%w: tool_use without input", ErrShapeMismatch)
		}
		return ToolUseBlock{Name: name, Input: decodeInput(input)}, nil

	default:
		return OtherBlock{Type: blockType}, nil
	}
}

// decodeInput returns the tool input as a mapping. Anything other than an
// object becomes an empty mapping.
func decodeInput(raw json.RawMessage) map[string]any {
	input := map[string]any{}
	if !isObject(raw) {
		return input
	}
	if err := json.Unmarshal(raw, &input); err != nil {
		return map[string]any{}
	}
	return input
}

func requiredString(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", errors.New("missing field")
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil || isNull(raw) {
		return "", errors.New("not a string")
	}
	return value, nil
}

func optionalString(raw json.RawMessage) (*string, error) {
	if isNull(raw) {
		return nil, nil
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, errors.New("not a string")
	}
	return &value, nil
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}
