package tools

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// ErrorResponse is used for consistent error reporting
func ErrorResponse(message string) *mcp.CallToolResult {
	return mcp.NewToolResultError(message)
}

// TextResult renders a raw upstream payload as two-space indented JSON in a
// single text content block. Only whitespace changes; the bytes of every
// value are kept.
func TextResult(raw json.RawMessage) (*mcp.CallToolResult, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return nil, fmt.Errorf("format result: %w", err)
	}
	return mcp.NewToolResultText(buf.String()), nil
}

// decodeArguments unmarshals raw tool arguments into target. Absent
// arguments decode as an empty object so required-field checks report
// what is missing.
func decodeArguments(raw json.RawMessage, target any) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		trimmed = []byte("{}")
	}
	if err := json.Unmarshal(trimmed, target); err != nil {
		return &ValidationError{Message: err.Error()}
	}
	return nil
}

var jsonNull = json.RawMessage("null")

// first returns the first element of a raw JSON array, or null when the
// array is empty or absent.
func first(raw json.RawMessage, err error) (json.RawMessage, error) {
	if err != nil {
		return nil, err
	}
	var items []json.RawMessage
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("decode result list: %w", err)
		}
	}
	if len(items) == 0 {
		return jsonNull, nil
	}
	return items[0], nil
}

// Common property schema for a coordinate object.
var coordinateProperties = map[string]any{
	"latitude": map[string]any{
		"type":        "number",
		"description": "Latitude in decimal degrees",
		"minimum":     -90,
		"maximum":     90,
	},
	"longitude": map[string]any{
		"type":        "number",
		"description": "Longitude in decimal degrees",
		"minimum":     -180,
		"maximum":     180,
	},
}

// readOnly marks a tool as a side-effect free query against an external service.
func readOnly(title string) []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithTitleAnnotation(title),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	}
}
