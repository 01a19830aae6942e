package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// CleanJSONResponse strips markdown code fences that models wrap around
// JSON output despite instructions not to.
func CleanJSONResponse(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}

// ExtractJSONObject returns the first balanced top-level JSON object or array
// in the text. Models sometimes prepend commentary before the payload.
func ExtractJSONObject(content string) (string, error) {
	content = CleanJSONResponse(content)

	start := strings.IndexAny(content, "{[")
	if start < 0 {
		return "", fmt.Errorf("no JSON object in response")
	}

	open := content[start]
	var close byte = '}'
	if open == '[' {
		close = ']'
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(content); i++ {
		c := content[i]
		if escaped {
			escaped = false
			continue
		}
		switch {
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case !inString && c == open:
			depth++
		case !inString && c == close:
			depth--
			if depth == 0 {
				return content[start : i+1], nil
			}
		}
	}

	return "", fmt.Errorf("unbalanced JSON in response")
}

// UnmarshalResponse extracts and decodes a JSON payload from model output.
func UnmarshalResponse(content string, v any) error {
	payload, err := ExtractJSONObject(content)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(payload), v); err != nil {
		return fmt.Errorf("decode model JSON: %w", err)
	}
	return nil
}
