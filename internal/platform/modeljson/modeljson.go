package modeljson

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Strip removes markdown code fences and any prose surrounding the first
// JSON object or array in a model response. Models are asked for bare JSON
// but routinely wrap it anyway. Fences are dropped per line, never inside
// one: JSON escapes newlines in string values, so a line-leading ``` cannot
// be payload, while backticks embedded in a value stay intact.
func Strip(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return s
	}

	var kept []string
	for _, line := range strings.Split(s, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		kept = append(kept, line)
	}
	s = strings.TrimSpace(strings.Join(kept, "\n"))

	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return s
	}
	var end int
	if s[start] == '{' {
		end = strings.LastIndex(s, "}")
	} else {
		end = strings.LastIndex(s, "]")
	}
	if end <= start {
		return s
	}
	return s[start : end+1]
}

// Decode strips fences from raw and unmarshals the remaining JSON into v.
func Decode(raw string, v any) error {
	cleaned := Strip(raw)
	if cleaned == "" {
		return fmt.Errorf("empty model response")
	}
	if err := json.Unmarshal([]byte(cleaned), v); err != nil {
		return fmt.Errorf("parse model JSON: %w", err)
	}
	return nil
}
