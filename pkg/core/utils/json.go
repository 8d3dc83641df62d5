// Package utils holds parsing helpers for provider and model output.
package utils

import (
	"encoding/json"
	"fmt"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
)

// Parse strategies reported by DecodeLenient.
const (
	StrategyJSON   = "json"
	StrategyRepair = "repair"
	StrategyHJSON  = "hjson"
)

// DecodeLenient decodes model output into v, trying in order: plain JSON,
// json-repair (quotes, trailing commas, unclosed objects, code fences),
// then Hjson (comments, unquoted keys and strings). It returns the strategy
// that succeeded.
func DecodeLenient(input string, v interface{}) (string, error) {
	input = StripCodeFence(input)
	if input == "" {
		return "", fmt.Errorf("LENIENT_PARSE_FAILED: empty input")
	}

	if err := json.Unmarshal([]byte(input), v); err == nil {
		return StrategyJSON, nil
	}

	if repaired, err := jsonrepair.RepairJSON(input); err == nil {
		if err := json.Unmarshal([]byte(repaired), v); err == nil {
			return StrategyRepair, nil
		}
	}

	var generic interface{}
	if err := hjson.Unmarshal([]byte(input), &generic); err == nil {
		// hjson yields map[string]interface{}; round-trip through JSON so
		// struct tags on v apply.
		if b, err := json.Marshal(generic); err == nil {
			if err := json.Unmarshal(b, v); err == nil {
				return StrategyHJSON, nil
			}
		}
	}

	return "", fmt.Errorf("LENIENT_PARSE_FAILED: no strategy could decode %q", truncate(input, 80))
}

// StripCodeFence removes one surrounding ``` or ```json fence.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") || !strings.HasSuffix(s, "```") || len(s) < 6 {
		return s
	}
	s = strings.TrimSuffix(strings.TrimPrefix(s, "```"), "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 && !strings.ContainsAny(s[:nl], "{[") {
		s = s[nl+1:]
	}
	return strings.TrimSpace(s)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
