package llm

import (
	"context"
)

// Provider is the interface for all LLM providers.
type Provider interface {
	GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error)
	// AdaptInstructions transforms raw instructions into model-specific formats
	AdaptInstructions(rawInstructions string) string
}

// wantsJSON reports whether the caller asked for a JSON object response.
func wantsJSON(options map[string]interface{}) bool {
	val, ok := options["response_format"].(map[string]interface{})
	return ok && val["type"] == "json_object"
}
