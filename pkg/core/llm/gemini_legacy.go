package llm

import (
	"context"
	"fmt"
	"os"
	"strings"

	legacy "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiLegacyProvider talks to Gemini through the older generative-ai-go SDK.
// Kept for deployments pinned to models the new SDK does not list.
type GeminiLegacyProvider struct {
	Model string
}

var _ Provider = (*GeminiLegacyProvider)(nil)

func (p *GeminiLegacyProvider) GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return "", fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	client, err := legacy.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return "", fmt.Errorf("failed to create Gemini client: %v", err)
	}
	defer client.Close()

	modelName := p.Model
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}
	if val, ok := options["model"].(string); ok && val != "" {
		modelName = val
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.1)
	if wantsJSON(options) {
		model.ResponseMIMEType = "application/json"
	}
	if systemPrompt != "" {
		model.SystemInstruction = &legacy.Content{Parts: []legacy.Part{legacy.Text(systemPrompt)}}
	}

	resp, err := model.GenerateContent(ctx, legacy.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini legacy generation failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini legacy returned no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(legacy.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	return sb.String(), nil
}

func (p *GeminiLegacyProvider) AdaptInstructions(raw string) string {
	return raw
}
