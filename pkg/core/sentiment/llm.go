package sentiment

import (
	"context"
	"fmt"
	"math"
	"strings"

	"stock_dashboard/pkg/core/utils"
)

// AgentType is the agent name used to pick the LLM provider.
const AgentType = "sentiment"

// polarityScale rounds model scores to four decimals.
const polarityScale = 1e4

const systemPrompt = `You are a financial news sentiment rater.
Rate the polarity of the text from -1.0 (very negative) to 1.0 (very positive), 0.0 when neutral.
Respond with a JSON object only: {"polarity": <number>}`

// Executor runs a prompt against the provider selected for an agent type.
// agent.Manager implements it.
type Executor interface {
	ExecutePrompt(ctx context.Context, agentType string, prompt string, systemPrompt string, options map[string]interface{}) (string, error)
}

// LLMScorer asks a language model for the polarity. Any failure falls back to
// the lexicon score, so Score never returns an error.
type LLMScorer struct {
	exec     Executor
	fallback LexiconScorer
}

// NewLLMScorer creates a scorer backed by exec.
func NewLLMScorer(exec Executor) *LLMScorer {
	return &LLMScorer{exec: exec}
}

type polarityResponse struct {
	Polarity *float64 `json:"polarity"`
}

func (s *LLMScorer) Score(ctx context.Context, text string) (float64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, nil
	}

	p, err := s.ask(ctx, text)
	if err != nil {
		fmt.Printf("[SENTIMENT] LLM scoring failed, using lexicon: %v\n", err)
		return s.fallback.Score(ctx, text)
	}
	return p, nil
}

func (s *LLMScorer) ask(ctx context.Context, text string) (float64, error) {
	options := map[string]interface{}{
		"response_format": map[string]interface{}{"type": "json_object"},
		"temperature":     0.0,
	}
	raw, err := s.exec.ExecutePrompt(ctx, AgentType, "Text:\n"+text, systemPrompt, options)
	if err != nil {
		return 0, err
	}

	var resp polarityResponse
	if _, err := utils.DecodeLenient(raw, &resp); err != nil {
		return 0, fmt.Errorf("unparseable response: %w", err)
	}
	if resp.Polarity == nil || math.IsNaN(*resp.Polarity) {
		return 0, fmt.Errorf("response has no polarity: %q", raw)
	}
	// repaired output may have passed through float32
	return clamp(math.Round(*resp.Polarity*polarityScale) / polarityScale), nil
}

// New returns the scorer named by kind ("lexicon" or "llm").
func New(kind string, exec Executor) (Scorer, error) {
	switch kind {
	case "", "lexicon":
		return LexiconScorer{}, nil
	case "llm":
		if exec == nil {
			return nil, fmt.Errorf("llm scorer needs an agent manager")
		}
		return NewLLMScorer(exec), nil
	}
	return nil, fmt.Errorf("unknown sentiment scorer %q", kind)
}
