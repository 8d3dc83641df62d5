package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
)

const qwenURL = "https://dashscope.aliyuncs.com/api/v1/services/aigc/text-generation/generation"

type QwenProvider struct {
	// BaseURL overrides the DashScope generation endpoint.
	BaseURL string
	Client  *http.Client
}

type qwenRequest struct {
	Model      string         `json:"model"`
	Input      qwenInput      `json:"input"`
	Parameters qwenParameters `json:"parameters"`
}

type qwenInput struct {
	Messages []Message `json:"messages"`
}

type qwenParameters struct {
	ResultFormat   string          `json:"result_format"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
}

type qwenResponse struct {
	Output struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		// Older endpoints put the completion here.
		Text string `json:"text"`
	} `json:"output"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// qwenKey resolves the DashScope key: options first, then DASHSCOPE_API_KEY,
// then QWEN_API_KEY.
func qwenKey(options map[string]interface{}) string {
	if val, ok := options["api_key"].(string); ok && val != "" {
		return val
	}
	if key := os.Getenv("DASHSCOPE_API_KEY"); key != "" {
		return key
	}
	return os.Getenv("QWEN_API_KEY")
}

func (p *QwenProvider) GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error) {
	apiKey := qwenKey(options)
	if apiKey == "" {
		return "", fmt.Errorf("QWEN_API_KEY_MISSING: set DASHSCOPE_API_KEY or QWEN_API_KEY")
	}

	model := "qwen-max"
	if val, ok := options["model"].(string); ok && val != "" {
		model = val
	}

	reqBody := qwenRequest{
		Model: model,
		Input: qwenInput{Messages: []Message{
			{Content: systemPrompt, Role: "system"},
			{Content: prompt, Role: "user"},
		}},
		Parameters: qwenParameters{ResultFormat: "message", Temperature: 0.1},
	}
	if wantsJSON(options) {
		reqBody.Parameters.ResponseFormat = &ResponseFormat{Type: "json_object"}
	}

	jsonBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("QWEN_MARSHAL_ERROR: %v", err)
	}

	url := qwenURL
	if p.BaseURL != "" {
		url = p.BaseURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBytes))
	if err != nil {
		return "", fmt.Errorf("QWEN_REQ_CREATE_ERROR: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	client := p.Client
	if client == nil {
		client = &http.Client{}
	}
	res, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("QWEN_API_CALL_ERROR: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("QWEN_READ_BODY_ERROR: %v", err)
	}
	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("QWEN_API_ERROR: status=%d found=%s", res.StatusCode, string(body))
	}

	var response qwenResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("QWEN_UNMARSHAL_ERROR: %v", err)
	}
	if response.Code != "" {
		return "", fmt.Errorf("QWEN_API_ERROR: %s - %s", response.Code, response.Message)
	}

	if len(response.Output.Choices) > 0 {
		return response.Output.Choices[0].Message.Content, nil
	}
	if response.Output.Text != "" {
		return response.Output.Text, nil
	}
	return "", fmt.Errorf("QWEN_NO_CHOICES: %s", string(body))
}

func (p *QwenProvider) AdaptInstructions(raw string) string {
	return raw
}
