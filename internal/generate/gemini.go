// internal/generate/gemini.go
package generate

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GeminiModel opens one Gemini chat session per call.
type GeminiModel struct {
	client *genai.Client
}

func NewGeminiModel(ctx context.Context, apiKey string) (*GeminiModel, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GeminiModel{client: client}, nil
}

func (m *GeminiModel) Generate(ctx context.Context, params Params, instruction, query string) (string, error) {
	chat, err := m.client.Chats.Create(ctx, params.Model, sessionConfig(params, instruction), nil)
	if err != nil {
		return "", fmt.Errorf("create chat session: %w", err)
	}

	resp, err := chat.SendMessage(ctx, genai.Part{Text: query})
	if err != nil {
		return "", fmt.Errorf("send message: %w", err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("empty response (%s)", blockReason(resp))
	}
	return text, nil
}

// blockReason describes why a response carried no text.
func blockReason(resp *genai.GenerateContentResponse) string {
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "prompt blocked: " + string(resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 {
		return "no candidates"
	}
	if reason := resp.Candidates[0].FinishReason; reason != "" {
		return "finish reason: " + string(reason)
	}
	return "no text"
}

func sessionConfig(params Params, instruction string) *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(instruction, genai.RoleUser),
		Temperature:       params.Temperature,
		TopP:              params.TopP,
		TopK:              params.TopK,
		MaxOutputTokens:   params.MaxOutputTokens,
		ResponseMIMEType:  params.ResponseMIMEType,
	}
}
