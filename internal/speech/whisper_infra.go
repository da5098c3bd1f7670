package speech

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// WhisperClient transcribes through any OpenAI-compatible audio endpoint
// (Groq by default).
type WhisperClient struct {
	client *openai.Client
	model  string
}

func NewWhisperClient(apiKey, baseURL, model string) *WhisperClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &WhisperClient{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (c *WhisperClient) Transcribe(ctx context.Context, filePath string) (string, error) {
	resp, err := c.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    c.model,
		FilePath: filePath,
	})
	if err != nil {
		return "", fmt.Errorf("transcription request: %w", err)
	}
	return resp.Text, nil
}
