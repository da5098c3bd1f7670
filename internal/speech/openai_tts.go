package speech

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAITTS synthesizes speech through any OpenAI-compatible speech
// endpoint and writes the MP3 stream to the requested path.
type OpenAITTS struct {
	client *openai.Client
	model  string
	voice  string
}

func NewOpenAITTS(apiKey, baseURL, model, voice string) *OpenAITTS {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAITTS{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		voice:  voice,
	}
}

func (t *OpenAITTS) Synthesize(ctx context.Context, text, outPath string) error {
	resp, err := t.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(t.model),
		Input:          text,
		Voice:          openai.SpeechVoice(t.voice),
		ResponseFormat: openai.SpeechResponseFormatMp3,
	})
	if err != nil {
		return fmt.Errorf("tts request: %w", err)
	}
	defer resp.Close()

	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return err
	}

	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, resp)
	return err
}
