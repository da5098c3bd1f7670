package speech

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// Service is the single entry point for both directions: voice -> text
// and text -> voice. Provider selection happens at construction time.
type Service struct {
	stt STTClient
	tts TTSClient
}

func NewService(stt STTClient, tts TTSClient) *Service {
	return &Service{
		stt: stt,
		tts: tts,
	}
}

func (s *Service) Transcribe(ctx context.Context, filePath string) (string, error) {
	if _, err := os.Stat(filePath); err != nil {
		return "", fmt.Errorf("audio file: %w", err)
	}
	return s.stt.Transcribe(ctx, filePath)
}

func (s *Service) Synthesize(ctx context.Context, text, outPath string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("empty text for synthesis")
	}
	return s.tts.Synthesize(ctx, text, outPath)
}
