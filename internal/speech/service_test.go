package speech

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSTT struct {
	text  string
	calls int
}

func (s *stubSTT) Transcribe(_ context.Context, _ string) (string, error) {
	s.calls++
	return s.text, nil
}

type stubTTS struct {
	calls int
}

func (s *stubTTS) Synthesize(_ context.Context, _, _ string) error {
	s.calls++
	return nil
}

func TestService_TranscribeRequiresReadableFile(t *testing.T) {
	stt := &stubSTT{text: "hello"}
	svc := NewService(stt, &stubTTS{})

	_, err := svc.Transcribe(context.Background(), "/nonexistent/audio.wav")
	require.Error(t, err)
	assert.Equal(t, 0, stt.calls)

	path := filepath.Join(t.TempDir(), "a.wav")
	require.NoError(t, os.WriteFile(path, []byte("riff"), 0644))

	text, err := svc.Transcribe(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "hello", text)
	assert.Equal(t, 1, stt.calls)
}

func TestService_SynthesizeRejectsEmptyText(t *testing.T) {
	tts := &stubTTS{}
	svc := NewService(&stubSTT{}, tts)

	err := svc.Synthesize(context.Background(), "   ", "out.mp3")
	require.Error(t, err)
	// the provider is never contacted on empty input
	assert.Equal(t, 0, tts.calls)

	require.NoError(t, svc.Synthesize(context.Background(), "ok", "out.mp3"))
	assert.Equal(t, 1, tts.calls)
}
