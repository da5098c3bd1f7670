package speech

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWhisperClient_Transcribe(t *testing.T) {
	var gotPath, gotAuth, gotModel string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")

		require.NoError(t, r.ParseMultipartForm(32<<20))
		gotModel = r.FormValue("model")
		_, _, err := r.FormFile("file")
		require.NoError(t, err)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text":"I have a persistent cough"}`))
	}))
	defer srv.Close()

	c := NewWhisperClient("gsk-key", srv.URL, "whisper-large-v3")

	text, err := c.Transcribe(context.Background(), writeWAV(t))
	require.NoError(t, err)

	assert.Equal(t, "I have a persistent cough", text)
	assert.Equal(t, "/audio/transcriptions", gotPath)
	assert.Equal(t, "Bearer gsk-key", gotAuth)
	assert.Equal(t, "whisper-large-v3", gotModel)
}

func TestWhisperClient_ServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"invalid api key"}}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewWhisperClient("bad", srv.URL, "whisper-large-v3")

	_, err := c.Transcribe(context.Background(), writeWAV(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "transcription request")
}

func TestWhisperClient_MissingFile(t *testing.T) {
	c := NewWhisperClient("gsk-key", "http://unused", "whisper-large-v3")

	_, err := c.Transcribe(context.Background(), "/nonexistent/audio.wav")
	assert.Error(t, err)
}
