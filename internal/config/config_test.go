package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	return &Config{
		GroqAPIKey:  "gsk-test",
		STTProvider: "whisper",
		TTSProvider: "openai",
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

// The vision analyzer always runs on the OpenAI-compatible endpoint, so
// the key stays required even when both speech providers are overridden.
func TestValidate_GroqKeyRequiredRegardlessOfProviders(t *testing.T) {
	cfg := validConfig()
	cfg.GroqAPIKey = ""
	cfg.STTProvider = "deepgram"
	cfg.DeepgramAPIKey = "dg-test"
	cfg.TTSProvider = "elevenlabs"
	cfg.ElevenLabsAPIKey = "xi-test"

	err := cfg.Validate()
	assert.ErrorContains(t, err, "GROQ_API_KEY")
}

func TestValidate_ProviderKeys(t *testing.T) {
	cfg := validConfig()
	cfg.STTProvider = "deepgram"
	assert.ErrorContains(t, cfg.Validate(), "DEEPGRAM_API_KEY")

	cfg = validConfig()
	cfg.TTSProvider = "elevenlabs"
	assert.ErrorContains(t, cfg.Validate(), "ELEVENLABS_API_KEY")
}
