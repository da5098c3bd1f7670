package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port             int
	PortScanAttempts int
	AllowedOrigins   string
	RateLimitPerMin  int

	// Inference endpoint (OpenAI-compatible)
	GroqAPIKey       string
	InferenceBaseURL string
	InferenceTimeout time.Duration

	// Speech-to-text
	STTProvider    string
	STTModel       string
	DeepgramAPIKey string

	// Vision
	VisionModel string

	// Text-to-speech
	TTSProvider       string
	TTSModel          string
	TTSVoice          string
	ElevenLabsAPIKey  string
	ElevenLabsVoiceID string

	// Filesystem
	OutputDir   string
	ScratchDir  string
	ExamplesDir string

	// Registry janitor
	Retention time.Duration
}

func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:             getEnvInt("PORT", 7860),
		PortScanAttempts: getEnvInt("PORT_SCAN_ATTEMPTS", 10),
		AllowedOrigins:   getEnv("ALLOWED_ORIGINS", "*"),
		RateLimitPerMin:  getEnvInt("RATE_LIMIT_PER_MINUTE", 30),

		GroqAPIKey:       getEnv("GROQ_API_KEY", ""),
		InferenceBaseURL: getEnv("INFERENCE_BASE_URL", "https://api.groq.com/openai/v1"),
		InferenceTimeout: time.Duration(getEnvInt("INFERENCE_TIMEOUT_SECONDS", 120)) * time.Second,

		STTProvider:    getEnv("STT_PROVIDER", "whisper"),
		STTModel:       getEnv("STT_MODEL", "whisper-large-v3"),
		DeepgramAPIKey: getEnv("DEEPGRAM_API_KEY", ""),

		VisionModel: getEnv("VISION_MODEL", "meta-llama/llama-4-scout-17b-16e-instruct"),

		TTSProvider:       getEnv("TTS_PROVIDER", "openai"),
		TTSModel:          getEnv("TTS_MODEL", "playai-tts"),
		TTSVoice:          getEnv("TTS_VOICE", "Fritz-PlayAI"),
		ElevenLabsAPIKey:  getEnv("ELEVENLABS_API_KEY", ""),
		ElevenLabsVoiceID: getEnv("ELEVENLABS_VOICE_ID", "EXAVITQu4vr4xnSDxMaL"),

		OutputDir:   getEnv("OUTPUT_DIR", "doctor_responses"),
		ScratchDir:  getEnv("SCRATCH_DIR", os.TempDir()),
		ExamplesDir: getEnv("EXAMPLES_DIR", "examples"),

		Retention: time.Duration(getEnvInt("RETENTION_MINUTES", 240)) * time.Minute,
	}
}

// Validate checks that every selected provider has its credentials.
// The vision analyzer has no alternative provider, so the
// OpenAI-compatible key is required regardless of the STT/TTS choices.
func (c *Config) Validate() error {
	if c.GroqAPIKey == "" {
		return fmt.Errorf("GROQ_API_KEY is not set")
	}
	if c.STTProvider == "deepgram" && c.DeepgramAPIKey == "" {
		return fmt.Errorf("DEEPGRAM_API_KEY is not set")
	}
	if c.TTSProvider == "elevenlabs" && c.ElevenLabsAPIKey == "" {
		return fmt.Errorf("ELEVENLABS_API_KEY is not set")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
