package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Vovarama1992/go-utils/httputil"
	"github.com/Vovarama1992/go-utils/logger"

	"github.com/medvoicelab/aidoctor/internal/archive"
	"github.com/medvoicelab/aidoctor/internal/config"
	"github.com/medvoicelab/aidoctor/internal/consult"
	"github.com/medvoicelab/aidoctor/internal/delivery"
	"github.com/medvoicelab/aidoctor/internal/httpserver"
	"github.com/medvoicelab/aidoctor/internal/metrics"
	"github.com/medvoicelab/aidoctor/internal/speech"
	"github.com/medvoicelab/aidoctor/internal/vision"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {

	// =========================================================================
	// ENV / CONFIG
	// =========================================================================

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	baseLogger, _ := zap.NewProduction()
	defer baseLogger.Sync()
	zl := logger.NewZapLogger(baseLogger.Sugar())

	// =========================================================================
	// FILESYSTEM (archive dir ensured before serving)
	// =========================================================================

	archiver, err := archive.New(cfg.OutputDir)
	if err != nil {
		log.Fatalf("failed to init archive dir: %v", err)
	}

	registry := consult.NewRegistry()

	// =========================================================================
	// CLIENTS (STT / VISION / TTS)
	// =========================================================================

	var stt speech.STTClient
	switch cfg.STTProvider {
	case "deepgram":
		stt = speech.NewDeepgramClient(cfg.DeepgramAPIKey)
	default:
		stt = speech.NewWhisperClient(cfg.GroqAPIKey, cfg.InferenceBaseURL, cfg.STTModel)
	}

	var tts speech.TTSClient
	switch cfg.TTSProvider {
	case "elevenlabs":
		tts = speech.NewElevenLabsClient(cfg.ElevenLabsAPIKey, cfg.ElevenLabsVoiceID)
	default:
		tts = speech.NewOpenAITTS(cfg.GroqAPIKey, cfg.InferenceBaseURL, cfg.TTSModel, cfg.TTSVoice)
	}

	speechService := speech.NewService(stt, tts)
	analyzer := vision.NewOpenAIAnalyzer(cfg.GroqAPIKey, cfg.InferenceBaseURL, cfg.VisionModel)

	// =========================================================================
	// DOMAIN SERVICES
	// =========================================================================

	consultService := consult.NewService(
		speechService,
		analyzer,
		vision.EncodeImage,
		archiver,
		registry,
		cfg.ScratchDir,
		cfg.InferenceTimeout,
	)

	metrics.Register()

	// =========================================================================
	// HTTP ROUTER
	// =========================================================================

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{cfg.AllowedOrigins},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	// HANDLERS
	consultHandler := delivery.NewConsultHandler(consultService, registry, cfg.ScratchDir, zl)
	downloadHandler := delivery.NewDownloadHandler(archiver, registry, cfg.ExamplesDir, zl)

	// ROUTES
	delivery.RegisterRoutes(r, consultHandler, downloadHandler, cfg.RateLimitPerMin)

	r.With(httputil.RecoverMiddleware).Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","service":"aidoctor"}`))
	})
	r.Handle("/metrics", promhttp.Handler())

	// =========================================================================
	// BACKGROUND JOBS
	// =========================================================================

	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			if n := registry.Cleanup(cfg.Retention); n > 0 {
				log.Printf("[cleanup] evicted %d expired consultations", n)
			}
		}
	}()

	// =========================================================================
	// START SERVER
	// =========================================================================

	ln, port, err := httpserver.Listen(cfg.Port, cfg.PortScanAttempts)
	if err != nil {
		log.Fatalf("failed to bind port: %v", err)
	}

	zl.Log(logger.LogEntry{
		Level:   "info",
		Message: fmt.Sprintf("listening at :%d", port),
		Service: "aidoctor",
	})

	srv := &http.Server{Handler: r}
	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("shutdown: %v", err)
	}
}
