package consult

import (
	"context"
	"errors"
	"log"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/medvoicelab/aidoctor/internal/metrics"
)

// SystemPrompt fixes the doctor persona for the vision model. The reply
// is trusted verbatim; the style constraints are not checked.
const SystemPrompt = `
You are a professional doctor (for educational purposes). Analyze what's in this image medically.
If you find anything concerning, suggest potential remedies.

Response guidelines:
- Format as if speaking directly to a patient
- Begin immediately with your assessment (no "In the image I see...")
- Keep concise (2-3 sentences max)
- No numbering or special characters
- Use natural doctor-patient language
Example: "With what I see, I think you may have... I recommend..."
`

// NoImageMessage is returned instead of the model reply when the user
// submits no image. A normal branch, not an error.
const NoImageMessage = "Please provide an image for medical analysis."

type Speech interface {
	Transcribe(ctx context.Context, filePath string) (string, error)
	Synthesize(ctx context.Context, text, outPath string) error
}

type Analyzer interface {
	AnalyzeImage(ctx context.Context, query, imageDataURL string) (string, error)
}

type Archiver interface {
	SaveResponse(text, audioPath string) (string, error)
}

type EncodeFunc func(path string) (string, error)

// Result is the consultation triple plus where the audio ended up.
type Result struct {
	ID         string
	Transcript string
	Response   string
	AudioPath  string
	Archived   bool
}

// Service runs one consultation at a time: transcribe, analyze,
// synthesize, optionally archive. Strictly sequential, no retries.
type Service struct {
	speech     Speech
	vision     Analyzer
	encode     EncodeFunc
	archiver   Archiver
	registry   *Registry
	scratchDir string
	timeout    time.Duration
}

func NewService(
	speech Speech,
	vision Analyzer,
	encode EncodeFunc,
	archiver Archiver,
	registry *Registry,
	scratchDir string,
	timeout time.Duration,
) *Service {
	return &Service{
		speech:     speech,
		vision:     vision,
		encode:     encode,
		archiver:   archiver,
		registry:   registry,
		scratchDir: scratchDir,
		timeout:    timeout,
	}
}

// Run executes the pipeline for one submission. Every failure is caught
// here and collapsed: the returned Result carries the prefixed error
// message in BOTH text slots with no audio, and the error itself is a
// *Error whose Kind names the failed stage.
func (s *Service) Run(ctx context.Context, audioPath, imagePath string, save bool) (Result, error) {
	id := uuid.NewString()
	start := time.Now()
	log.Printf("[consult] >>> start id=%s image=%v save=%v", id, imagePath != "", save)

	metrics.InFlight.Inc()
	defer metrics.InFlight.Dec()

	res, err := s.run(ctx, id, audioPath, imagePath, save)
	if err != nil {
		var cerr *Error
		if !errors.As(err, &cerr) {
			cerr = newError(KindTranscription, err)
		}
		metrics.ConsultationsTotal.WithLabelValues(string(cerr.Kind)).Inc()
		log.Printf("[consult] <<< fail id=%s kind=%s err=%v took=%s",
			id, cerr.Kind, cerr.Err, time.Since(start))

		msg := cerr.Message()
		return Result{ID: id, Transcript: msg, Response: msg}, cerr
	}

	result := "ok"
	if imagePath == "" {
		result = "no_image"
	}
	metrics.ConsultationsTotal.WithLabelValues(result).Inc()
	log.Printf("[consult] <<< done id=%s archived=%v took=%s", id, res.Archived, time.Since(start))
	return res, nil
}

func (s *Service) run(ctx context.Context, id, audioPath, imagePath string, save bool) (Result, error) {
	// 1) voice -> text
	stop := stageTimer("transcribe")
	transcript, err := s.callTranscribe(ctx, audioPath)
	stop()
	if err != nil {
		return Result{}, newError(KindTranscription, err)
	}
	log.Printf("[consult] id=%s transcript=%q", id, transcript)

	// 2) image -> doctor response
	var response string
	if imagePath == "" {
		response = NoImageMessage
	} else {
		stop = stageTimer("analyze")
		response, err = s.callVision(ctx, transcript, imagePath)
		stop()
		if err != nil {
			return Result{}, newError(KindVision, err)
		}
	}
	log.Printf("[consult] id=%s response=%q", id, response)

	// 3) text -> voice; runs on the fixed no-image text too
	outPath := filepath.Join(s.scratchDir, "reply_"+id+".mp3")
	stop = stageTimer("synthesize")
	err = s.callSynthesize(ctx, response, outPath)
	stop()
	if err != nil {
		return Result{}, newError(KindSynthesis, err)
	}

	// 4) optional archive; the archived path replaces the scratch path
	archived := false
	if save {
		stop = stageTimer("archive")
		newPath, err := s.archiver.SaveResponse(response, outPath)
		stop()
		if err != nil {
			return Result{}, newError(KindArchive, err)
		}
		outPath = newPath
		archived = true
	}

	res := Result{
		ID:         id,
		Transcript: transcript,
		Response:   response,
		AudioPath:  outPath,
		Archived:   archived,
	}
	s.registry.Put(Consultation{
		ID:         id,
		CreatedAt:  time.Now(),
		Transcript: transcript,
		Response:   response,
		AudioPath:  outPath,
		Archived:   archived,
	})
	return res, nil
}

func (s *Service) callTranscribe(ctx context.Context, audioPath string) (string, error) {
	ctx, cancel := s.callContext(ctx)
	defer cancel()
	return s.speech.Transcribe(ctx, audioPath)
}

func (s *Service) callVision(ctx context.Context, transcript, imagePath string) (string, error) {
	encoded, err := s.encode(imagePath)
	if err != nil {
		return "", err
	}
	ctx, cancel := s.callContext(ctx)
	defer cancel()
	return s.vision.AnalyzeImage(ctx, SystemPrompt+transcript, encoded)
}

func (s *Service) callSynthesize(ctx context.Context, text, outPath string) error {
	ctx, cancel := s.callContext(ctx)
	defer cancel()
	return s.speech.Synthesize(ctx, text, outPath)
}

func (s *Service) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

func stageTimer(stage string) func() {
	start := time.Now()
	return func() {
		metrics.StageDurationSeconds.WithLabelValues(stage).Observe(time.Since(start).Seconds())
	}
}
