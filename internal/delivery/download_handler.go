package delivery

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"

	"github.com/medvoicelab/aidoctor/internal/archive"
	"github.com/medvoicelab/aidoctor/internal/consult"
)

type DownloadHandler struct {
	archiver    *archive.Archiver
	registry    *consult.Registry
	examplesDir string
	log         *logger.ZapLogger
}

func NewDownloadHandler(archiver *archive.Archiver, registry *consult.Registry, examplesDir string, log *logger.ZapLogger) *DownloadHandler {
	return &DownloadHandler{
		archiver:    archiver,
		registry:    registry,
		examplesDir: examplesDir,
		log:         log,
	}
}

type downloadResponse struct {
	File string `json:"file"`
	URL  string `json:"url"`
}

// DownloadText re-saves the currently displayed response text under a
// fresh timestamp. The text comes from the client because the display
// can outlive the pipeline run that produced it.
func (h *DownloadHandler) DownloadText(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}

	text := strings.TrimSpace(req.Text)
	if text == "" || strings.HasPrefix(text, consult.ErrorPrefix) {
		http.Error(w, "nothing to save", http.StatusBadRequest)
		return
	}

	name, err := h.archiver.SaveText(req.Text)
	if err != nil {
		h.log.Log(logger.LogEntry{Level: "error", Message: "failed to save text", Error: err})
		http.Error(w, "failed to save text: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(downloadResponse{File: name, URL: "/archive/" + name})
}

// DownloadAudio copies the consultation's audio under a fresh timestamp
// so the displayed audio stays playable.
func (h *DownloadHandler) DownloadAudio(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	c, ok := h.registry.Get(id)
	if !ok || c.AudioPath == "" {
		http.Error(w, "consultation not found", http.StatusNotFound)
		return
	}
	if _, err := os.Stat(c.AudioPath); err != nil {
		http.Error(w, "audio not found", http.StatusNotFound)
		return
	}

	name, err := h.archiver.SaveAudioCopy(c.AudioPath)
	if err != nil {
		h.log.Log(logger.LogEntry{Level: "error", Message: "failed to save audio", Error: err})
		http.Error(w, "failed to save audio: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(downloadResponse{File: name, URL: "/archive/" + name})
}

func (h *DownloadHandler) ServeArchive(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if !archive.ValidName(name) {
		http.Error(w, "invalid artifact name", http.StatusBadRequest)
		return
	}

	path := filepath.Join(h.archiver.Dir(), name)
	if _, err := os.Stat(path); err != nil {
		http.Error(w, "artifact not found", http.StatusNotFound)
		return
	}
	http.ServeFile(w, r, path)
}

type examplePair struct {
	Audio string `json:"audio"`
	Image string `json:"image"`
}

// examplePairs mirrors the sample consultations shipped with the app.
var examplePairs = [][2]string{
	{"cough.wav", "skin_rash.jpg"},
	{"headache.wav", "eye_redness.jpg"},
}

// ListExamples returns the sample audio/image pairs that actually exist
// on disk.
func (h *DownloadHandler) ListExamples(w http.ResponseWriter, r *http.Request) {
	valid := []examplePair{}
	for _, pair := range examplePairs {
		audioPath := filepath.Join(h.examplesDir, pair[0])
		imagePath := filepath.Join(h.examplesDir, pair[1])
		if fileExists(audioPath) && fileExists(imagePath) {
			valid = append(valid, examplePair{Audio: pair[0], Image: pair[1]})
		}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"examples": valid})
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
