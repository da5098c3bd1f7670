package delivery

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"

	"github.com/medvoicelab/aidoctor/internal/consult"
)

type ConsultRunner interface {
	Run(ctx context.Context, audioPath, imagePath string, save bool) (consult.Result, error)
}

type ConsultHandler struct {
	service    ConsultRunner
	registry   *consult.Registry
	scratchDir string
	log        *logger.ZapLogger
}

func NewConsultHandler(service ConsultRunner, registry *consult.Registry, scratchDir string, log *logger.ZapLogger) *ConsultHandler {
	return &ConsultHandler{
		service:    service,
		registry:   registry,
		scratchDir: scratchDir,
		log:        log,
	}
}

type consultResponse struct {
	ID             string `json:"id"`
	Transcript     string `json:"transcript"`
	DoctorResponse string `json:"doctor_response"`
	AudioURL       string `json:"audio_url,omitempty"`
	Archived       bool   `json:"archived"`
	ErrorKind      string `json:"error_kind,omitempty"`
}

func (h *ConsultHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		h.log.Log(logger.LogEntry{Level: "warn", Message: "invalid multipart", Error: err})
		http.Error(w, "invalid multipart: "+err.Error(), http.StatusBadRequest)
		return
	}

	audioFile, audioHeader, err := r.FormFile("audio")
	if err != nil {
		h.log.Log(logger.LogEntry{Level: "warn", Message: "missing audio", Error: err})
		http.Error(w, "missing audio: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer audioFile.Close()

	audioPath, err := h.spool(audioFile, "upload_audio_*"+ext(audioHeader.Filename, ".wav"))
	if err != nil {
		http.Error(w, "failed to save audio: "+err.Error(), http.StatusInternalServerError)
		return
	}
	defer os.Remove(audioPath)

	// image is optional: absence is a normal branch, not an error
	var imagePath string
	imageFile, imageHeader, err := r.FormFile("image")
	switch {
	case err == nil:
		defer imageFile.Close()
		imagePath, err = h.spool(imageFile, "upload_image_*"+ext(imageHeader.Filename, ".jpg"))
		if err != nil {
			http.Error(w, "failed to save image: "+err.Error(), http.StatusInternalServerError)
			return
		}
		defer os.Remove(imagePath)
	case errors.Is(err, http.ErrMissingFile):
	default:
		http.Error(w, "invalid image: "+err.Error(), http.StatusBadRequest)
		return
	}

	save, _ := strconv.ParseBool(r.FormValue("save"))

	res, runErr := h.service.Run(r.Context(), audioPath, imagePath, save)

	resp := consultResponse{
		ID:             res.ID,
		Transcript:     res.Transcript,
		DoctorResponse: res.Response,
		Archived:       res.Archived,
	}
	if runErr != nil {
		var cerr *consult.Error
		if errors.As(runErr, &cerr) {
			resp.ErrorKind = string(cerr.Kind)
		} else {
			resp.ErrorKind = string(consult.KindTranscription)
		}
	} else if res.AudioPath != "" {
		resp.AudioURL = "/consultations/" + res.ID + "/audio"
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (h *ConsultHandler) GetAudio(w http.ResponseWriter, r *http.Request) {
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
	w.Header().Set("Content-Type", "audio/mpeg")
	http.ServeFile(w, r, c.AudioPath)
}

// spool writes an uploaded part to the scratch dir and returns its path.
func (h *ConsultHandler) spool(src multipart.File, pattern string) (string, error) {
	tmp, err := os.CreateTemp(h.scratchDir, pattern)
	if err != nil {
		return "", err
	}
	defer tmp.Close()

	if _, err := io.Copy(tmp, src); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}

func ext(filename, fallback string) string {
	if e := filepath.Ext(filename); e != "" {
		return e
	}
	return fallback
}
