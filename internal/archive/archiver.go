package archive

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"time"
)

const (
	textPrefix      = "doctor_response_"
	audioPrefix     = "doctor_voice_"
	timestampLayout = "20060102_150405"
)

var artifactName = regexp.MustCompile(`^doctor_(response|voice)_\d{8}_\d{6}\.(txt|mp3)$`)

// Archiver persists consultation artifacts as timestamped flat files.
// Two saves within the same second collide on filename and the later
// write wins; the second-resolution timestamp is the correlating key
// between a consultation's text and audio.
type Archiver struct {
	dir string
	now func() time.Time
}

// New ensures the output directory exists. Called once at startup,
// before the server accepts requests.
func New(dir string) (*Archiver, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return &Archiver{dir: dir, now: time.Now}, nil
}

func (a *Archiver) Dir() string {
	return a.dir
}

// SaveResponse writes the response text byte-for-byte under a fresh
// timestamp and moves the audio file to the sibling name. A missing
// audio file is a no-op on the audio side: the given path comes back
// unchanged.
func (a *Archiver) SaveResponse(text, audioPath string) (string, error) {
	ts := a.now().Format(timestampLayout)

	textPath := filepath.Join(a.dir, textPrefix+ts+".txt")
	if err := os.WriteFile(textPath, []byte(text), 0644); err != nil {
		return "", fmt.Errorf("write response text: %w", err)
	}

	if audioPath == "" {
		return audioPath, nil
	}
	if _, err := os.Stat(audioPath); err != nil {
		return audioPath, nil
	}

	newAudioPath := filepath.Join(a.dir, audioPrefix+ts+".mp3")
	if err := os.Rename(audioPath, newAudioPath); err != nil {
		return "", fmt.Errorf("move audio: %w", err)
	}
	return newAudioPath, nil
}

// SaveText re-saves already displayed response text under a fresh
// timestamp. Returns the archive filename.
func (a *Archiver) SaveText(text string) (string, error) {
	name := textPrefix + a.now().Format(timestampLayout) + ".txt"
	if err := os.WriteFile(filepath.Join(a.dir, name), []byte(text), 0644); err != nil {
		return "", fmt.Errorf("write response text: %w", err)
	}
	return name, nil
}

// SaveAudioCopy copies (not moves) the audio under a fresh timestamp so
// the displayed audio keeps playing. Returns the archive filename.
func (a *Archiver) SaveAudioCopy(audioPath string) (string, error) {
	src, err := os.Open(audioPath)
	if err != nil {
		return "", fmt.Errorf("open audio: %w", err)
	}
	defer src.Close()

	name := audioPrefix + a.now().Format(timestampLayout) + ".mp3"
	dst, err := os.Create(filepath.Join(a.dir, name))
	if err != nil {
		return "", fmt.Errorf("create audio copy: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("copy audio: %w", err)
	}
	return name, nil
}

// ValidName reports whether name matches the archive artifact naming
// pattern. Used to keep the archive-serving endpoint from reading
// arbitrary paths.
func ValidName(name string) bool {
	return artifactName.MatchString(name)
}
