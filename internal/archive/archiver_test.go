package archive

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestArchiver(t *testing.T, at time.Time) *Archiver {
	t.Helper()
	a, err := New(filepath.Join(t.TempDir(), "out"))
	require.NoError(t, err)
	a.now = func() time.Time { return at }
	return a
}

func writeAudio(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "reply.mp3")
	require.NoError(t, os.WriteFile(path, []byte("mp3-bytes"), 0644))
	return path
}

func TestNew_EnsuresDirIdempotently(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "responses")

	_, err := New(dir)
	require.NoError(t, err)

	// second call over an existing dir must not fail
	_, err = New(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestSaveResponse_WritesTextAndMovesAudio(t *testing.T) {
	at := time.Date(2025, 3, 14, 15, 9, 26, 0, time.Local)
	a := newTestArchiver(t, at)
	audio := writeAudio(t, t.TempDir())

	newPath, err := a.SaveResponse("You may have a mild rash.", audio)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(a.Dir(), "doctor_voice_20250314_150926.mp3"), newPath)

	// text is byte-for-byte
	data, err := os.ReadFile(filepath.Join(a.Dir(), "doctor_response_20250314_150926.txt"))
	require.NoError(t, err)
	assert.Equal(t, "You may have a mild rash.", string(data))

	// audio moved, not copied
	_, err = os.Stat(audio)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(newPath)
	assert.NoError(t, err)
}

func TestSaveResponse_MissingAudioIsNoOp(t *testing.T) {
	a := newTestArchiver(t, time.Now())

	got, err := a.SaveResponse("text only", "/nonexistent/final.mp3")
	require.NoError(t, err)
	assert.Equal(t, "/nonexistent/final.mp3", got)

	// the text is still written
	entries, err := os.ReadDir(a.Dir())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Name(), "doctor_response_")
}

func TestSaveResponse_DistinctTimestampsDoNotCollide(t *testing.T) {
	a := newTestArchiver(t, time.Date(2025, 1, 1, 10, 0, 0, 0, time.Local))
	scratch := t.TempDir()

	_, err := a.SaveResponse("first", writeAudio(t, scratch))
	require.NoError(t, err)

	a.now = func() time.Time { return time.Date(2025, 1, 1, 10, 0, 1, 0, time.Local) }
	_, err = a.SaveResponse("second", writeAudio(t, scratch))
	require.NoError(t, err)

	entries, err := os.ReadDir(a.Dir())
	require.NoError(t, err)
	assert.Len(t, entries, 4) // two txt + two mp3
}

// Two saves within the same second share a filename and the later one
// wins. Known limitation of the second-resolution timestamp.
func TestSaveResponse_SameSecondOverwrites(t *testing.T) {
	a := newTestArchiver(t, time.Date(2025, 1, 1, 10, 0, 0, 0, time.Local))

	_, err := a.SaveText("first")
	require.NoError(t, err)
	name, err := a.SaveText("second")
	require.NoError(t, err)

	entries, err := os.ReadDir(a.Dir())
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	data, err := os.ReadFile(filepath.Join(a.Dir(), name))
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestSaveAudioCopy_KeepsOriginal(t *testing.T) {
	a := newTestArchiver(t, time.Date(2025, 6, 2, 8, 30, 15, 0, time.Local))
	audio := writeAudio(t, t.TempDir())

	name, err := a.SaveAudioCopy(audio)
	require.NoError(t, err)
	assert.Equal(t, "doctor_voice_20250602_083015.mp3", name)

	// original still present
	orig, err := os.ReadFile(audio)
	require.NoError(t, err)
	copied, err := os.ReadFile(filepath.Join(a.Dir(), name))
	require.NoError(t, err)
	assert.Equal(t, orig, copied)
}

func TestSaveAudioCopy_MissingSource(t *testing.T) {
	a := newTestArchiver(t, time.Now())

	_, err := a.SaveAudioCopy("/nonexistent/final.mp3")
	assert.Error(t, err)
}

func TestValidName(t *testing.T) {
	cases := []struct {
		name string
		ok   bool
	}{
		{"doctor_response_20250314_150926.txt", true},
		{"doctor_voice_20250314_150926.mp3", true},
		{"doctor_response_20250314_150926.mp3", true},
		{"doctor_voice_2025_150926.mp3", false},
		{"../etc/passwd", false},
		{"doctor_response_20250314_150926.txt.bak", false},
		{"other_20250314_150926.txt", false},
		{"", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, ValidName(tc.name), tc.name)
	}
}
