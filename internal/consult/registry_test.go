package consult

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_PutGet(t *testing.T) {
	reg := NewRegistry()

	_, ok := reg.Get("missing")
	assert.False(t, ok)

	reg.Put(Consultation{ID: "abc", Response: "rest"})
	c, ok := reg.Get("abc")
	require.True(t, ok)
	assert.Equal(t, "rest", c.Response)
}

func TestRegistry_CleanupEvictsExpiredAndRemovesScratchAudio(t *testing.T) {
	reg := NewRegistry()
	dir := t.TempDir()

	oldAudio := filepath.Join(dir, "reply_old.mp3")
	require.NoError(t, os.WriteFile(oldAudio, []byte("x"), 0644))

	reg.Put(Consultation{
		ID:        "old",
		CreatedAt: time.Now().Add(-2 * time.Hour),
		AudioPath: oldAudio,
	})
	reg.Put(Consultation{
		ID:        "fresh",
		CreatedAt: time.Now(),
		AudioPath: filepath.Join(dir, "reply_fresh.mp3"),
	})

	n := reg.Cleanup(time.Hour)
	assert.Equal(t, 1, n)

	_, ok := reg.Get("old")
	assert.False(t, ok)
	_, ok = reg.Get("fresh")
	assert.True(t, ok)

	_, err := os.Stat(oldAudio)
	assert.True(t, os.IsNotExist(err))
}

func TestRegistry_CleanupKeepsArchivedAudio(t *testing.T) {
	reg := NewRegistry()
	dir := t.TempDir()

	archived := filepath.Join(dir, "doctor_voice_20250101_100000.mp3")
	require.NoError(t, os.WriteFile(archived, []byte("x"), 0644))

	reg.Put(Consultation{
		ID:        "old",
		CreatedAt: time.Now().Add(-2 * time.Hour),
		AudioPath: archived,
		Archived:  true,
	})

	assert.Equal(t, 1, reg.Cleanup(time.Hour))

	// archived artifacts are never deleted by the janitor
	_, err := os.Stat(archived)
	assert.NoError(t, err)
}
