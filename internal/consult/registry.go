package consult

import (
	"log"
	"os"
	"sync"
	"time"
)

// Consultation is one completed pipeline run, kept in memory so the GUI
// can fetch audio and trigger downloads after the response is shown.
type Consultation struct {
	ID         string
	CreatedAt  time.Time
	Transcript string
	Response   string
	AudioPath  string
	Archived   bool
}

type Registry struct {
	mu    sync.RWMutex
	items map[string]Consultation
}

func NewRegistry() *Registry {
	return &Registry{
		items: make(map[string]Consultation),
	}
}

func (r *Registry) Put(c Consultation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[c.ID] = c
}

func (r *Registry) Get(id string) (Consultation, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.items[id]
	return c, ok
}

// Cleanup evicts consultations older than retention and deletes their
// scratch audio. Archived audio lives in the output directory and is
// never touched. Returns the number of evicted entries.
func (r *Registry) Cleanup(retention time.Duration) int {
	cutoff := time.Now().Add(-retention)

	r.mu.Lock()
	var expired []Consultation
	for id, c := range r.items {
		if c.CreatedAt.Before(cutoff) {
			expired = append(expired, c)
			delete(r.items, id)
		}
	}
	r.mu.Unlock()

	for _, c := range expired {
		if c.Archived || c.AudioPath == "" {
			continue
		}
		if err := os.Remove(c.AudioPath); err != nil && !os.IsNotExist(err) {
			log.Printf("[cleanup] remove scratch audio %s: %v", c.AudioPath, err)
		}
	}
	return len(expired)
}
