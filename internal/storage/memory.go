package storage

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/goliatone/go-cms-modular/pkg/interfaces"
)

// MemoryStore keeps uploads in memory. Intended for tests and local setups
// that do not need durable files.
type MemoryStore struct {
	mu      sync.RWMutex
	files   map[string][]byte
	baseURL string
	seq     int
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		files:   map[string][]byte{},
		baseURL: DefaultBaseURL,
	}
}

func (s *MemoryStore) Store(ctx context.Context, upload interfaces.FileUpload, scope string) (string, error) {
	var content []byte
	if upload.Content != nil {
		var err error
		content, err = io.ReadAll(upload.Content)
		if err != nil {
			return "", fmt.Errorf("storage: read upload: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	url := fmt.Sprintf("%s/%s/upload_%d_%s", s.baseURL, scope, s.seq, upload.Filename)
	s.files[url] = content
	return url, nil
}

func (s *MemoryStore) Exists(ctx context.Context, url string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.files[url]
	return ok
}

func (s *MemoryStore) MakeDirectory(ctx context.Context, scope string) error {
	return nil
}

// Contents returns the stored bytes for a URL.
func (s *MemoryStore) Contents(url string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	content, ok := s.files[url]
	return content, ok
}
