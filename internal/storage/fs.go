// Package storage persists entry file uploads and resolves them to stable
// public URLs.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/goliatone/go-cms-modular/internal/logging"
	"github.com/goliatone/go-cms-modular/pkg/interfaces"
	slug "github.com/goliatone/go-slug"
)

// DefaultBaseURL is the public prefix module uploads are served under.
const DefaultBaseURL = "/assets/img/modules"

// FSStore writes uploads to the local filesystem under root/<scope>/ and
// returns URLs under the configured base prefix. Scope is the owning module's
// slug so each module keeps its own directory.
type FSStore struct {
	root    string
	baseURL string
	now     func() time.Time
	seq     atomic.Uint64
	logger  interfaces.Logger
}

// FSOption configures the filesystem store.
type FSOption func(*FSStore)

// WithBaseURL overrides the public URL prefix.
func WithBaseURL(baseURL string) FSOption {
	return func(s *FSStore) {
		s.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithClock overrides the clock used in stored filenames.
func WithClock(clock func() time.Time) FSOption {
	return func(s *FSStore) {
		s.now = clock
	}
}

// WithLogger injects the store logger.
func WithLogger(logger interfaces.Logger) FSOption {
	return func(s *FSStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewFSStore creates a filesystem-backed store rooted at root.
func NewFSStore(root string, opts ...FSOption) *FSStore {
	s := &FSStore{
		root:    root,
		baseURL: DefaultBaseURL,
		now:     time.Now,
		logger:  logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *FSStore) Store(ctx context.Context, upload interfaces.FileUpload, scope string) (string, error) {
	if err := s.MakeDirectory(ctx, scope); err != nil {
		return "", err
	}

	name := s.storedName(upload.Filename)
	target := filepath.Join(s.scopeDir(scope), name)

	out, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("storage: create %s: %w", target, err)
	}
	defer out.Close()

	if upload.Content != nil {
		if _, err := io.Copy(out, upload.Content); err != nil {
			return "", fmt.Errorf("storage: write %s: %w", target, err)
		}
	}

	url := s.baseURL + "/" + s.scopeSegment(scope) + "/" + name
	s.logger.Debug("upload stored", "scope", scope, "url", url)
	return url, nil
}

func (s *FSStore) Exists(ctx context.Context, url string) bool {
	rel, ok := strings.CutPrefix(url, s.baseURL+"/")
	if !ok {
		return false
	}
	info, err := os.Stat(filepath.Join(s.root, filepath.FromSlash(rel)))
	return err == nil && !info.IsDir()
}

func (s *FSStore) MakeDirectory(ctx context.Context, scope string) error {
	dir := s.scopeDir(scope)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("storage: mkdir %s: %w", dir, err)
	}
	return nil
}

func (s *FSStore) scopeDir(scope string) string {
	return filepath.Join(s.root, s.scopeSegment(scope))
}

func (s *FSStore) scopeSegment(scope string) string {
	segment, err := slug.Normalize(scope)
	if err != nil || segment == "" {
		return "module"
	}
	return segment
}

// storedName builds a collision-free filename: module_<unix>_<seq>.<ext>.
// The original name contributes only its extension.
func (s *FSStore) storedName(original string) string {
	ext := strings.ToLower(path.Ext(original))
	return fmt.Sprintf("module_%d_%d%s", s.now().Unix(), s.seq.Add(1), ext)
}
