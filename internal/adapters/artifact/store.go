// Package artifact persists the trained model as a single opaque blob.
//
// Writes replace the blob atomically (write to a temp file, then
// rename), so a concurrent load observes either the old or the new
// artifact in full, never a partial write. Retrains are serialized
// against each other; loads never block.
package artifact

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/okian/muster/internal/domain/training"
)

// Store provides wholesale read/write access to the model artifact.
type Store interface {
	// Save atomically replaces the persisted artifact.
	Save(ctx context.Context, art *training.Artifact) error

	// Load reads the current artifact. A missing, corrupt, or
	// schema-less blob reports ErrUnavailable.
	Load(ctx context.Context) (*training.Artifact, error)
}

// FileStore is a Store backed by one JSON file.
type FileStore struct {
	mu   sync.Mutex // serializes writers; readers go through the filesystem
	path string
}

// NewFileStore creates a FileStore at the given path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Save marshals the artifact and swaps it into place.
func (s *FileStore) Save(_ context.Context, art *training.Artifact) error {
	data, err := json.Marshal(art)
	if err != nil {
		return fmt.Errorf("marshal artifact: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create artifact dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("create temp artifact: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write temp artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp artifact: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("swap artifact: %w", err)
	}
	return nil
}

// Load reads and validates the persisted artifact.
func (s *FileStore) Load(_ context.Context) (*training.Artifact, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrUnavailable
		}
		return nil, fmt.Errorf("%w: read: %v", ErrUnavailable, err)
	}

	var art training.Artifact
	if err := json.Unmarshal(data, &art); err != nil {
		return nil, fmt.Errorf("%w: corrupt artifact: %v", ErrUnavailable, err)
	}
	if art.Schema == nil || art.Version != training.ArtifactVersion {
		return nil, fmt.Errorf("%w: unsupported artifact version %d", ErrUnavailable, art.Version)
	}
	return &art, nil
}
