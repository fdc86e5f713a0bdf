// Package attachments spools downloaded attachment files to local disk and
// serves them over HTTP. Entries expire after a TTL so the spool directory
// does not grow without bound.
package attachments

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Metadata describes a stored attachment.
type Metadata struct {
	Filename string    `json:"filename"`
	MimeType string    `json:"mime_type"`
	Size     int64     `json:"size"`
	StoredAt time.Time `json:"stored_at"`
}

// Storage writes attachment bytes to a spool directory and tracks their
// metadata in memory. File IDs are generated, never caller-supplied, so they
// are safe to interpolate into paths and URLs.
type Storage struct {
	dir string
	ttl time.Duration

	mu      sync.RWMutex
	entries map[string]Metadata

	// now is swappable for expiry tests.
	now func() time.Time
}

// NewStorage creates the spool directory if needed and returns a Storage.
// A non-positive ttl disables expiry.
func NewStorage(dir string, ttl time.Duration) (*Storage, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating attachments directory %s: %w", dir, err)
	}
	return &Storage{
		dir:     dir,
		ttl:     ttl,
		entries: make(map[string]Metadata),
		now:     time.Now,
	}, nil
}

// Store writes the attachment to disk and returns its generated file ID.
func (s *Storage) Store(filename, mimeType string, data []byte) (string, error) {
	fileID := uuid.NewString()

	if err := os.WriteFile(s.Path(fileID), data, 0o600); err != nil {
		return "", fmt.Errorf("writing attachment %s: %w", fileID, err)
	}

	s.mu.Lock()
	s.entries[fileID] = Metadata{
		Filename: filename,
		MimeType: mimeType,
		Size:     int64(len(data)),
		StoredAt: s.now(),
	}
	s.mu.Unlock()

	return fileID, nil
}

// Metadata returns the stored metadata for a file ID. Expired or unknown
// entries report false; expired entries are removed along with their file.
func (s *Storage) Metadata(fileID string) (Metadata, bool) {
	s.mu.RLock()
	meta, ok := s.entries[fileID]
	s.mu.RUnlock()
	if !ok {
		return Metadata{}, false
	}

	if s.ttl > 0 && s.now().Sub(meta.StoredAt) > s.ttl {
		s.remove(fileID)
		return Metadata{}, false
	}
	return meta, true
}

// Path returns the on-disk path for a file ID. The file may not exist.
func (s *Storage) Path(fileID string) string {
	return filepath.Join(s.dir, fileID)
}

func (s *Storage) remove(fileID string) {
	s.mu.Lock()
	delete(s.entries, fileID)
	s.mu.Unlock()
	os.Remove(s.Path(fileID))
}
