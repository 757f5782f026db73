// Package patchnotes persists the release notes shown on the public
// landing page as a single JSON document on disk.
package patchnotes

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bytedance/sonic"
)

// Document is the stored payload. UpdatedBy records the admin who last
// published.
type Document struct {
	PatchNotes string    `json:"patchNotes"`
	UpdatedAt  time.Time `json:"updatedAt"`
	UpdatedBy  string    `json:"updatedBy"`
}

// Store reads and writes the patch-notes document. Writes replace the
// file atomically via a rename.
type Store struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

func NewStore(path string) *Store {
	return &Store{path: path, now: time.Now}
}

// Load returns the current document, or an empty one when the file does
// not exist yet.
func (s *Store) Load(_ context.Context) (Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return Document{}, nil
	}
	if err != nil {
		return Document{}, fmt.Errorf("read patch notes: %w", err)
	}

	var doc Document
	if err := sonic.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("decode patch notes: %w", err)
	}

	return doc, nil
}

// Save replaces the document with new content attributed to updatedBy.
func (s *Store) Save(_ context.Context, content, updatedBy string) (Document, error) {
	if content == "" {
		return Document{}, fmt.Errorf("patch notes content is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc := Document{
		PatchNotes: content,
		UpdatedAt:  s.now().UTC(),
		UpdatedBy:  updatedBy,
	}

	data, err := sonic.MarshalIndent(doc, "", "  ")
	if err != nil {
		return Document{}, fmt.Errorf("encode patch notes: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return Document{}, fmt.Errorf("create patch notes dir: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return Document{}, fmt.Errorf("write patch notes: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return Document{}, fmt.Errorf("replace patch notes: %w", err)
	}

	return doc, nil
}
