// Package receipts records which components are installed where.
// The receipts file is loaded lazily on first use and written atomically.
package receipts

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Receipt describes one installed component.
type Receipt struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Version     string    `json:"version,omitempty"`
	URL         string    `json:"url"`
	Path        string    `json:"path"`
	Entries     int       `json:"entries"`
	InstalledAt time.Time `json:"installed_at"`
}

type document struct {
	Components map[string]Receipt `json:"components"`
}

// Store is a JSON-backed set of receipts, safe for concurrent use.
// Mutable
type Store struct {
	path   string
	doc    *document
	loaded bool
	dirty  bool
	mu     sync.RWMutex
}

// Open returns a store for the receipts file at path. Nothing is read
// until the store is first used.
func Open(path string) *Store {
	return &Store{path: path}
}

// Get returns the receipt for the named component.
func (s *Store) Get(name string) (Receipt, bool, error) {
	s.mu.RLock()
	if s.loaded {
		defer s.mu.RUnlock()
		r, ok := s.doc.Components[name]
		return r, ok, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loadLocked(); err != nil {
		return Receipt{}, false, err
	}
	r, ok := s.doc.Components[name]
	return r, ok, nil
}

// List returns all receipts ordered by component name.
func (s *Store) List() ([]Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loadLocked(); err != nil {
		return nil, err
	}

	out := make([]Receipt, 0, len(s.doc.Components))
	for _, r := range s.doc.Components {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Record stores r under its name, assigning an ID and timestamp when
// missing, and saves the file.
func (s *Store) Record(r Receipt) (Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loadLocked(); err != nil {
		return Receipt{}, err
	}

	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.InstalledAt.IsZero() {
		r.InstalledAt = time.Now().UTC()
	}
	s.doc.Components[r.Name] = r
	s.dirty = true

	return r, s.saveLocked()
}

// Remove deletes the receipt for name and saves the file.
func (s *Store) Remove(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loadLocked(); err != nil {
		return err
	}
	if _, ok := s.doc.Components[name]; !ok {
		return nil
	}
	delete(s.doc.Components, name)
	s.dirty = true
	return s.saveLocked()
}

// Must be called with the write lock held.
func (s *Store) loadLocked() error {
	if s.loaded {
		return nil
	}

	doc := &document{}
	data, err := os.ReadFile(s.path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return fmt.Errorf("failed to read receipts: %w", err)
	default:
		if err := json.Unmarshal(data, doc); err != nil {
			return fmt.Errorf("failed to parse receipts %s: %w", s.path, err)
		}
	}
	if doc.Components == nil {
		doc.Components = make(map[string]Receipt)
	}

	s.doc = doc
	s.loaded = true
	return nil
}

// Must be called with the write lock held.
func (s *Store) saveLocked() error {
	if !s.dirty {
		return nil
	}

	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal receipts: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	s.dirty = false
	return nil
}
