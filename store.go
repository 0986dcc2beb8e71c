package rfpdesk

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
)

// Store is the persistence collaborator. The orchestration core only ever
// consumes snapshots; the calling shell persists after extraction succeeds.
type Store interface {
	LoadAll() ([]Record, error)
	// Append assigns the next id and persists the record, returning it with
	// the id bound.
	Append(rec Record) (Record, error)
}

// FileStore keeps records as a pretty-printed JSON array in a single file.
// A missing or unreadable file loads as an empty collection so one bad file
// never blocks the application from starting.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a FileStore at path. The file is created on first Append.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// LoadAll implements Store.
func (s *FileStore) LoadAll() ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *FileStore) load() ([]Record, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: read %s: %w", s.path, err)
	}
	var recs []Record
	if err := json.Unmarshal(data, &recs); err != nil {
		slog.Warn("store: file is not a valid record array, treating as empty", "path", s.path, "error", err)
		return nil, nil
	}
	return recs, nil
}

// Append implements Store: loads the current collection, binds the next
// auto-incrementing id (max+1, starting at 1), and writes the file back.
func (s *FileStore) Append(rec Record) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs, err := s.load()
	if err != nil {
		return Record{}, err
	}
	rec.ID = nextID(recs)
	recs = append(recs, rec)
	if err := s.write(recs); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// Clear removes the backing file. Missing file is not an error.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("store: remove %s: %w", s.path, err)
	}
	return nil
}

func (s *FileStore) write(recs []Record) error {
	data, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return fmt.Errorf("store: marshal records: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("store: write %s: %w", s.path, err)
	}
	return nil
}

// nextID returns max existing id + 1, or 1 for an empty collection.
func nextID(recs []Record) int {
	max := 0
	for _, rec := range recs {
		if rec.ID > max {
			max = rec.ID
		}
	}
	return max + 1
}

var _ Store = (*FileStore)(nil)
