package history

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

var ErrNotFound = errors.New("game record not found")

// Store persists finished games. Implementations must be safe for concurrent
// use; the records API reads them from several goroutines.
type Store interface {
	// Add stores a new entry.
	Add(e Entry) error
	// All returns every entry, most recently played first.
	All() ([]Entry, error)
	// Get returns the entry with the given id or ErrNotFound.
	Get(id string) (Entry, error)
	// Delete removes the entry with the given id or returns ErrNotFound.
	Delete(id string) error
}

// JSONFileStore keeps entries as a stream of JSON objects in a single file.
type JSONFileStore struct {
	mu   sync.Mutex
	path string
}

// DefaultPath is where games are kept when no path is configured.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "connect4", "games.json"), nil
}

func NewJSONFileStore(path string) *JSONFileStore {
	return &JSONFileStore{path: path}
}

func (s *JSONFileStore) Path() string {
	return s.path
}

func (s *JSONFileStore) Add(e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.loadAll()
	if err != nil {
		return err
	}
	for _, existing := range entries {
		if existing.ID == e.ID {
			return fmt.Errorf("game record %s already exists", e.ID)
		}
	}
	return s.saveAll(append(entries, e))
}

func (s *JSONFileStore) All() ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.loadAll()
	if err != nil {
		return nil, err
	}
	sortNewestFirst(entries)
	return entries, nil
}

func (s *JSONFileStore) Get(id string) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.loadAll()
	if err != nil {
		return Entry{}, err
	}
	for _, e := range entries {
		if e.ID == id {
			return e, nil
		}
	}
	return Entry{}, fmt.Errorf("%s: %w", id, ErrNotFound)
}

func (s *JSONFileStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.loadAll()
	if err != nil {
		return err
	}
	kept := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(entries) {
		return fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return s.saveAll(kept)
}

// loadAll reads and decodes all entries from the file.
func (s *JSONFileStore) loadAll() ([]Entry, error) {
	file, err := os.Open(s.path)
	// A missing file is an empty history.
	if os.IsNotExist(err) {
		return []Entry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error opening games file for reading: %w", err)
	}
	defer file.Close()

	entries := make([]Entry, 0)
	decoder := json.NewDecoder(file)
	for decoder.More() {
		var entry Entry
		if err := decoder.Decode(&entry); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("error decoding JSON entry: %w", err)
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// saveAll rewrites the file with entries.
func (s *JSONFileStore) saveAll(entries []Entry) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("error creating games directory: %w", err)
	}

	file, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("error opening games file for writing: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	encoder := json.NewEncoder(writer)

	for _, entry := range entries {
		if err := encoder.Encode(entry); err != nil {
			return fmt.Errorf("error encoding JSON entry: %w", err)
		}
	}

	return writer.Flush()
}

func sortNewestFirst(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].PlayedAt.After(entries[j].PlayedAt)
	})
}
