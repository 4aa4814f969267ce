// Package history keeps a local log of suggested and committed messages.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultMaxEntries is the default maximum number of history entries.
const DefaultMaxEntries = 1000

// errCorrupt marks a history file that exists but cannot be parsed.
var errCorrupt = errors.New("history file is corrupt")

// Outcome describes what happened to a suggestion.
type Outcome string

const (
	OutcomeCommitted    Outcome = "committed"
	OutcomeCommitFailed Outcome = "commit_failed"
	OutcomeDryRun       Outcome = "dry_run"
)

// Entry is one run of the assistant.
type Entry struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Suggestion string    `json:"suggestion"`
	// Message is the text that was (or would have been) committed.
	Message string  `json:"message"`
	Edited  bool    `json:"edited"`
	API     string  `json:"api"`
	Model   string  `json:"model"`
	Outcome Outcome `json:"outcome"`
	Error   string  `json:"error,omitempty"`
}

// Manager defines the interface for history management.
type Manager interface {
	Save(entry *Entry) error
	List(limit int) ([]*Entry, error)
	Clear() error
}

// FileManager stores entries as a JSON array in a single file.
type FileManager struct {
	filePath   string
	maxEntries int
	mu         sync.Mutex
}

// NewFileManager creates a FileManager. Non-positive maxEntries selects DefaultMaxEntries.
func NewFileManager(filePath string, maxEntries int) *FileManager {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &FileManager{
		filePath:   filePath,
		maxEntries: maxEntries,
	}
}

// Save appends entry, assigning an ID and timestamp when missing.
// The oldest entries are dropped once the file holds more than maxEntries.
func (m *FileManager) Save(entry *Entry) error {
	if entry == nil {
		return errors.New("history entry cannot be nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	entries, err := m.load()
	if errors.Is(err, errCorrupt) {
		// Keep the unreadable file for inspection and start over.
		if err := os.Rename(m.filePath, m.backupPath()); err != nil {
			return fmt.Errorf("failed to move corrupt history aside: %w", err)
		}
		entries, err = []*Entry{}, nil
	}
	if err != nil {
		return err
	}

	entries = append(entries, entry)
	if len(entries) > m.maxEntries {
		entries = entries[len(entries)-m.maxEntries:]
	}

	return m.store(entries)
}

// List returns up to limit of the most recent entries, oldest first.
// A non-positive limit returns everything.
func (m *FileManager) List(limit int) ([]*Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries, err := m.load()
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	return entries, nil
}

// Clear removes all entries.
func (m *FileManager) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.store([]*Entry{})
}

// load reads the history file. A missing or empty file is an empty history.
func (m *FileManager) load() ([]*Entry, error) {
	data, err := os.ReadFile(m.filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []*Entry{}, nil
		}
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	if len(data) == 0 {
		return []*Entry{}, nil
	}

	var entries []*Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", errCorrupt, m.filePath, err)
	}
	return entries, nil
}

// backupPath is where a corrupt history file is moved before Save starts over.
func (m *FileManager) backupPath() string {
	return m.filePath + ".bak"
}

// store writes entries atomically with user-only permissions.
func (m *FileManager) store(entries []*Entry) error {
	dir := filepath.Dir(m.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".history-*.json")
	if err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write history: %w", err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set history permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}
	if err := os.Rename(tmpName, m.filePath); err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}
	return nil
}
