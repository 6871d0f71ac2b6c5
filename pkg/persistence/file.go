package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"calendar-engine/core"
)

// FileStore persists the collection as a single JSON document, the wire
// representation being the events' own JSON shape (ids, RFC 3339 instants,
// recurrence fields verbatim including null endDate/count).
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the collection. A missing file is an empty collection, not an
// error.
func (s *FileStore) Load(_ context.Context) ([]core.Event, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}

	var events []core.Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", s.path, err)
	}

	return events, nil
}

// Save writes the whole collection atomically: temp file in the same
// directory, then rename over the target.
func (s *FileStore) Save(_ context.Context, events []core.Event) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	data, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode events: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", s.path, err)
	}

	return nil
}
