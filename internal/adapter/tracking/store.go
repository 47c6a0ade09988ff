// Package tracking persists the alert IDs this tool created, per project,
// so deletion can target exactly the automation-created subset and leave
// default Atlas alerts alone.
package tracking

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
)

const filePerm = 0644

// Store is a JSON-file-backed TrackingRepository. The file maps project IDs
// to the alert IDs created for them.
type Store struct {
	path   string
	logger *slog.Logger

	mu sync.Mutex
}

// NewStore creates a store backed by the given file path. The file is
// created lazily on the first Append.
func NewStore(path string, logger *slog.Logger) *Store {
	return &Store{
		path:   path,
		logger: logger.With("component", "tracking_store"),
	}
}

// Load returns the tracked alert IDs for a project. A missing or unreadable
// file is treated as an empty tracking state, never an error: the worst
// outcome is that a deletion pass finds nothing to delete.
func (s *Store) Load(projectID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		return nil, err
	}
	return data[projectID], nil
}

// Append merges newly created alert IDs into the project's tracked set.
func (s *Store) Append(projectID string, alertIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		return err
	}

	existing := make(map[string]struct{}, len(data[projectID]))
	merged := data[projectID]
	for _, id := range merged {
		existing[id] = struct{}{}
	}
	for _, id := range alertIDs {
		if _, ok := existing[id]; ok {
			continue
		}
		existing[id] = struct{}{}
		merged = append(merged, id)
	}
	data[projectID] = merged

	return s.write(data)
}

// Remove drops deleted alert IDs from the project's tracked set.
func (s *Store) Remove(projectID string, alertIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		return err
	}

	drop := make(map[string]struct{}, len(alertIDs))
	for _, id := range alertIDs {
		drop[id] = struct{}{}
	}
	remaining := data[projectID][:0]
	for _, id := range data[projectID] {
		if _, gone := drop[id]; !gone {
			remaining = append(remaining, id)
		}
	}
	data[projectID] = remaining

	return s.write(data)
}

func (s *Store) read() (map[string][]string, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string][]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read tracking file %s: %w", s.path, err)
	}

	data := map[string][]string{}
	if err := json.Unmarshal(raw, &data); err != nil {
		s.logger.Warn("tracking file is corrupt, starting over", "path", s.path, "error", err)
		return map[string][]string{}, nil
	}
	return data, nil
}

func (s *Store) write(data map[string][]string) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal tracking data: %w", err)
	}
	if err := os.WriteFile(s.path, append(raw, '\n'), filePerm); err != nil {
		return fmt.Errorf("write tracking file %s: %w", s.path, err)
	}
	return nil
}
