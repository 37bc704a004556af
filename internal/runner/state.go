// SPDX-License-Identifier: AGPL-3.0-or-later

// Package runner persists the summary of the last analysis run.
package runner

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bartekus/omnilens/internal/projection"
)

// DefaultDir is the state directory relative to the analyzed root.
const DefaultDir = ".omnilens/run"

// StateStore handles reading and writing runner state.
type StateStore struct {
	baseDir string
}

// NewStateStore creates a store at the given base directory (e.g. .omnilens/run).
func NewStateStore(baseDir string) *StateStore {
	return &StateStore{baseDir: baseDir}
}

func (s *StateStore) lastRunPath() string {
	return filepath.Join(s.baseDir, "last-run.json")
}

// ReadLastRun loads the last run summary. A missing file yields nil, nil.
func (s *StateStore) ReadLastRun() (*LastRun, error) {
	path := s.lastRunPath()
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil // Not found is clean state
	}
	if err != nil {
		return nil, fmt.Errorf("opening last run file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var last LastRun
	if err := json.NewDecoder(f).Decode(&last); err != nil {
		return nil, fmt.Errorf("decoding last run: %w", err)
	}
	return &last, nil
}

// WriteLastRun saves the run summary atomically.
func (s *StateStore) WriteLastRun(last LastRun) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(last); err != nil {
		return fmt.Errorf("encoding last run: %w", err)
	}
	return projection.AtomicWrite(s.lastRunPath(), buf.Bytes())
}

// Reset clears the state directory.
func (s *StateStore) Reset() error {
	return os.RemoveAll(s.baseDir)
}
